package routes_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"masterboxer.com/project-social-backend/database"
	"masterboxer.com/project-social-backend/routes"
	"masterboxer.com/project-social-backend/services"
)

type testServer struct {
	handler http.Handler
	assets  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := database.NewMemoryStore()
	tokens, err := services.NewTokenService("test-secret", 0)
	require.NoError(t, err)

	assets := t.TempDir()
	handler := routes.NewRouter(routes.Dependencies{
		Auth:       services.NewAuthService(store, services.NewPasswordHasher(bcrypt.MinCost), tokens),
		Users:      services.NewUserService(store, false),
		Posts:      services.NewPostService(store, store),
		Tokens:     tokens,
		AssetsDir:  assets,
		CORSOrigin: "*",
	})
	return &testServer{handler: handler, assets: assets}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

type account struct {
	ID    string
	Token string
}

// signUp registers and logs in a user.
func (s *testServer) signUp(t *testing.T, first, email string) account {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/auth/register", "", map[string]interface{}{
		"firstName":  first,
		"lastName":   "Tester",
		"email":      email,
		"password":   "secret123",
		"location":   "Berlin",
		"occupation": "Engineer",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    email,
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"_id"`
		} `json:"user"`
	}
	decode(t, rec, &out)
	return account{ID: out.User.ID, Token: out.Token}
}

func TestRegister_ReturnsCreatedUserWithHash(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/auth/register", "", map[string]interface{}{
		"firstName": "Ada",
		"lastName":  "Lovelace",
		"email":     "ada@x.com",
		"password":  "secret123",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var user map[string]interface{}
	decode(t, rec, &user)
	assert.NotEmpty(t, user["_id"])
	assert.Equal(t, []interface{}{}, user["friends"])
	hash, _ := user["password"].(string)
	assert.True(t, strings.HasPrefix(hash, "$2"))
	assert.NotEqual(t, "secret123", hash)
}

func TestRegister_FailuresAre500(t *testing.T) {
	s := newTestServer(t)
	s.signUp(t, "Ada", "ada@x.com")

	dup := s.do(t, http.MethodPost, "/auth/register", "", map[string]interface{}{
		"firstName": "Ada", "lastName": "Again", "email": "ada@x.com", "password": "secret123",
	})
	assert.Equal(t, http.StatusInternalServerError, dup.Code)

	short := s.do(t, http.MethodPost, "/auth/register", "", map[string]interface{}{
		"firstName": "A", "lastName": "Lovelace", "email": "a@x.com", "password": "secret123",
	})
	assert.Equal(t, http.StatusInternalServerError, short.Code)
	var body map[string]string
	decode(t, short, &body)
	assert.Contains(t, body["error"], "firstName")
}

func TestRegister_MultipartStoresPicture(t *testing.T) {
	s := newTestServer(t)

	body, contentType := multipartForm(t, map[string]string{
		"firstName": "Ada", "lastName": "Lovelace", "email": "ada@x.com", "password": "secret123",
	}, "avatar.png", "png-bytes")

	req := httptest.NewRequest(http.MethodPost, "/auth/register", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var user map[string]interface{}
	decode(t, rec, &user)
	assert.Equal(t, "avatar.png", user["picturePath"])

	stored, err := os.ReadFile(filepath.Join(s.assets, "avatar.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(stored))

	asset := s.do(t, http.MethodGet, "/assets/avatar.png", "", nil)
	assert.Equal(t, http.StatusOK, asset.Code)
	assert.Equal(t, "png-bytes", asset.Body.String())
}

func TestLogin(t *testing.T) {
	s := newTestServer(t)
	acct := s.signUp(t, "Ada", "ada@x.com")
	assert.NotEmpty(t, acct.Token)

	rec := s.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": "ada@x.com", "password": "secret123"})
	var ok struct {
		User map[string]interface{} `json:"user"`
	}
	decode(t, rec, &ok)
	assert.Equal(t, "Ada", ok.User["firstName"])
	assert.NotContains(t, ok.User, "password")

	tests := []struct {
		name  string
		email string
		pass  string
		want  string
	}{
		{"wrong password", "ada@x.com", "nope", "Invalid Password"},
		{"unknown email", "ghost@x.com", "secret123", "User does not exist"},
		{"email case differs", "ADA@x.com", "secret123", "User does not exist"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": tt.email, "password": tt.pass})
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.JSONEq(t, `{"err":"`+tt.want+`"}`, rec.Body.String())
		})
	}
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	s := newTestServer(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/users/abc"},
		{http.MethodGet, "/users/abc/friends"},
		{http.MethodPatch, "/users/abc/def"},
		{http.MethodGet, "/posts"},
		{http.MethodPost, "/posts"},
		{http.MethodGet, "/posts/abc"},
		{http.MethodPatch, "/posts/abc/like"},
	} {
		rec := s.do(t, tc.method, tc.path, "", nil)
		assert.Equal(t, http.StatusForbidden, rec.Code, tc.path)
		assert.Equal(t, "Access Denied", rec.Body.String())
	}

	rec := s.do(t, http.MethodGet, "/posts", "not-a-jwt", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestUsersAndFriends(t *testing.T) {
	s := newTestServer(t)
	ada := s.signUp(t, "Ada", "ada@x.com")
	bob := s.signUp(t, "Bob", "bob@x.com")

	rec := s.do(t, http.MethodGet, "/users/"+ada.ID, ada.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var user map[string]interface{}
	decode(t, rec, &user)
	assert.Equal(t, "Ada", user["firstName"])
	assert.NotContains(t, user, "password")

	rec = s.do(t, http.MethodGet, "/users/missing", ada.Token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "null", strings.TrimSpace(rec.Body.String()))

	rec = s.do(t, http.MethodPatch, "/users/"+ada.ID+"/"+bob.ID, ada.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"msg":"added/removed friend"}`, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/users/"+bob.ID+"/friends", ada.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var friends []map[string]interface{}
	decode(t, rec, &friends)
	require.Len(t, friends, 1)
	assert.Equal(t, ada.ID, friends[0]["_id"])
	assert.Equal(t, "Engineer", friends[0]["occupation"])
	assert.NotContains(t, friends[0], "email")

	rec = s.do(t, http.MethodPatch, "/users/"+ada.ID+"/"+bob.ID, ada.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(t, http.MethodGet, "/users/"+ada.ID+"/friends", ada.Token, nil)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = s.do(t, http.MethodPatch, "/users/"+ada.ID+"/ghost", ada.Token, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	rec = s.do(t, http.MethodGet, "/users/ghost/friends", ada.Token, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestPostsFlow(t *testing.T) {
	s := newTestServer(t)
	ada := s.signUp(t, "Ada", "ada@x.com")
	bob := s.signUp(t, "Bob", "bob@x.com")

	rec := s.do(t, http.MethodPost, "/posts", ada.Token, map[string]string{"userId": ada.ID, "description": "hello"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = s.do(t, http.MethodPost, "/posts", bob.Token, map[string]string{"userId": bob.ID, "description": "hi"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var all []map[string]interface{}
	decode(t, rec, &all)
	require.Len(t, all, 2)
	assert.Equal(t, "hello", all[0]["description"])
	assert.Equal(t, "Ada", all[0]["firstName"])
	assert.Equal(t, map[string]interface{}{}, all[0]["likes"])
	assert.Equal(t, []interface{}{}, all[0]["comments"])
	postID := all[0]["_id"].(string)

	rec = s.do(t, http.MethodPost, "/posts", ada.Token, map[string]string{"userId": "ghost", "description": "x"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	rec = s.do(t, http.MethodPost, "/posts", ada.Token, map[string]string{"description": "no author"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodGet, "/posts", ada.Token, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	decode(t, rec, &all)
	assert.Len(t, all, 2)

	for _, path := range []string{"/posts/" + bob.ID, "/posts/" + bob.ID + "/posts"} {
		rec = s.do(t, http.MethodGet, path, ada.Token, nil)
		require.Equal(t, http.StatusCreated, rec.Code, path)
		decode(t, rec, &all)
		require.Len(t, all, 1)
		assert.Equal(t, "hi", all[0]["description"])
	}

	rec = s.do(t, http.MethodPatch, "/posts/"+postID+"/like", bob.Token, map[string]string{"userId": bob.ID})
	require.Equal(t, http.StatusCreated, rec.Code)
	var post map[string]interface{}
	decode(t, rec, &post)
	assert.Equal(t, map[string]interface{}{bob.ID: true}, post["likes"])

	rec = s.do(t, http.MethodPatch, "/posts/"+postID+"/like", bob.Token, map[string]string{"userId": bob.ID})
	require.Equal(t, http.StatusCreated, rec.Code)
	decode(t, rec, &post)
	assert.Equal(t, map[string]interface{}{}, post["likes"])

	rec = s.do(t, http.MethodPatch, "/posts/ghost/like", bob.Token, map[string]string{"userId": bob.ID})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "social_http_requests_total")
}

func multipartForm(t *testing.T, fields map[string]string, fileName, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileName != "" {
		fw, err := mw.CreateFormFile("picture", fileName)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestCreatePost_Multipart(t *testing.T) {
	s := newTestServer(t)
	ada := s.signUp(t, "Ada", "ada@x.com")

	body, contentType := multipartForm(t, map[string]string{
		"userId":      ada.ID,
		"description": "sunset",
	}, "sunset.jpg", "jpg-bytes")

	req := httptest.NewRequest(http.MethodPost, "/posts", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+ada.Token)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var all []map[string]interface{}
	decode(t, rec, &all)
	require.Len(t, all, 1)
	assert.Equal(t, "sunset.jpg", all[0]["picturePath"])
	assert.Equal(t, "sunset", all[0]["description"])
	assert.Equal(t, ada.ID, all[0]["userId"])

	stored, err := os.ReadFile(filepath.Join(s.assets, "sunset.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "jpg-bytes", string(stored))

	body, contentType = multipartForm(t, map[string]string{
		"userId":      ada.ID,
		"description": "explicit path",
		"picturePath": "chosen.png",
	}, "upload.png", "png-bytes")
	req = httptest.NewRequest(http.MethodPost, "/posts", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+ada.Token)
	rec = httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	decode(t, rec, &all)
	require.Len(t, all, 2)
	assert.Equal(t, "chosen.png", all[1]["picturePath"])
}

func TestCreatePost_MalformedMultipartIsConflict(t *testing.T) {
	s := newTestServer(t)
	ada := s.signUp(t, "Ada", "ada@x.com")

	req := httptest.NewRequest(http.MethodPost, "/posts", strings.NewReader("this is not a multipart body"))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=xyz")
	req.Header.Set("Authorization", "Bearer "+ada.Token)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	var out map[string]string
	decode(t, rec, &out)
	assert.Contains(t, out["error"], "multipart")

	feed := s.do(t, http.MethodGet, "/posts", ada.Token, nil)
	assert.JSONEq(t, `[]`, feed.Body.String())
}

func TestRegisterAndLogin_LongPassword(t *testing.T) {
	s := newTestServer(t)
	password := strings.Repeat("x", 80)

	rec := s.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"firstName": "Ada", "lastName": "Lovelace", "email": "ada@x.com", "password": password,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": "ada@x.com", "password": password})
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestLogin_MalformedRequestsUseErrKey(t *testing.T) {
	s := newTestServer(t)

	for name, body := range map[string]string{
		"missing password": `{"email":"ada@x.com"}`,
		"missing email":    `{"password":"secret123"}`,
		"invalid json":     `{"email":`,
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			s.handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			var out map[string]string
			decode(t, rec, &out)
			assert.NotEmpty(t, out["err"])
			assert.NotContains(t, out, "error")
		})
	}
}
