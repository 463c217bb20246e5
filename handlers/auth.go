package handlers

import (
	"net/http"
	"net/url"

	log "github.com/sirupsen/logrus"
	"masterboxer.com/project-social-backend/services"
)

type RegisterRequest struct {
	FirstName   string   `json:"firstName" validate:"required,min=2,max=50"`
	LastName    string   `json:"lastName" validate:"required,min=2,max=50"`
	Email       string   `json:"email" validate:"required,max=50"`
	Password    string   `json:"password" validate:"required,min=5"`
	PicturePath string   `json:"picturePath"`
	Friends     []string `json:"friends"`
	Location    string   `json:"location"`
	Occupation  string   `json:"occupation"`
}

func (req *RegisterRequest) fromForm(form url.Values) {
	req.FirstName = form.Get("firstName")
	req.LastName = form.Get("lastName")
	req.Email = form.Get("email")
	req.Password = form.Get("password")
	req.PicturePath = form.Get("picturePath")
	req.Friends = form["friends"]
	req.Location = form.Get("location")
	req.Occupation = form.Get("occupation")
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Register creates a user. The response includes the stored password hash.
func Register(auth *services.AuthService, uploads *Uploads) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if isMultipart(r) {
			form, picture, err := uploads.parseForm(r)
			if err != nil {
				respondError(w, http.StatusBadRequest, err.Error())
				return
			}
			req.fromForm(form)
			if req.PicturePath == "" {
				req.PicturePath = picture
			}
		} else if err := decodeJSON(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}

		if err := validate.Struct(&req); err != nil {
			respondError(w, http.StatusInternalServerError, validationMessage(err))
			return
		}

		user, err := auth.Register(r.Context(), services.RegisterInput{
			FirstName:   req.FirstName,
			LastName:    req.LastName,
			Email:       req.Email,
			Password:    req.Password,
			PicturePath: req.PicturePath,
			Friends:     req.Friends,
			Location:    req.Location,
			Occupation:  req.Occupation,
		})
		if err != nil {
			log.WithError(err).Error("Register failed")
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}

		respondJSON(w, http.StatusCreated, user)
	}
}

func Login(auth *services.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := decodeJSON(r, &req); err != nil {
			respondLoginError(w, err.Error())
			return
		}
		if err := validate.Struct(&req); err != nil {
			respondLoginError(w, validationMessage(err))
			return
		}

		result, err := auth.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			if services.IsInvalidCredentials(err) {
				respondLoginError(w, err.Error())
				return
			}
			log.WithError(err).Error("Login failed")
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}

		respondJSON(w, http.StatusOK, result)
	}
}

// respondLoginError writes a client-side login failure under the "err" key.
func respondLoginError(w http.ResponseWriter, msg string) {
	respondJSON(w, http.StatusBadRequest, map[string]string{"err": msg})
}
