package handlers

import (
	"net/http"
	"net/url"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"masterboxer.com/project-social-backend/services"
)

type CreatePostRequest struct {
	UserID      string `json:"userId" validate:"required"`
	Description string `json:"description"`
	PicturePath string `json:"picturePath"`
}

func (req *CreatePostRequest) fromForm(form url.Values) {
	req.UserID = form.Get("userId")
	req.Description = form.Get("description")
	req.PicturePath = form.Get("picturePath")
}

type LikePostRequest struct {
	UserID string `json:"userId" validate:"required"`
}

// CreatePost stores a post and responds 201 with every post. All failures are 409.
func CreatePost(posts *services.PostService, uploads *Uploads) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreatePostRequest
		if isMultipart(r) {
			form, picture, err := uploads.parseForm(r)
			if err != nil {
				respondError(w, http.StatusConflict, err.Error())
				return
			}
			req.fromForm(form)
			if req.PicturePath == "" {
				req.PicturePath = picture
			}
		} else if err := decodeJSON(r, &req); err != nil {
			respondError(w, http.StatusConflict, err.Error())
			return
		}

		if err := validate.Struct(&req); err != nil {
			respondError(w, http.StatusConflict, validationMessage(err))
			return
		}

		all, err := posts.CreatePost(r.Context(), services.CreatePostInput{
			UserID:      req.UserID,
			Description: req.Description,
			PicturePath: req.PicturePath,
		})
		if err != nil {
			log.WithError(err).WithField("user_id", req.UserID).Error("CreatePost failed")
			respondError(w, http.StatusConflict, err.Error())
			return
		}

		respondJSON(w, http.StatusCreated, all)
	}
}

// GetFeedPosts responds 201 with all posts.
func GetFeedPosts(posts *services.PostService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all, err := posts.GetFeedPosts(r.Context())
		if err != nil {
			log.WithError(err).Error("GetFeedPosts failed")
			respondError(w, http.StatusNotFound, err.Error())
			return
		}

		respondJSON(w, http.StatusCreated, all)
	}
}

// GetUserPosts responds 201 with the posts authored by userId.
func GetUserPosts(posts *services.PostService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := mux.Vars(r)["userId"]

		userPosts, err := posts.GetUserPosts(r.Context(), userID)
		if err != nil {
			log.WithError(err).WithField("user_id", userID).Error("GetUserPosts failed")
			respondError(w, http.StatusNotFound, err.Error())
			return
		}

		respondJSON(w, http.StatusCreated, userPosts)
	}
}

// LikePost toggles userId's like and responds 201 with the updated post.
func LikePost(posts *services.PostService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		var req LikePostRequest
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, http.StatusNotFound, err.Error())
			return
		}
		if err := validate.Struct(&req); err != nil {
			respondError(w, http.StatusNotFound, validationMessage(err))
			return
		}

		post, err := posts.ToggleLike(r.Context(), id, req.UserID)
		if err != nil {
			log.WithError(err).WithField("post_id", id).Error("LikePost failed")
			respondError(w, http.StatusNotFound, err.Error())
			return
		}

		respondJSON(w, http.StatusCreated, post)
	}
}
