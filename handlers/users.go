package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"masterboxer.com/project-social-backend/services"
)

// GetUser responds 200 with the user, or with null when it does not exist.
func GetUser(users *services.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		user, err := users.GetUser(r.Context(), id)
		if err != nil {
			log.WithError(err).WithField("user_id", id).Error("GetUser failed")
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}

		respondJSON(w, http.StatusOK, user)
	}
}

func GetUserFriends(users *services.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		friends, err := users.GetFriends(r.Context(), id)
		if err != nil {
			log.WithError(err).WithField("user_id", id).Error("GetUserFriends failed")
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}

		respondJSON(w, http.StatusOK, friends)
	}
}

func AddRemoveFriend(users *services.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		id, friendID := vars["id"], vars["friendId"]

		if err := users.ToggleFriend(r.Context(), id, friendID); err != nil {
			log.WithError(err).WithFields(log.Fields{
				"user_id":   id,
				"friend_id": friendID,
			}).Error("AddRemoveFriend failed")
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}

		respondJSON(w, http.StatusOK, map[string]string{"msg": "added/removed friend"})
	}
}
