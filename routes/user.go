package routes

import (
	"github.com/gorilla/mux"
	"masterboxer.com/project-social-backend/handlers"
	"masterboxer.com/project-social-backend/services"
)

func CreateUserRoutes(users *services.UserService, router *mux.Router) *mux.Router {
	router.HandleFunc("/users/{id}", handlers.GetUser(users)).Methods("GET")
	router.HandleFunc("/users/{id}/friends", handlers.GetUserFriends(users)).Methods("GET")
	router.HandleFunc("/users/{id}/{friendId}", handlers.AddRemoveFriend(users)).Methods("PATCH")

	return router
}
