package routes

import (
	"github.com/gorilla/mux"
	"masterboxer.com/project-social-backend/handlers"
	"masterboxer.com/project-social-backend/services"
)

func CreateAuthRoutes(auth *services.AuthService, uploads *handlers.Uploads, router *mux.Router) *mux.Router {
	router.HandleFunc("/auth/register", handlers.Register(auth, uploads)).Methods("POST")
	router.HandleFunc("/auth/login", handlers.Login(auth)).Methods("POST")

	return router
}
