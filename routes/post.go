package routes

import (
	"github.com/gorilla/mux"
	"masterboxer.com/project-social-backend/handlers"
	"masterboxer.com/project-social-backend/services"
)

func CreatePostRoutes(posts *services.PostService, uploads *handlers.Uploads, router *mux.Router) *mux.Router {
	router.HandleFunc("/posts", handlers.CreatePost(posts, uploads)).Methods("POST")
	router.HandleFunc("/posts", handlers.GetFeedPosts(posts)).Methods("GET")
	router.HandleFunc("/posts/{userId}/posts", handlers.GetUserPosts(posts)).Methods("GET")
	router.HandleFunc("/posts/{userId}", handlers.GetUserPosts(posts)).Methods("GET")
	router.HandleFunc("/posts/{id}/like", handlers.LikePost(posts)).Methods("PATCH")

	return router
}
