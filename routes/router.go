package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"masterboxer.com/project-social-backend/handlers"
	"masterboxer.com/project-social-backend/metrics"
	"masterboxer.com/project-social-backend/middleware"
	"masterboxer.com/project-social-backend/services"
)

type Dependencies struct {
	Auth       *services.AuthService
	Users      *services.UserService
	Posts      *services.PostService
	Tokens     middleware.TokenVerifier
	AssetsDir  string
	CORSOrigin string
}

// NewRouter wires the public auth routes, the token-protected user and post
// routes, static assets, health and metrics. Recovery, logging and CORS wrap
// the router so they also see unmatched requests and preflights.
func NewRouter(deps Dependencies) http.Handler {
	router := mux.NewRouter()
	router.Use(metrics.Middleware)

	uploads := &handlers.Uploads{Dir: deps.AssetsDir}

	router.Handle("/metrics", metrics.Handler()).Methods("GET")
	router.HandleFunc("/health", handlers.Health).Methods("GET")
	router.PathPrefix("/assets/").Handler(http.StripPrefix("/assets/", http.FileServer(http.Dir(deps.AssetsDir))))

	CreateAuthRoutes(deps.Auth, uploads, router)

	protected := router.PathPrefix("").Subrouter()
	protected.Use(middleware.RequireToken(deps.Tokens))
	CreateUserRoutes(deps.Users, protected)
	CreatePostRoutes(deps.Posts, uploads, protected)

	return middleware.Recover(middleware.Logging(middleware.CORS(deps.CORSOrigin)(router)))
}
