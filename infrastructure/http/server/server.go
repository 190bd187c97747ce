package server

import (
	"log/slog"
	"net/http"

	"feed-lab/auth"
	"feed-lab/observability"
	"feed-lab/services"

	"github.com/gorilla/mux"
)

// Server is the HTTP gateway: it maps routes onto the services and
// translates domain errors into response statuses. All domain state lives
// below it.
type Server struct {
	log     *slog.Logger
	auth    services.IAuthService
	posts   services.IPostService
	tokens  *auth.TokenManager
	monitor *observability.Monitor
}

func NewServer(log *slog.Logger, authService services.IAuthService,
	postService services.IPostService, tokens *auth.TokenManager,
	monitor *observability.Monitor) *Server {
	return &Server{
		log:     log,
		auth:    authService,
		posts:   postService,
		tokens:  tokens,
		monitor: monitor,
	}
}

// Router wires the public surface. Fixed paths (search, like, unlike,
// comment) are registered before the {id} catch-alls.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(s.withTelemetry)

	r.HandleFunc("/register", s.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)

	r.HandleFunc("/posts", s.handleListPosts).Methods(http.MethodGet)
	r.HandleFunc("/posts/search", s.handleSearchPosts).Methods(http.MethodGet)
	r.Handle("/posts", s.authenticated(s.handleCreatePost)).Methods(http.MethodPost)

	r.Handle("/posts/like/{id}", s.authenticated(s.handleLikePost)).Methods(http.MethodPut)
	r.Handle("/posts/unlike/{id}", s.authenticated(s.handleUnlikePost)).Methods(http.MethodPut)
	r.Handle("/posts/comment/{id}", s.authenticated(s.handleCommentOnPost)).Methods(http.MethodPost)
	r.Handle("/posts/comment/{id}/{comment_id}", s.authenticated(s.handleDeleteComment)).Methods(http.MethodDelete)

	r.HandleFunc("/posts/{id}", s.handleGetPost).Methods(http.MethodGet)
	r.Handle("/posts/{id}", s.authenticated(s.handleDeletePost)).Methods(http.MethodDelete)

	return r
}

// authenticated guards a handler with the bearer-token middleware. The
// requester identity travels in the context and is handed to the
// services as an explicit parameter by each handler.
func (s *Server) authenticated(h http.HandlerFunc) http.Handler {
	return auth.Middleware(s.tokens)(h)
}

func (s *Server) withTelemetry(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.monitor.IncRequest()
		next.ServeHTTP(w, r)
	})
}
