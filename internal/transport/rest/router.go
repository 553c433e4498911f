package rest

import "net/http"

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth    *AuthHandler
	Post    *PostHandler
	Comment *CommentHandler
	Group   *GroupHandler
	Follow  *FollowHandler
	User    *UserHandler
	Health  *HealthHandler
}

// NewRouter mounts all REST routes on a ServeMux.
func NewRouter(h Handlers) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/auth/register", h.Auth.Register)
	mux.HandleFunc("POST /api/v1/auth/login", h.Auth.Login)
	mux.HandleFunc("POST /api/v1/auth/refresh", h.Auth.Refresh)
	mux.HandleFunc("POST /api/v1/auth/logout", h.Auth.Logout)

	mux.HandleFunc("GET /api/v1/posts", h.Post.List)
	mux.HandleFunc("POST /api/v1/posts", h.Post.Create)
	mux.HandleFunc("GET /api/v1/posts/{id}", h.Post.Get)
	mux.HandleFunc("PUT /api/v1/posts/{id}", h.Post.Update)
	mux.HandleFunc("PATCH /api/v1/posts/{id}", h.Post.PartialUpdate)
	mux.HandleFunc("DELETE /api/v1/posts/{id}", h.Post.Delete)

	mux.HandleFunc("GET /api/v1/posts/{post_id}/comments", h.Comment.List)
	mux.HandleFunc("POST /api/v1/posts/{post_id}/comments", h.Comment.Create)
	mux.HandleFunc("GET /api/v1/posts/{post_id}/comments/{id}", h.Comment.Get)
	mux.HandleFunc("PUT /api/v1/posts/{post_id}/comments/{id}", h.Comment.Update)
	mux.HandleFunc("PATCH /api/v1/posts/{post_id}/comments/{id}", h.Comment.PartialUpdate)
	mux.HandleFunc("DELETE /api/v1/posts/{post_id}/comments/{id}", h.Comment.Delete)

	mux.HandleFunc("GET /api/v1/groups", h.Group.List)
	mux.HandleFunc("POST /api/v1/groups", h.Group.Create)
	mux.HandleFunc("GET /api/v1/groups/{id}", h.Group.Get)
	mux.HandleFunc("PUT /api/v1/groups/{id}", h.Group.Update)
	mux.HandleFunc("PATCH /api/v1/groups/{id}", h.Group.PartialUpdate)
	mux.HandleFunc("DELETE /api/v1/groups/{id}", h.Group.Delete)

	mux.HandleFunc("GET /api/v1/follow", h.Follow.List)
	mux.HandleFunc("POST /api/v1/follow", h.Follow.Create)
	mux.HandleFunc("GET /api/v1/follow/{id}", h.Follow.Get)
	mux.HandleFunc("DELETE /api/v1/follow/{id}", h.Follow.Delete)

	mux.HandleFunc("GET /api/v1/users/me", h.User.Me)
	mux.HandleFunc("DELETE /api/v1/users/me", h.User.DeleteMe)

	mux.HandleFunc("GET /health", h.Health.Health)
	mux.HandleFunc("GET /health/live", h.Health.Live)
	mux.HandleFunc("GET /health/ready", h.Health.Ready)

	return mux
}
