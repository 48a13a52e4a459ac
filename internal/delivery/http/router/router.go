// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"net/http"

	"gatehouse/internal/delivery/http/middleware"
	"gatehouse/internal/delivery/http/router/handler"
	"gatehouse/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// RouterParams holds the handlers and middlewares injected by Fx.
type RouterParams struct {
	fx.In

	AuthHandler    *handler.AuthHandler
	UserHandler    *handler.UserHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// route declares one endpoint and its access requirements. Protection is
// driven by this table rather than by per-group middleware wiring, so adding
// an endpoint and guarding it is a single declaration.
type route struct {
	method        string
	path          string
	handler       echo.HandlerFunc
	authenticated bool
	roles         entity.Roles // empty means any authenticated role
}

// router holds all the handlers that need to be registered.
type router struct {
	params RouterParams
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{params: params}
}

func (r *router) routes() []route {
	authHandler := r.params.AuthHandler
	userHandler := r.params.UserHandler

	return []route{
		{method: http.MethodGet, path: "/health", handler: handler.HealthCheck},

		{method: http.MethodPost, path: "/auth/register", handler: authHandler.Register},
		{method: http.MethodPost, path: "/auth/login", handler: authHandler.Login},
		{method: http.MethodPost, path: "/auth/refresh", handler: authHandler.Refresh},
		{method: http.MethodPost, path: "/auth/google", handler: authHandler.GoogleAuth},
		{method: http.MethodPost, path: "/auth/logout", handler: authHandler.Logout, authenticated: true},

		{method: http.MethodGet, path: "/users/me", handler: userHandler.Me, authenticated: true},
		{method: http.MethodGet, path: "/users", handler: userHandler.List, authenticated: true, roles: entity.Roles{entity.RoleAdmin}},
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	authMiddleware := r.params.AuthMiddleware

	for _, rt := range r.routes() {
		var middlewares []echo.MiddlewareFunc
		if rt.authenticated {
			middlewares = append(middlewares, authMiddleware.Authenticate)
		}
		if len(rt.roles) > 0 {
			middlewares = append(middlewares, authMiddleware.RequireRole(rt.roles...))
		}

		e.Add(rt.method, rt.path, rt.handler, middlewares...)
	}
}
