// Package rest assembles the admin API router: global middleware, health
// endpoints and the versioned resource routes.
package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/hakrNJN/user-management-service-sub001/infrastructure/config"
	"github.com/hakrNJN/user-management-service-sub001/interfaces/http/rest/handlers"
	"github.com/hakrNJN/user-management-service-sub001/interfaces/http/rest/middleware"
	"github.com/hakrNJN/user-management-service-sub001/pkg/auth"
)

// AdminRoleName is the role a caller's token must carry to use the API.
const AdminRoleName = "admin"

// Router builds the HTTP handler tree for the admin API.
type Router struct {
	users       handlers.UserService
	groups      handlers.GroupService
	roles       handlers.RoleService
	permissions handlers.PermissionService
	policies    handlers.PolicyStore
	validator   *auth.JWTValidator
	cfg         *config.Config
	logger      *zap.Logger
}

// NewRouter creates a router over the application services.
func NewRouter(
	users handlers.UserService,
	groups handlers.GroupService,
	roles handlers.RoleService,
	permissions handlers.PermissionService,
	policies handlers.PolicyStore,
	validator *auth.JWTValidator,
	cfg *config.Config,
	logger *zap.Logger,
) *Router {
	return &Router{
		users:       users,
		groups:      groups,
		roles:       roles,
		permissions: permissions,
		policies:    policies,
		validator:   validator,
		cfg:         cfg,
		logger:      logger,
	}
}

// Setup configures all routes and middleware.
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))
	if rt.cfg.EnableMetrics {
		router.Use(middleware.Metrics())
	}
	if rt.cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	if rt.cfg.EnableMetrics {
		router.Handle("/metrics", promhttp.Handler())
	}

	maxPage := int32(rt.cfg.MaxPageSize)

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Authenticate(rt.validator, rt.logger))
		r.Use(middleware.RequireRole(AdminRoleName))

		r.Route("/users", func(r chi.Router) {
			h := handlers.NewUserHandler(rt.users, maxPage, rt.logger)
			r.Post("/", h.CreateUser)
			r.Get("/", h.ListUsers)
			r.Get("/{username}", h.GetUser)
			r.Put("/{username}/attributes", h.UpdateAttributes)
			r.Delete("/{username}", h.DeleteUser)
			r.Post("/{username}/password", h.SetPassword)
			r.Post("/{username}/enable", h.EnableUser)
			r.Post("/{username}/disable", h.DisableUser)

			r.Get("/{username}/groups", h.ListGroups)
			r.Post("/{username}/groups", h.AddToGroup)
			r.Delete("/{username}/groups/{groupName}", h.RemoveFromGroup)

			r.Get("/{username}/roles", h.ListCustomRoles)
			r.Post("/{username}/roles", h.AssignCustomRole)
			r.Delete("/{username}/roles/{roleName}", h.RemoveCustomRole)

			r.Get("/{username}/permissions", h.ListCustomPermissions)
			r.Post("/{username}/permissions", h.AssignCustomPermission)
			r.Delete("/{username}/permissions/{permissionName}", h.RemoveCustomPermission)

			r.Get("/{username}/access", h.GetEffectiveAccess)
		})

		r.Route("/groups", func(r chi.Router) {
			h := handlers.NewGroupHandler(rt.groups, rt.logger)
			r.Post("/", h.CreateGroup)
			r.Get("/", h.ListGroups)
			r.Get("/{groupName}", h.GetGroup)
			r.Delete("/{groupName}", h.DeleteGroup)

			r.Get("/{groupName}/roles", h.ListRoles)
			r.Post("/{groupName}/roles", h.AssignRole)
			r.Delete("/{groupName}/roles/{roleName}", h.RemoveRole)
			r.Get("/{groupName}/users", h.ListUsers)
		})

		r.Route("/roles", func(r chi.Router) {
			h := handlers.NewRoleHandler(rt.roles, rt.logger)
			r.Post("/", h.CreateRole)
			r.Get("/", h.ListRoles)
			r.Get("/{roleName}", h.GetRole)
			r.Put("/{roleName}", h.UpdateRole)
			r.Delete("/{roleName}", h.DeleteRole)

			r.Get("/{roleName}/permissions", h.ListPermissions)
			r.Post("/{roleName}/permissions", h.AssignPermission)
			r.Delete("/{roleName}/permissions/{permissionName}", h.RemovePermission)
			r.Get("/{roleName}/groups", h.ListGroups)
			r.Get("/{roleName}/users", h.ListUsers)
		})

		r.Route("/permissions", func(r chi.Router) {
			h := handlers.NewPermissionHandler(rt.permissions, rt.logger)
			r.Post("/", h.CreatePermission)
			r.Get("/", h.ListPermissions)
			r.Get("/{permissionName}", h.GetPermission)
			r.Put("/{permissionName}", h.UpdatePermission)
			r.Delete("/{permissionName}", h.DeletePermission)

			r.Get("/{permissionName}/roles", h.ListRoles)
			r.Get("/{permissionName}/users", h.ListUsers)
		})

		r.Route("/policies", func(r chi.Router) {
			h := handlers.NewPolicyHandler(rt.policies, maxPage, rt.logger)
			r.Post("/", h.CreatePolicy)
			r.Get("/", h.ListPolicies)
			r.Get("/{policyID}", h.GetPolicy)
			r.Put("/{policyID}", h.UpdatePolicy)
			r.Delete("/{policyID}", h.DeletePolicy)

			r.Get("/{policyID}/versions", h.ListVersions)
			r.Get("/{policyID}/versions/{version}", h.GetVersion)
			r.Post("/{policyID}/rollback", h.Rollback)
		})
	})

	return router
}

func (rt *Router) healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

func (rt *Router) readinessCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
