package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kull-platform/api/internal/config"
	"github.com/kull-platform/api/internal/database"
	"github.com/kull-platform/api/internal/handler"
	"github.com/kull-platform/api/internal/middleware"
	"github.com/kull-platform/api/internal/query"
	"github.com/kull-platform/api/internal/repository"
	"github.com/kull-platform/api/internal/service"
	"github.com/kull-platform/api/pkg/token"
)

// contentFields are the filter/sort fields shared by every content
// resource; resources extend them with their own fields below.
var contentFields = []string{"community", "createdBy", "createdAt"}

// resources declares every content resource the platform serves. Adding a
// resource is one entry here; routing, scoping, and validation follow from
// the definition.
var resources = []struct {
	segment string
	def     service.ResourceDef
}{
	{
		segment: "posts",
		def: service.ResourceDef{
			Name:  "Post",
			Table: "post",
			Query: query.Options{
				AllowFilterFields:  append([]string{"title", "category"}, contentFields...),
				AllowSortFields:    []string{"createdAt", "updatedAt", "title"},
				AllowProjectFields: []string{"title", "content", "category", "community", "createdBy", "createdAt"},
			},
		},
	},
	{
		segment: "news",
		def: service.ResourceDef{
			Name:  "News",
			Table: "news",
			Query: query.Options{
				AllowFilterFields:  append([]string{"title", "category"}, contentFields...),
				AllowSortFields:    []string{"createdAt", "title"},
				AllowProjectFields: []string{"title", "content", "category", "community", "createdBy", "createdAt"},
			},
		},
	},
	{
		segment: "donations",
		def: service.ResourceDef{
			Name:  "Donation",
			Table: "donation",
			Query: query.Options{
				AllowFilterFields:  append([]string{"cause", "status"}, contentFields...),
				AllowSortFields:    []string{"createdAt", "amount"},
				AllowProjectFields: []string{"cause", "amount", "status", "description", "community", "createdBy", "createdAt"},
			},
		},
	},
	{
		segment: "dukaans",
		def: service.ResourceDef{
			Name:        "Dukaan",
			Table:       "dukaan",
			AdminWrites: true,
			Required:    []service.RequiredField{{Field: "shopName", Label: "Dukaan name"}},
			Query: query.Options{
				AllowFilterFields:  append([]string{"shopName", "category"}, contentFields...),
				AllowSortFields:    []string{"createdAt", "shopName"},
				AllowProjectFields: []string{"shopName", "category", "description", "address", "phone", "community", "createdBy", "createdAt"},
			},
		},
	},
	{
		segment: "jobposts",
		def: service.ResourceDef{
			Name:  "Job post",
			Table: "jobpost",
			Query: query.Options{
				AllowFilterFields:  append([]string{"title", "location", "jobType"}, contentFields...),
				AllowSortFields:    []string{"createdAt", "title"},
				AllowProjectFields: []string{"title", "description", "location", "jobType", "salary", "community", "createdBy", "createdAt"},
			},
		},
	},
	{
		segment: "occasions",
		def: service.ResourceDef{
			Name:  "Occasion",
			Table: "occasion",
			Query: query.Options{
				AllowFilterFields:  append([]string{"title", "date"}, contentFields...),
				AllowSortFields:    []string{"date", "createdAt"},
				AllowProjectFields: []string{"title", "description", "date", "venue", "community", "createdBy", "createdAt"},
			},
		},
	},
	{
		segment: "bhajans",
		def: service.ResourceDef{
			Name:  "Bhajan",
			Table: "bhajan",
			Query: query.Options{
				AllowFilterFields:  append([]string{"title", "artist"}, contentFields...),
				AllowSortFields:    []string{"createdAt", "title"},
				AllowProjectFields: []string{"title", "artist", "lyrics", "audioUrl", "community", "createdBy", "createdAt"},
			},
		},
	},
}

func main() {
	// Initialize structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Outside production, unhandled errors include their detail in responses.
	handler.SetVerboseErrors(!cfg.IsProduction())

	// Initialize database connection
	db := database.NewSurrealDB(database.Config{
		Host:      cfg.Database.Host,
		Port:      cfg.Database.Port,
		User:      cfg.Database.User,
		Password:  cfg.Database.Password,
		Namespace: cfg.Database.Namespace,
		Database:  cfg.Database.Database,
	})

	ctx := context.Background()
	if err := db.Connect(ctx); err != nil {
		slog.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	slog.Info("connected to database",
		slog.String("host", cfg.Database.Host),
		slog.String("database", cfg.Database.Database),
	)

	// Initialize token service
	tokens, err := token.NewService(token.Config{
		Secret:         cfg.JWT.Secret,
		Issuer:         cfg.JWT.Issuer,
		ExpirationMins: cfg.JWT.ExpirationMins,
	})
	if err != nil {
		slog.Error("failed to initialize token service", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	communityRepo := repository.NewCommunityRepository(db)
	communityDocs := repository.NewResourceRepository(db, "community")
	userDocs := repository.NewResourceRepository(db, "user")

	// Initialize services
	identityService := service.NewIdentityService(tokens, userRepo)
	authService := service.NewAuthService(userRepo, communityRepo, tokens)
	userService := service.NewUserService(userRepo)
	communityService := service.NewCommunityService(communityRepo, communityDocs)

	// Initialize rate limiter
	rateLimiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		Rate:   cfg.Server.RateLimit,
		Window: cfg.Server.RateWindow,
	})
	defer rateLimiter.Stop()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	communityHandler := handler.NewCommunityHandler(communityService)
	healthHandler := handler.NewHealthHandler(db)

	// Create router and register routes
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("GET /health", healthHandler.Health)

	// Auth endpoints (public)
	mux.HandleFunc("POST /v1/auth/register", authHandler.Register)
	mux.HandleFunc("POST /v1/auth/login", authHandler.Login)

	authMiddleware := middleware.Auth(identityService)
	protected := func(h http.HandlerFunc) http.Handler {
		return authMiddleware(h)
	}
	superAdminOnly := func(h http.HandlerFunc) http.Handler {
		return authMiddleware(middleware.RequireSuperAdmin(h))
	}
	adminOnly := func(h http.HandlerFunc) http.Handler {
		return authMiddleware(middleware.RequireAdmin(h))
	}

	// User endpoints
	mux.Handle("GET /v1/users/me", protected(userHandler.Me))
	mux.Handle("GET /v1/users/{id}", protected(userHandler.Get))
	mux.Handle("PATCH /v1/users/{id}", protected(userHandler.Update))
	mux.Handle("POST /v1/users/{id}/approve", adminOnly(userHandler.Approve))
	mux.Handle("POST /v1/users/{id}/reject", adminOnly(userHandler.Reject))

	// Member directory: the user list goes through the same scoped query
	// pipeline as content resources.
	memberDirectory := handler.NewResourceHandler(service.NewResourceService(service.ResourceDef{
		Name:  "User",
		Table: "user",
		Query: query.Options{
			AllowFilterFields:  []string{"community", "communityStatus", "roleInCommunity", "gender", "occupation", "religion", "motherTongue"},
			AllowSortFields:    []string{"firstName", "lastName", "createdAt"},
			AllowProjectFields: []string{"firstName", "lastName", "email", "phone", "gender", "occupation", "religion", "motherTongue", "interests", "community", "communityStatus", "roleInCommunity", "createdAt"},
		},
	}, userDocs))
	mux.Handle("GET /v1/users", protected(memberDirectory.List))

	// Community endpoints; the route-level gates mirror the service checks so
	// denied callers never reach a handler.
	mux.Handle("POST /v1/communities", superAdminOnly(communityHandler.Create))
	mux.Handle("GET /v1/communities", protected(communityHandler.List))
	mux.Handle("GET /v1/communities/{id}", protected(communityHandler.Get))
	mux.Handle("PATCH /v1/communities/{id}", superAdminOnly(communityHandler.Update))
	mux.Handle("DELETE /v1/communities/{id}", superAdminOnly(communityHandler.Delete))
	mux.Handle("GET /v1/communities/{id}/configuration", protected(communityHandler.GetConfiguration))
	mux.Handle("PUT /v1/communities/{id}/configuration", adminOnly(communityHandler.UpsertConfiguration))
	mux.Handle("DELETE /v1/communities/{id}/configuration", adminOnly(communityHandler.DeleteConfiguration))

	// Content resource endpoints
	for _, res := range resources {
		svc := service.NewResourceService(res.def, repository.NewResourceRepository(db, res.def.Table))
		handler.NewResourceHandler(svc).Register(mux, res.segment, protected)
	}

	// Apply global middleware
	wrapped := middleware.Chain(
		mux,
		middleware.RequestID,
		middleware.Logger,
		middleware.Recovery,
		middleware.CORS(cfg.Server.AllowedOrigins),
		middleware.RateLimit(rateLimiter),
		middleware.Compress,
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      wrapped,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Server.Port),
			slog.String("env", cfg.Server.Env),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", slog.String("error", err.Error()))
	}

	slog.Info("server exited")
}
