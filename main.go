package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tonotes/config"
	"tonotes/handler"
	"tonotes/middleware"
	"tonotes/repository"
	"tonotes/services"
	"tonotes/usecase"
	"tonotes/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func init() {
	config.LoadEnvFile()
}

// deps is everything the router needs.
type deps struct {
	cfg      *config.Config
	store    usecase.Store
	identity usecase.IdentityProvider
	cache    handler.Pinger
	// now overrides the services' clock when set.
	now func() time.Time
}

func setupRouter(d *deps) *gin.Engine {
	router := gin.New()

	notesService := usecase.NewNotesService(d.store)
	tagsService := usecase.NewTagsService(d.store)
	accountService := usecase.NewAccountService(d.store, d.identity)
	if d.now != nil {
		notesService.Now = d.now
		tagsService.Now = d.now
	}

	router.Use(gin.Logger())
	router.Use(middleware.EnhancedRecoveryMiddleware())
	router.Use(middleware.RequestTracingMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.CORSMiddleware(d.cfg.CORSAllowedOrigins))
	router.Use(middleware.RequestSizeLimiter(d.cfg.MaxBodyBytes))

	router.NoRoute(func(c *gin.Context) {
		utils.NotFound(c, "Route not found")
	})

	// Service endpoints
	router.GET("/health", handler.HealthHandler)
	router.GET("/status", func(c *gin.Context) {
		handler.StatusHandler(c, d.store, d.cache)
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	requireIdentity := middleware.AuthMiddleware(d.identity)

	auth := router.Group("/auth")
	auth.Use(middleware.NoStoreMiddleware())
	{
		auth.POST("/signup", func(c *gin.Context) {
			handler.SignUpHandler(c, d.identity)
		})
		auth.POST("/login", func(c *gin.Context) {
			handler.LoginHandler(c, d.identity)
		})
		auth.POST("/logout", requireIdentity, func(c *gin.Context) {
			handler.LogoutHandler(c, d.identity)
		})
		auth.GET("/google-url", func(c *gin.Context) {
			handler.GoogleURLHandler(c, d.identity)
		})
	}

	// Protected routes (authentication required)
	api := router.Group("/api")
	api.Use(middleware.NoStoreMiddleware(), requireIdentity)
	{
		notes := api.Group("/notes")
		{
			notes.GET("", func(c *gin.Context) {
				handler.ListNotesHandler(c, notesService)
			})
			notes.POST("", func(c *gin.Context) {
				handler.CreateNoteHandler(c, notesService)
			})
			notes.GET("/:id", func(c *gin.Context) {
				handler.GetNoteHandler(c, notesService)
			})
			notes.PUT("/:id", func(c *gin.Context) {
				handler.UpdateNoteHandler(c, notesService)
			})
			notes.DELETE("/:id", func(c *gin.Context) {
				handler.DeleteNoteHandler(c, notesService)
			})

			// Tag associations
			notes.GET("/:id/tags", func(c *gin.Context) {
				handler.NoteTagsHandler(c, tagsService)
			})
			notes.POST("/:id/tags", func(c *gin.Context) {
				handler.LinkTagsHandler(c, tagsService)
			})
			notes.DELETE("/:id/tags/:tagId", func(c *gin.Context) {
				handler.UnlinkTagHandler(c, tagsService)
			})
		}

		tags := api.Group("/tags")
		{
			tags.GET("", func(c *gin.Context) {
				handler.ListTagsHandler(c, tagsService)
			})
			tags.POST("", func(c *gin.Context) {
				handler.CreateTagHandler(c, tagsService)
			})
			tags.DELETE("/:id", func(c *gin.Context) {
				handler.DeleteTagHandler(c, tagsService)
			})
			tags.GET("/:id/notes", func(c *gin.Context) {
				handler.TagNotesHandler(c, tagsService)
			})
		}

		account := api.Group("/account")
		{
			account.GET("/deletion-status", func(c *gin.Context) {
				handler.DeletionStatusHandler(c, accountService)
			})
			account.DELETE("", func(c *gin.Context) {
				handler.DeleteAccountHandler(c, accountService)
			})
		}
	}

	return router
}

// openStore connects the backend selected by STORE_DRIVER and returns a closer for it.
func openStore(ctx context.Context, cfg config.DatabaseConfig) (usecase.Store, func(), error) {
	switch cfg.Driver {
	case config.DriverMySQL:
		store, err := repository.ConnectMySQL(cfg)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil
	case config.DriverMongo:
		store, err := repository.ConnectMongo(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			store.Close(closeCtx)
		}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported STORE_DRIVER %q", cfg.Driver)
	}
}

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer closeStore()

	sessions, err := services.NewSessionCache(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to initialize session cache: %v", err)
	}
	defer sessions.Close()
	sessions.StartCleanupTask(ctx, 15*time.Minute)

	tokens := services.NewTokenManager(
		cfg.Auth.JWTSecretKey,
		cfg.Auth.Issuer,
		cfg.Auth.AccessTokenExpiration,
		cfg.Auth.RefreshTokenExpiration,
	)
	oauth := services.NewOAuthProviders(cfg.Auth.GoogleClientID, cfg.Auth.GoogleClientSecret)
	authService := services.NewAuthService(store, sessions, tokens, oauth)

	router := setupRouter(&deps{
		cfg:      cfg,
		store:    store,
		identity: authService,
		cache:    sessions,
	})

	if err := runServer(ctx, router, cfg.Port); err != nil {
		log.Printf("Server stopped with error: %v", err)
	}
}
