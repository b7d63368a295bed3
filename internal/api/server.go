package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/romangod6/sitemap-explorer/config"
	"github.com/romangod6/sitemap-explorer/internal/extractor"
	"github.com/romangod6/sitemap-explorer/internal/storage"
	"github.com/romangod6/sitemap-explorer/internal/utils"
)

type Server struct {
	router *gin.Engine
	config config.ServerConfig
	server *http.Server
}

func NewServer(cfg config.ServerConfig, handler *Handler) *Server {
	router := gin.Default()

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	// Setup CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: !allowsAnyOrigin(origins),
		MaxAge:           12 * time.Hour,
	}))

	handler.Register(router.Group("/api"))

	return &Server{
		router: router,
		config: cfg,
	}
}

// NewHandlerFromConfig wires a Handler the way the serve command does.
func NewHandlerFromConfig(cfg *config.Config, store storage.Store, logger *utils.Logger) *Handler {
	collector := extractor.NewCollector(&extractor.CollectorConfig{
		UserAgent:   cfg.Fetcher.UserAgent,
		Timeout:     cfg.Fetcher.Timeout,
		MaxBodySize: cfg.Fetcher.MaxBodySize,
	}, logger)

	return NewHandler(store, extractor.NewExtractor(collector, logger), logger, cfg.Export.FileName)
}

func allowsAnyOrigin(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}

// Router exposes the gin engine, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
