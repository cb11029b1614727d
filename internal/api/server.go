package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/careerloop/jobfeed/internal/config"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Server struct {
	http *http.Server
}

func NewServer(cfg config.ServerConfig, handler *JobsHandler) *Server {

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), requestID(), requestLogger())

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	engine.Use(cors.New(corsCfg))

	registerRoutes(engine, handler)

	return &Server{
		http: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

func registerRoutes(engine *gin.Engine, handler *JobsHandler) {
	jobs := engine.Group("/api/jobs")
	jobs.GET("", handler.ListJobs)
	jobs.GET("/:id", handler.GetJob)
}

func (s *Server) Run() error {
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
