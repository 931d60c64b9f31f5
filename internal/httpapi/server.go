// Package httpapi exposes C9's streaming/bulk service over HTTP: gin
// handlers for the request/response operations and a gorilla/websocket
// handler for the push side of StreamData, grounded on the gin idiom
// used across the example corpus's evaluator-go service (the teacher's
// own go.mod commits to gin and gorilla/websocket without ever
// importing either — see DESIGN.md) and on prometheus/client_golang
// for the counters the teacher wires through infrastructure/service.
package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ledgerforge/datasynth/internal/genlog"
	"github.com/ledgerforge/datasynth/internal/streaming"
)

// Server wires a streaming.Service onto a gin.Engine.
type Server struct {
	svc    *streaming.Service
	log    *genlog.Logger
	engine *gin.Engine
	mx     *apiMetrics
}

// NewServer builds a Server ready to ListenAndServe via Engine().
func NewServer(svc *streaming.Service, log *genlog.Logger) *Server {
	if log == nil {
		log = genlog.New(genlog.Config{})
	}
	s := &Server{svc: svc, log: log, mx: newAPIMetrics()}
	s.engine = gin.New()
	s.engine.Use(gin.Recovery(), s.requestLogger())
	s.routes()
	return s
}

// Engine returns the underlying gin.Engine, for Run/ServeHTTP.
func (s *Server) Engine() *gin.Engine { return s.engine }

func (s *Server) routes() {
	v1 := s.engine.Group("/api/v1")
	{
		v1.POST("/generate/bulk", s.handleBulkGenerate)
		v1.GET("/stream", s.handleStreamWebsocket)
		v1.POST("/stream/:id/control", s.handleControl)
		v1.GET("/config", s.handleGetConfig)
		v1.PUT("/config", s.handleSetConfig)
		v1.GET("/metrics/service", s.handleServiceMetrics)
		v1.GET("/health", s.handleHealth)
	}
	s.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.mx.registry, promhttp.HandlerOpts{})))
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		s.log.LogStreamEvent("http_request", map[string]interface{}{
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
			"status": c.Writer.Status(),
		})
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	healthy, level := s.svc.HealthCheck()
	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{
		"status":            map[bool]string{true: "healthy", false: "unhealthy"}[healthy],
		"degradation_level": level,
	})
}
