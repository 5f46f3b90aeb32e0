package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/agenthands/supp/internal/core"
	"github.com/agenthands/supp/internal/core/model"
	"github.com/agenthands/supp/internal/logger"
)

const RequestIDHeader = "X-Request-ID"

type Server struct {
	Index *core.Index
	log   logger.Logger
}

func NewServer(idx *core.Index, log logger.Logger) *Server {
	return &Server{Index: idx, log: log}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), s.requestLog())

	r.GET("/", s.Health)
	r.GET("/meta", s.Meta)
	r.GET("/agent/search", s.Search)
	r.GET("/agent/suggest", s.Suggest)
	r.GET("/agent/:cui", s.Agent)
	r.GET("/agent/:cui/interactions", s.Interactions)
	r.GET("/interaction/:id", s.Interaction)

	return r
}

// Run serves on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.SetupRouter(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Starting server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

type PageQuery struct {
	Q string `form:"q"`
	P int    `form:"p" binding:"min=0"`
}

type SearchQuery struct {
	Q string `form:"q" binding:"required"`
	P int    `form:"p" binding:"min=0"`
}

func (s *Server) Health(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func (s *Server) Meta(c *gin.Context) {
	c.JSON(http.StatusOK, s.Index.Meta())
}

func (s *Server) Agent(c *gin.Context) {
	agent, err := s.Index.AgentWithInteractionCount(c.Param("cui"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, agent)
}

func (s *Server) Interactions(c *gin.Context) {
	var q PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query: " + err.Error()})
		return
	}

	page, err := s.Index.Interactions(c.Param("cui"), q.P, q.Q)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (s *Server) Interaction(c *gin.Context) {
	def, err := s.Index.Interaction(c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, def)
}

func (s *Server) Search(c *gin.Context) {
	var q SearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query: " + err.Error()})
		return
	}

	results, err := s.Index.Search(c.Request.Context(), q.Q, q.P)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

func (s *Server) Suggest(c *gin.Context) {
	var q SearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query: " + err.Error()})
		return
	}

	results, err := s.Index.Suggest(c.Request.Context(), q.Q)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

func (s *Server) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.log.Error("Request failed", "path", c.Request.URL.Path, "request_id", c.GetString(RequestIDHeader), "err", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrMalformedInteractionID), errors.Is(err, model.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrSearchUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// requestID echoes the caller's request id or assigns a new one.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(RequestIDHeader, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("Request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"request_id", c.GetString(RequestIDHeader))
	}
}
