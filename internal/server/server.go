package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/examlens/internal/pipeline"
)

// Runner executes one analysis. Satisfied by *pipeline.Pipeline.
type Runner interface {
	Run(ctx context.Context, contentID, learnerID string) (*pipeline.Result, error)
}

// Server exposes the analysis engine over HTTP.
type Server struct {
	engine *gin.Engine
	runner Runner
}

// New builds the HTTP server. mode is a gin mode ("release", "debug",
// "test"); empty keeps the current one.
func New(runner Runner, mode string) *Server {
	if mode != "" {
		gin.SetMode(mode)
	}

	s := &Server{runner: runner}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.GET("/health", s.health)
	r.POST("/v1/analyses", s.createAnalysis)
	s.engine = r

	return s
}

// Handler returns the underlying http.Handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until the listener fails.
func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type analysisRequest struct {
	ContentID string `json:"content_id" binding:"required"`
	LearnerID string `json:"learner_id" binding:"required"`
}

// createAnalysis runs the full pipeline for one (learner, content) pair.
// Input-absence outcomes are 200s with a status discriminator; only
// infrastructure failures are 500s.
func (s *Server) createAnalysis(c *gin.Context) {
	var req analysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := s.runner.Run(c.Request.Context(), req.ContentID, req.LearnerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}
