// Package server exposes the pipeline over HTTP. The surface is a thin
// shell: one analysis route plus health, no state beyond the pipeline
// reference.
package server

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/dermalens/dermalens/internal/pipeline"
)

// maxUploadBytes caps request bodies. Phone photos top out well under this.
const maxUploadBytes = 20 << 20

// Server wraps the gin engine around the analysis pipeline.
type Server struct {
	engine *gin.Engine
	pipe   *pipeline.Pipeline
}

// New builds the HTTP server. The engine runs in release mode; request
// logging goes through the pipeline's structured logs instead of gin's.
func New(pipe *pipeline.Pipeline) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{engine: engine, pipe: pipe}
	engine.GET("/healthz", s.health)
	engine.POST("/v1/analyze", s.analyze)
	return s
}

// Run blocks serving HTTP on addr.
func (s *Server) Run(addr string) error {
	log.Infof("Listening on %s", addr)
	return s.engine.Run(addr)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// analyze accepts the image either as a multipart "image" (or "file") part
// or as the raw request body, runs the pipeline, and maps the outcome onto
// an HTTP status: 200 completed, 422 quality rejected or no face, 400
// undecodable input.
func (s *Server) analyze(c *gin.Context) {
	data, err := s.readImage(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	outcome := s.pipe.Run(c.Request.Context(), data)

	switch outcome.Status {
	case pipeline.StatusCompleted:
		c.JSON(http.StatusOK, outcome)
	case pipeline.StatusQualityRejected, pipeline.StatusNoFaceFound:
		c.JSON(http.StatusUnprocessableEntity, outcome)
	default:
		c.JSON(http.StatusBadRequest, outcome)
	}
}

func (s *Server) readImage(c *gin.Context) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		for _, field := range []string{"image", "file"} {
			header, err := c.FormFile(field)
			if err != nil {
				continue
			}
			f, err := header.Open()
			if err != nil {
				return nil, err
			}
			defer f.Close()
			return io.ReadAll(f)
		}
		return nil, errors.New("multipart form missing image part")
	}

	// Non-multipart requests carry the image as the raw body.
	return io.ReadAll(c.Request.Body)
}
