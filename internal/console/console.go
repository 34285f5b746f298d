// Package console serves the local operator page: live attendance counts,
// the current scan result and a manual entry form. It binds to loopback by
// default; the backend stays the only authority, the console only mirrors
// the session state.
package console

import (
	"context"
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/gin-contrib/multitemplate"
	"github.com/gin-gonic/gin"

	"eventsphere-scanner/internal/attendance"
	"eventsphere-scanner/internal/scanner"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// ScanControl is the slice of the scanning session the console drives.
type ScanControl interface {
	ManualEntry(ctx context.Context, raw string) scanner.ScanResult
	LastResult() (scanner.ScanResult, bool)
	Tracker() *attendance.Tracker
}

type Server struct {
	session ScanControl
	engine  *gin.Engine
	logger  *slog.Logger
}

func securityHeaders(c *gin.Context) {
	c.Header("X-Content-Type-Options", "nosniff")
	c.Header("X-Frame-Options", "DENY")

	// Counts and results change constantly, never cache them.
	c.Header("Cache-Control", "no-store, no-cache, must-revalidate, proxy-revalidate")
	c.Header("Pragma", "no-cache")
	c.Header("Expires", "0")
	c.Next()
}

func renderer() multitemplate.Renderer {
	r := multitemplate.NewRenderer()
	r.Add("console", template.Must(template.ParseFS(templatesFS,
		"templates/layout.html.tmpl", "templates/console.html.tmpl")))
	return r
}

func New(session ScanControl) *Server {
	s := &Server{
		session: session,
		logger:  slog.With("component", "console"),
	}

	r := gin.Default()
	r.HTMLRender = renderer()
	r.Use(securityHeaders)

	r.GET("/ping", func(c *gin.Context) {
		msg := c.Query("ping")
		if msg == "" {
			msg = "pong"
		}
		c.JSON(http.StatusOK, gin.H{"message": msg})
	})

	r.GET("/", s.consolePage)
	r.GET("/api/attendance", s.attendanceAPI)
	r.GET("/api/result", s.resultAPI)
	r.POST("/api/manual", s.manualAPI)

	s.engine = r
	return s
}

// Engine exposes the router for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run blocks serving the console on addr.
func (s *Server) Run(addr string) error {
	s.logger.Info("Console listening", "addr", addr)
	return s.engine.Run(addr)
}

func (s *Server) consolePage(c *gin.Context) {
	snap, err := s.session.Tracker().Current()
	if err != nil {
		// No snapshot yet, render the shell and let the page poll.
		c.HTML(http.StatusOK, "console", gin.H{
			"EventName": "Carregando...",
			"Present":   0,
			"Total":     0,
		})
		return
	}

	c.HTML(http.StatusOK, "console", gin.H{
		"EventName":     snap.Event.Name,
		"EventLocation": snap.Event.Location,
		"EventDate":     snap.Event.Date,
		"Present":       snap.PresentCount(),
		"Total":         snap.TotalCount(),
	})
}

func (s *Server) attendanceAPI(c *gin.Context) {
	snap, err := s.session.Tracker().Current()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "message": "Nenhum evento carregado"})
		return
	}

	participants := FilterParticipants(snap.Event.Participants, c.Query("q"))

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"event":        gin.H{"id": snap.Event.ID, "name": snap.Event.Name},
		"present":      snap.PresentCount(),
		"total":        snap.TotalCount(),
		"participants": participants,
		"fetchedAt":    snap.FetchedAt,
	})
}

func (s *Server) resultAPI(c *gin.Context) {
	result, ok := s.session.LastResult()
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": result.Success,
		"message": result.Message,
		"at":      result.At,
	})
}

func (s *Server) manualAPI(c *gin.Context) {
	var req struct {
		Code string `json:"code"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Requisição inválida"})
		return
	}

	result := s.session.ManualEntry(c.Request.Context(), req.Code)
	c.JSON(http.StatusOK, gin.H{
		"success": result.Success,
		"message": result.Message,
		"at":      result.At,
	})
}
