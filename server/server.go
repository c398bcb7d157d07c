package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/ChristianF88/crashgrid/config"
	"github.com/ChristianF88/crashgrid/dataset"
	"github.com/ChristianF88/crashgrid/geometry"
	"github.com/ChristianF88/crashgrid/heatmap"
	"github.com/ChristianF88/crashgrid/output"
	"github.com/ChristianF88/crashgrid/render"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultMaxIdle     = 30 * time.Minute
	DefaultMaxSessions = 1024
	sweepInterval      = time.Minute
)

// Server is the web front end: one heatmap per browser session
type Server struct {
	cfg      *config.Config
	sessions *SessionStore
	engine   *gin.Engine
}

// New builds the router for the given configuration
func New(cfg *config.Config) *Server {
	s := &Server{cfg: cfg}
	s.sessions = NewSessionStore(func() (*heatmap.Heatmap, error) {
		return cfg.NewHeatmap(heatmap.Options{})
	}, DefaultMaxIdle, DefaultMaxSessions)
	s.engine = s.setupRouter()
	return s
}

// Handler exposes the router, mostly for tests
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Sessions returns the session store
func (s *Server) Sessions() *SessionStore {
	return s.sessions
}

func (s *Server) setupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), Logger())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":   "ok",
			"sessions": s.sessions.Len(),
		})
	})

	r.GET("/api/v1/data", func(c *gin.Context) {
		Success(c, gin.H{
			"rows":    dataset.RowLabels(),
			"columns": dataset.ColumnLabels(),
			"points":  dataset.Points(),
		})
	})

	views := r.Group("/", Sessions(s.sessions))
	{
		views.GET("", s.index)
		views.GET("grid.svg", s.gridSVG)
		views.GET("chart", s.chart)
	}

	api := r.Group("/api/v1", Sessions(s.sessions))
	{
		api.GET("/state", s.state)
		api.POST("/toggle/row/:label", s.toggle(rowAxis))
		api.POST("/toggle/column/:label", s.toggle(columnAxis))
		api.POST("/reset", s.reset)
		api.GET("/cells/:row/:col", s.inspect)
	}

	return r
}

func (s *Server) frame(c *gin.Context) *output.Frame {
	return output.NewFrame(session(c).Heatmap, s.cfg.TickCount())
}

func (s *Server) index(c *gin.Context) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := writeIndex(c.Writer, s.frame(c)); err != nil {
		c.Error(err)
	}
}

func (s *Server) gridSVG(c *gin.Context) {
	c.Header("Content-Type", "image/svg+xml")
	if err := render.SVG(c.Writer, s.frame(c), render.DefaultOptions()); err != nil {
		c.Error(err)
	}
}

func (s *Server) chart(c *gin.Context) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := output.WriteHeatmap(s.frame(c), c.Writer); err != nil {
		c.Error(err)
	}
}

func (s *Server) state(c *gin.Context) {
	Success(c, s.frame(c))
}

type axis int

const (
	rowAxis axis = iota
	columnAxis
)

func (s *Server) toggle(a axis) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := session(c).Heatmap
		label := c.Param("label")

		var (
			active bool
			err    error
		)
		if a == rowAxis {
			active, err = h.ToggleRow(label)
		} else {
			active, err = h.ToggleColumn(label)
		}
		if errors.Is(err, heatmap.ErrUnknownLabel) {
			NotFound(c, fmt.Sprintf("unknown label %q", label))
			return
		}
		if err != nil {
			c.Error(err)
			InternalError(c, err.Error())
			return
		}

		log.WithFields(log.Fields{"label": label, "active": active}).Debug("toggled")
		Success(c, s.frame(c))
	}
}

func (s *Server) reset(c *gin.Context) {
	session(c).Heatmap.Reset()
	Success(c, s.frame(c))
}

func (s *Server) inspect(c *gin.Context) {
	row, err := strconv.Atoi(c.Param("row"))
	if err != nil {
		BadRequest(c, fmt.Sprintf("invalid row index %q", c.Param("row")))
		return
	}
	col, err := strconv.Atoi(c.Param("col"))
	if err != nil {
		BadRequest(c, fmt.Sprintf("invalid column index %q", c.Param("col")))
		return
	}

	info, ok := session(c).Heatmap.ClickCell(geometry.Cell{Row: row, Col: col})
	if !ok {
		NotFound(c, fmt.Sprintf("no cell at row %d, column %d", row, col))
		return
	}
	Success(c, info)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	sweepCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go s.sessions.Sweep(sweepCtx, sweepInterval)

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Serving crash heatmap on http://%s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		log.Info("Shutting down server")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	}
}
