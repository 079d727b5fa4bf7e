// Package admin exposes a local status surface for the client: health,
// the current session snapshot, and prometheus metrics.
package admin

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/unnamed-mmo/metaverse-client/internal/observability"
	"github.com/unnamed-mmo/metaverse-client/internal/session"
)

var startedAt = time.Now()

type Server struct {
	mbox   *session.Mailbox
	router *gin.Engine
	addr   string
}

func New(addr string, mbox *session.Mailbox, corsOrigins []string) *Server {
	observability.RegisterMetrics()
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestLogger(log.Logger))
	r.Use(observability.RequestMetricsMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins: normalizeOrigins(corsOrigins),
		AllowMethods: []string{"GET"},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	s := &Server{mbox: mbox, router: r, addr: addr}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.GET("/healthz", s.handleHealth)
	s.router.GET("/v1/session", s.handleSession)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"uptime":  time.Since(startedAt).String(),
		"service": "metaverse-client",
	})
}

func (s *Server) handleSession(c *gin.Context) {
	snap, err := s.mbox.SnapshotState(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	if snap.Session == nil {
		c.JSON(http.StatusOK, gin.H{"connected": false, "pending_packets": len(snap.Pending)})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"connected":       true,
		"sim_ip":          snap.Session.SimIP,
		"sim_port":        snap.Session.SimPort,
		"agent_id":        snap.Session.AgentID.String(),
		"session_id":      snap.Session.SessionID.String(),
		"circuit_code":    snap.Session.CircuitCode,
		"pending_packets": len(snap.Pending),
	})
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.addr, Handler: s.router}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func normalizeOrigins(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, o := range origins {
		if v := strings.TrimSpace(o); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		out = []string{"http://localhost:3000"}
	}
	return out
}
