// Package server 提供推荐服务的 HTTP 接口（chi）。
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rushteam/gamerec/config"
	"github.com/rushteam/gamerec/logging"
	"github.com/rushteam/gamerec/recommender"
)

// Server 是推荐服务的 HTTP 入口。
type Server struct {
	rec *recommender.Recommender
	cfg config.ServerConfig
}

func New(rec *recommender.Recommender, cfg config.ServerConfig) *Server {
	return &Server{rec: rec, cfg: cfg}
}

// Handler 返回完整的路由：
//
//	GET    /recommendations?steam_id=&top_n=
//	GET    /users/{steamID}/preferences
//	PUT    /users/{steamID}/preferences/{appid}   {"status":"liked|disliked"}
//	DELETE /users/{steamID}/preferences/{appid}
//	POST   /games/{appid}/status                  {"steamid":"...","status":"..."}
//	POST   /admin/reload
//	GET    /healthz
//	GET    /metrics
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(observe())

	r.Get("/healthz", s.healthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		if s.cfg.RequestTimeout > 0 {
			r.Use(chimiddleware.Timeout(s.cfg.RequestTimeout))
		}
		r.Get("/recommendations", s.recommendations)
		r.Route("/users/{steamID}/preferences", func(r chi.Router) {
			r.Get("/", s.listPreferences)
			r.Put("/{appid}", s.setPreference)
			r.Delete("/{appid}", s.deletePreference)
		})
		r.Post("/games/{appid}/status", s.setGameStatus)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(adminAuth(s.cfg.AdminToken))
		r.Post("/reload", s.reload)
	})
	return r
}

// Run 监听 cfg.Addr，直到 ctx 结束后优雅关闭。
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadTimeout:       s.cfg.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", s.cfg.Addr).Msg("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	logging.Info().Msg("http server shutting down")
	return srv.Shutdown(shutdownCtx)
}
