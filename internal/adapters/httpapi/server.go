package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	identityapp "github.com/modelfactory/mes/internal/application/identity"
	invapp "github.com/modelfactory/mes/internal/application/inventory"
	mdapp "github.com/modelfactory/mes/internal/application/masterdata"
	ordersapp "github.com/modelfactory/mes/internal/application/orders"
	"github.com/modelfactory/mes/internal/application/sysconfig"
)

// Options tunes the HTTP edge
type Options struct {
	AllowedOrigins []string
	RequestLog     bool
}

// Server is the HTTP edge of the MES: one router in front of all bounded
// contexts, one auth middleware, one error translator.
type Server struct {
	orders     *ordersapp.Service
	inventory  *invapp.Service
	masterdata *mdapp.Service
	identity   *identityapp.Service
	config     *sysconfig.Service
	opts       Options
}

// NewServer wires the HTTP edge over the application services
func NewServer(
	orders *ordersapp.Service,
	inventory *invapp.Service,
	masterdata *mdapp.Service,
	identity *identityapp.Service,
	config *sysconfig.Service,
	opts Options,
) *Server {
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	return &Server{
		orders:     orders,
		inventory:  inventory,
		masterdata: masterdata,
		identity:   identity,
		config:     config,
		opts:       opts,
	}
}

// Handler builds the full middleware chain and route table
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	s.routes(router)

	var handler http.Handler = s.authMiddleware(router)
	handler = cors.New(cors.Options{
		AllowedOrigins: s.opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}).Handler(handler)
	if s.opts.RequestLog {
		handler = requestLog(handler)
	}
	return handler
}

// ListenAndServe runs srv with this server's handler until ctx is cancelled,
// then drains in-flight requests for up to shutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context, srv *http.Server, shutdownTimeout time.Duration) error {
	srv.Handler = s.Handler()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown failed: %w", err)
		}
		return nil
	}
}
