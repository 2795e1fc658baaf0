package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ChristinaBak/Oasa/config"
	"github.com/gorilla/mux"
)

type DashboardHttpServer struct {
	router    *Router
	muxRouter *mux.Router
	config    config.ServerConfig
}

func NewDashboardHttpServer(router *Router, muxRouter *mux.Router, cfg config.ServerConfig) *DashboardHttpServer {
	return &DashboardHttpServer{
		router:    router,
		muxRouter: muxRouter,
		config:    cfg,
	}
}

// Start serves until SIGINT or SIGTERM, then shuts down gracefully.
func (s *DashboardHttpServer) Start() {
	s.router.RegisterRoutes()

	srv := &http.Server{
		Addr:         s.config.Addr,
		Handler:      s.muxRouter,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("[DashboardHttpServer] Starting server on %s", s.config.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[DashboardHttpServer] ListenAndServe(): %v", err)
		}
	}()

	<-stop
	log.Println("[DashboardHttpServer] Shutting down the server...")

	ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("[DashboardHttpServer] Server forced to shutdown: %v", err)
	}

	log.Println("[DashboardHttpServer] Server exiting")
}
