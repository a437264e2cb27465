package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
)

type FestivalHttpServer struct {
	router          *Router
	muxRouter       *mux.Router
	addr            string
	shutdownTimeout time.Duration
}

func NewFestivalHttpServer(router *Router, muxRouter *mux.Router, addr string, shutdownTimeout time.Duration) *FestivalHttpServer {
	return &FestivalHttpServer{
		router:          router,
		muxRouter:       muxRouter,
		addr:            addr,
		shutdownTimeout: shutdownTimeout,
	}
}

// Start serves until SIGINT, SIGTERM or ctx cancellation, then shuts down gracefully.
func (s *FestivalHttpServer) Start(ctx context.Context) error {
	s.router.RegisterRoutes()

	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.muxRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("[FestivalHttpServer] Starting server on %s", s.addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err, ok := <-serveErr:
		if ok {
			return err
		}
		return nil
	case <-stop:
	case <-ctx.Done():
	}
	log.Println("[FestivalHttpServer] Shutting down the server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Println("[FestivalHttpServer] Server exiting")
	return nil
}
