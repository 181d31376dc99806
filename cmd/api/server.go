package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"conduit-backend/pkg/container"
)

const shutdownGrace = 10 * time.Second

// Serve wire container + router, chạy HTTP server và block cho đến
// khi nhận SIGINT/SIGTERM rồi drain các request đang chạy.
func Serve() {
	appContainer, err := container.NewContainer()
	if err != nil {
		log.Fatalf("❌ Container init failed: %v", err)
	}
	defer appContainer.Cleanup()

	router := SetupRouter(appContainer)

	addr := net.JoinHostPort("", appContainer.Config.App.Port)
	srv := &http.Server{
		Addr:           addr,
		Handler:        router,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("🚀 API listening on %s (env: %s)", addr, appContainer.Config.App.Environment)
		log.Printf("💚 Health check at /api/health")
		serveErr <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Server error: %v", err)
		}
		return
	case sig := <-quit:
		log.Printf("🛑 Received %s, shutting down...", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("⚠️  Forced shutdown after %s: %v", shutdownGrace, err)
		return
	}

	log.Println("✅ Server stopped cleanly")
}
