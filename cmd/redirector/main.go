// Command redirector serves the redirect control panel of the CMS.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"redirector/internal/app"
	"redirector/internal/backend"
	"redirector/internal/config"
	"redirector/internal/handlers"
	"redirector/internal/logger"
	"redirector/internal/session"
)

const shutdownTimeout = 10 * time.Second

func main() {
	sugar, err := logger.NewLogger()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() {
		_ = sugar.Sync()
	}()

	c := config.NewConfig()
	if err := config.Init(c, os.Args[1:]); err != nil {
		sugar.Fatalw("config", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	journal := app.SelectStorage(c, sugar)
	defer func() {
		if err := journal.Close(); err != nil {
			sugar.Errorw("closing journal", "error", err)
		}
	}()

	client := backend.NewClient(c.BackendURL, c.RequestTimeout(), sugar)
	sessions := session.NewRegistry([]byte(c.CookieHashKey), []byte(c.CookieBlockKey), c.SessionIdle(),
		handlers.NewControllerFactory(c, client, journal, sugar), sugar)
	go sessions.Run(ctx, time.Minute)

	controller := handlers.NewController(c, journal, sessions, sugar)
	router, err := app.NewRouter(c, controller, sugar)
	if err != nil {
		sugar.Fatalw("router", "error", err)
	}

	server := app.CreateServer(c, router, sugar)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Errorw("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	sugar.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		sugar.Errorw("shutdown", "error", err)
	}
}
