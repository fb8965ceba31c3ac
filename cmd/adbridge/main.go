package main

import (
	"adbridge/internal/app"
	"adbridge/internal/app/deps"
	"adbridge/internal/app/services"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	dl "adbridge/internal/core/domain/logging"

	"golang.org/x/sync/errgroup"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, shutdownDeps := deps.InitDeps()
	defer shutdownDeps()
	services := services.InitServices(deps)

	httpServer := app.InitHttpServer(deps, services)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		deps.Logger.Info(
			ctx,
			"HTTP server has started.",
			dl.Entry("address", httpServer.Addr),
			dl.Entry("storage", deps.Config.StorageDriver),
			dl.Entry("emailTransport", deps.Config.EmailTransport),
			dl.Entry("isTestMode", deps.Config.IsTestMode),
		)
		return httpServer.ListenAndServe()
	})
	g.Go(func() error {
		<-gCtx.Done()
		deps.Logger.Info(context.Background(), "HTTP service is stopping gracefully.")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		deps.Logger.Error(context.Background(), "HTTP server stopped with error.", dl.Entry("err", err))
		return
	}
	deps.Logger.Info(context.Background(), "HTTP server has shutdowned.")
}
