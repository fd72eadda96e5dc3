// FinSight server: scheduled market-news digests, welcome emails, and the
// inbound trigger API.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/finsight-app/finsight/internal/app"
	"github.com/finsight-app/finsight/internal/common"
	"github.com/finsight-app/finsight/internal/server"
)

func main() {
	configPath := flag.String("config", "finsight.toml", "path to configuration file")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	common.LoadVersionFromFile()

	if *showVersion {
		fmt.Println(common.GetFullVersion())
		return
	}

	application, err := app.NewApp(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize application: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	common.PrintBanner(application.Config)

	application.StartScheduler()

	srv := server.NewServer(application)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		application.Logger.Error().Err(err).Msg("HTTP server failed")
		os.Exit(1)
	case sig := <-sigCh:
		application.Logger.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		application.Logger.Error().Err(err).Msg("Graceful shutdown failed")
	}
}
