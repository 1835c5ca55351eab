package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/switchboard"
	"github.com/aretw0/switchboard/internal/config"
	"github.com/aretw0/switchboard/internal/logging"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the USSD gateway server",
	Long:  `Starts the Switchboard engine behind the JSON turn API that USSD gateways call.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfgPath, _ := cmd.Flags().GetString("config")

		cfg, err := config.Load(cfgPath)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}

		level := slog.LevelInfo
		if cfg.QA {
			level = slog.LevelDebug
		}
		logger := logging.New(level)

		app, err := switchboard.New(cfg, switchboard.WithLogger(logger))
		if err != nil {
			fmt.Printf("Error initializing switchboard: %v\n", err)
			os.Exit(1)
		}
		defer app.Close()

		srv := &http.Server{
			Addr:    cfg.Listen,
			Handler: app.Handler,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			logger.Info("starting switchboard server", "addr", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			logger.Info("starting shutdown", "signal", sig.String())

			// Give outstanding turns a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Warn("graceful shutdown did not complete", "err", err)
				if err := srv.Close(); err != nil {
					logger.Error("error killing server", "err", err)
				}
			}
			logger.Info("switchboard server stopped")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
