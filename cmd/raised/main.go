// Command raised runs the capital-raise offering daemon: a single
// offering engine fronted by an HTTP API.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iov-one/raise/store"
	"github.com/iov-one/raise/x/offering"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// version is set at build time.
var version = "dev"

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	var configPath string
	root := &cobra.Command{
		Use:          "raised",
		Short:        "Capital-raise offering daemon",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to the configuration file")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println(version)
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Bootstrap the offering and serve the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			return serve(conf, logger)
		},
	})

	if err := root.Execute(); err != nil {
		logger.Error().Err(err).Msg("terminated")
		os.Exit(1)
	}
}

func serve(conf config, logger zerolog.Logger) error {
	db := store.MemStore()
	svc := &services{
		metrics: offering.NewMetrics(prometheus.DefaultRegisterer),
	}
	ctrl, err := conf.bootstrap(db, clockwork.NewRealClock(), svc)
	if err != nil {
		return err
	}
	svc.engine = offering.NewEngine(db, ctrl, logger, svc.metrics)
	logger.Info().
		Str("escrow", svc.engine.Escrow().String()).
		Str("listen", conf.ListenAddress).
		Msg("offering bootstrapped")

	srv := &http.Server{
		Addr:         conf.ListenAddress,
		Handler:      newHandler(svc, logger),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errc:
		return err
	case sig := <-stop:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}
