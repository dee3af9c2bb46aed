package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/abdra/portfolio/internal/content"
	"github.com/abdra/portfolio/internal/observability"
	"github.com/abdra/portfolio/internal/scrollspy"
	"github.com/abdra/portfolio/internal/views"
	"github.com/abdra/portfolio/internal/web"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the portfolio web server",
	Long:  `Serves the portfolio over HTTP on PORT until interrupted.`,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.RunE = runServe
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gin.SetMode(cfg.GinMode)

	shutdownTracer, err := observability.InitTracer(ctx, cfg.OTLPEndpoint, cfg.ServiceName)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			logger.Error("tracer shutdown", "error", err)
		}
	}()

	lib, err := content.Load(cfg.DefaultLang)
	if err != nil {
		return fmt.Errorf("load content: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := observability.NewMetrics(reg)

	registry := views.NewRegistry(
		views.WithTTL(cfg.ViewTTL),
		views.WithMaxViews(cfg.MaxViews),
		views.WithLogger(logger),
		views.WithSpyOptions(
			scrollspy.WithReferenceLine(cfg.ReferenceLine),
			scrollspy.WithScrollThreshold(cfg.ScrollThreshold),
		),
	)
	observability.ObserveLiveViews(reg, registry.Len)

	opts := web.Options{
		Library:  lib,
		Views:    registry,
		Metrics:  metrics,
		Gatherer: reg,
		Logger:   logger,
	}
	if cfg.OTLPEndpoint != "" {
		opts.ServiceName = cfg.ServiceName
	}
	srv, err := web.New(opts)
	if err != nil {
		return err
	}

	httpSrv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return registry.Run(gctx)
	})
	g.Go(func() error {
		logger.Info("portfolio listening", "addr", httpSrv.Addr, "langs", len(lib.Tags()), "mode", cfg.GinMode)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		return httpSrv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
