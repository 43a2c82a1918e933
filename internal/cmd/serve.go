package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "gss-dashboard/docs"
	"gss-dashboard/internal/api"
	"gss-dashboard/internal/api/handler"
	"gss-dashboard/internal/config"
	"gss-dashboard/internal/figures"
	"gss-dashboard/internal/options"
	"gss-dashboard/internal/session"
	"gss-dashboard/internal/store"
	"gss-dashboard/pkg/router"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard over HTTP",
	Long: `Load the dataset once, then serve the dashboard page, its JSON API and
the Swagger UI under /swagger/. The process exits non-zero when the dataset
cannot be loaded.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides config)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	rt, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = rt.logger.Sync() }()
	cfg := rt.cfg
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := options.Default()
	ds, err := rt.loadDataset(ctx, reg)
	if err != nil {
		rt.logger.Error("failed to load dataset", zap.Error(err))
		return err
	}

	st, err := store.Open(cfg.Store.DSN)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	manager := session.NewManager(ds, reg, st, rt.logger)
	go manager.Run(ctx,
		config.Duration(cfg.Session.SweepInterval, time.Minute),
		config.Duration(cfg.Session.TTL, 30*time.Minute))

	h := handler.New(handler.Deps{
		Sessions: manager,
		Registry: reg,
		Figures: figures.Build(ds, figures.Options{
			ScatterLimit: cfg.Data.ScatterLimit,
			PrestigeBins: cfg.Data.PrestigeBins,
		}),
		Stats:  ds.Stats(),
		Events: st,
		Logger: rt.logger,
	})
	r := router.New(rt.logger)
	api.RegisterRoutes(r, h)
	srv := r.Server(cfg.Server.Addr,
		config.Duration(cfg.Server.ReadTimeout, 15*time.Second),
		config.Duration(cfg.Server.WriteTimeout, 30*time.Second))

	errCh := make(chan error, 1)
	go func() {
		rt.logger.Info("server started", zap.String("addr", cfg.Server.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	rt.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		config.Duration(cfg.Server.ShutdownTimeout, 10*time.Second))
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}
