package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/s4sachin/dynamic-form-builder/internal/config"
	"github.com/s4sachin/dynamic-form-builder/internal/handler"
	mw "github.com/s4sachin/dynamic-form-builder/internal/middleware"
	"github.com/s4sachin/dynamic-form-builder/internal/ratelimit"
	"github.com/s4sachin/dynamic-form-builder/internal/router"
)

const (
	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 10 * time.Second
	submitLimitPrefix = "formbuilder:ratelimit:submit"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, opts.cfg)
		},
	}
}

// runServe blocks until ctx is cancelled or the listener fails.
func runServe(ctx context.Context, cfg *config.Config) error {
	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.forms.Get(ctx); err != nil {
		slog.Error("form schema failed to load; schema endpoints will return 500", "error", err)
	}

	var limiter mw.Limiter
	if cfg.RateLimitRedisAddr != "" {
		l, err := ratelimit.NewRedisFixedWindowLimiter(cfg.RateLimitRedisAddr, cfg.RateLimitRedisPassword,
			submitLimitPrefix, cfg.RateLimitPerMinute, time.Minute)
		if err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}
		defer l.Close()
		limiter = l
	}

	h := router.Handlers{
		Forms:       handler.NewFormHandler(a.forms),
		Submissions: handler.NewSubmissionHandler(a.subs),
		Health:      handler.NewHealthHandler(cfg.Stage),
		OpenAPI:     handler.NewOpenAPIHandler(a.forms, Version),
	}
	if cfg.EnableAdmin {
		h.Admin = handler.NewAdminHandler(a.forms)
	}

	srv := &http.Server{
		Addr: cfg.Addr(),
		Handler: router.New(router.Options{
			Dev:           cfg.IsDev(),
			CORSOrigin:    cfg.CORSOrigin,
			SubmitLimiter: limiter,
		}, h),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("server starting",
			"addr", srv.Addr,
			"stage", cfg.Stage,
			"admin", cfg.EnableAdmin,
			"rate_limit", limiter != nil,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		slog.Info("server shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
