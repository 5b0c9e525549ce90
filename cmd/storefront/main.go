package main

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

	"github.com/urfave/cli/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"

	"github.com/jcmexdev/storefront/internal/config"
	"github.com/jcmexdev/storefront/internal/i18n"
	"github.com/jcmexdev/storefront/internal/pkg/cache"
	"github.com/jcmexdev/storefront/internal/pkg/telemetry"
	"github.com/jcmexdev/storefront/internal/storefront/core/catalog"
	"github.com/jcmexdev/storefront/internal/storefront/core/checkout"
	"github.com/jcmexdev/storefront/internal/storefront/core/ports"
	"github.com/jcmexdev/storefront/internal/storefront/infra/adapters/paymentlog"
	"github.com/jcmexdev/storefront/internal/storefront/infra/adapters/paymentlog/sqlite"
	"github.com/jcmexdev/storefront/internal/storefront/infra/adapters/shopapi"
	"github.com/jcmexdev/storefront/internal/storefront/infra/httpx"
)

const (
	sweepInterval = time.Minute
	formMaxIdle   = 30 * time.Minute
)

func main() {
	app := &cli.App{
		Name:  "storefront",
		Usage: "Storefront backend for the checkout payment step",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "TOML config file path",
				EnvVars: []string{"STOREFRONT_CONFIG"},
			},
			&cli.StringFlag{Name: "addr", Usage: "HTTP listen address (overrides config)"},
			&cli.StringFlag{Name: "debug-addr", Usage: "Listen address of the operator endpoints (overrides config)"},
			&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error (overrides config)"},
			&cli.BoolFlag{Name: "fake-shop", Usage: "Serve an in-memory shop instead of calling the Shop API"},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP server",
				Action: serve,
			},
			{
				Name:  "check-config",
				Usage: "Validate the configuration and exit",
				Action: func(c *cli.Context) error {
					cfg, err := loadConfigWithOverrides(c)
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "config ok: listening on %s, shop api %s\n", cfg.HTTPAddr, shopTarget(cfg))
					return nil
				},
			},
		},
		DefaultCommand: "serve",
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("storefront exited", "error", err)
		os.Exit(1)
	}
}

// loadConfigWithOverrides loads the configuration and applies CLI flags.
func loadConfigWithOverrides(c *cli.Context) (config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return config.Config{}, err
	}
	if addr := c.String("addr"); addr != "" {
		cfg.HTTPAddr = addr
	}
	if addr := c.String("debug-addr"); addr != "" {
		cfg.DebugAddr = addr
	}
	if level := c.String("log-level"); level != "" {
		cfg.LogLevel = level
	}
	if c.Bool("fake-shop") {
		cfg.ShopAPI.Fake = true
	}
	return cfg, cfg.Validate()
}

func shopTarget(cfg config.Config) string {
	if cfg.ShopAPI.Fake {
		return "(in-memory)"
	}
	return cfg.ShopAPI.URL
}

func serve(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}

	telemetry.InitLogger(cfg.LogLevel)
	logger := slog.Default()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Tracing.Enabled {
		shutdown, err := telemetry.SetupTracer(ctx, telemetry.TracerConfig{
			ServiceName: cfg.Tracing.ServiceName,
			Endpoint:    cfg.Tracing.Endpoint,
			Environment: cfg.Tracing.Environment,
			SampleRatio: cfg.Tracing.SampleRatio,
		})
		if err != nil {
			return err
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				logger.Error("tracer shutdown failed", "error", err)
			}
		}()
	}

	messages, err := i18n.Load(cfg.I18n.DefaultLanguage, cfg.I18n.Languages...)
	if err != nil {
		return fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}
	logger.Info("serving locales", "languages", messages.Languages(), "default", cfg.I18n.DefaultLanguage)

	var shop ports.StorefrontAPI
	if cfg.ShopAPI.Fake {
		logger.Warn("using the in-memory shop; payments are simulated")
		shop = shopapi.NewFakeShop()
	} else {
		client, err := shopapi.NewClient(shopapi.Config{
			URL:          cfg.ShopAPI.URL,
			ChannelToken: cfg.ShopAPI.ChannelToken,
			Timeout:      cfg.ShopAPI.Timeout.Duration,
		})
		if err != nil {
			return err
		}
		shop = client
	}

	var catalogCache cache.Cache = cache.Noop{ServiceName: cfg.Tracing.ServiceName}
	if cfg.Catalog.RedisAddr != "" {
		catalogCache = cache.NewRedisCache(cfg.Catalog.RedisAddr, cfg.Tracing.ServiceName)
	}

	var (
		attemptLog ports.PaymentLog
		attempts   httpx.AttemptReader
	)
	if cfg.Payments.AttemptLogPath != "" {
		repo, err := sqlite.Open(cfg.Payments.AttemptLogPath)
		if err != nil {
			return err
		}
		defer repo.Close()
		recorder := paymentlog.NewRecorder(repo)
		attemptLog, attempts = recorder, recorder
	}

	checkoutService := checkout.NewService(shop, attemptLog, checkout.CardConfig{PublicKey: cfg.Payments.StripePublicKey}, logger)
	sessions := checkout.NewSessions(checkoutService, cfg.Payments.SubmitTimeout.Duration, cfg.Payments.MaxOpenForms)
	catalogService := catalog.NewService(shop, catalogCache, cfg.Catalog.TTL.Duration, cfg.Catalog.PageSize, logger)

	handler := httpx.NewHandler(checkoutService, sessions, catalogService, messages, attempts, logger)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           otelhttp.NewHandler(httpx.NewRouter(handler), "storefront"),
		ReadHeaderTimeout: 10 * time.Second,
	}
	servers := []*http.Server{srv}

	g, gctx := errgroup.WithContext(ctx)
	if cfg.DebugAddr != "" {
		debugSrv := &http.Server{
			Addr:              cfg.DebugAddr,
			Handler:           httpx.NewDebugRouter(handler),
			ReadHeaderTimeout: 10 * time.Second,
		}
		servers = append(servers, debugSrv)
		g.Go(func() error {
			logger.Info("debug endpoints listening", "addr", cfg.DebugAddr, "attempt_log", attempts != nil)
			if err := debugSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}
	g.Go(func() error {
		logger.Info("storefront listening", "addr", cfg.HTTPAddr, "shop_api", shopTarget(cfg))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case now := <-ticker.C:
				if n := sessions.Sweep(now, formMaxIdle); n > 0 {
					logger.Debug("closed idle payment forms", "count", n)
				}
			}
		}
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		var errs []error
		for _, s := range servers {
			errs = append(errs, s.Shutdown(shutdownCtx))
		}
		return errors.Join(errs...)
	})

	return g.Wait()
}
