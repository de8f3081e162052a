package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"socialnet/internal/cache"
	"socialnet/internal/config"
	"socialnet/internal/database"
	"socialnet/internal/observability"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

// runtime opens the resources a command needs and releases them afterwards.
type runtime struct {
	loadConfig func() (*config.Config, error)
	build      BuildInfo
	output     string

	cfg     *config.Config
	db      *gorm.DB
	closers []io.Closer
}

func newRuntime() *runtime {
	return &runtime{loadConfig: config.LoadConfig}
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// setup loads config, configures logging and tags the command context with a correlation id.
func (r *runtime) setup(cmd *cobra.Command) error {
	cfg, err := r.loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	r.cfg = cfg

	logCloser, err := observability.Setup(observability.LogOptions{
		Level:      cfg.LogLevel,
		Format:     cfg.LogFormat,
		Production: cfg.IsProduction(),
		Output:     cmd.ErrOrStderr(),
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxFiles:   cfg.LogMaxFiles,
	})
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	r.closers = append(r.closers, logCloser)

	shutdown, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:    "socialnet",
		ServiceVersion: r.build.Version,
		Environment:    cfg.Env,
		Enabled:        cfg.TracingEnabled,
		Exporter:       cfg.TracingExporter,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SamplerRatio:   cfg.TracingSamplerRatio,
		Writer:         cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	r.closers = append(r.closers, closerFunc(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return shutdown(ctx)
	}))

	ctx := observability.WithCorrelationID(cmd.Context(), observability.GenerateCorrelationID())
	cmd.SetContext(ctx)

	if cfg.CacheEnabled {
		if err := cache.InitRedis(cfg.RedisURL); err != nil {
			observability.Logger.WarnContext(ctx, "cache disabled", slog.String("error", err.Error()))
		}
	}
	return nil
}

// open runs setup and connects to the database.
func (r *runtime) open(cmd *cobra.Command, applySchema bool) error {
	if err := r.setup(cmd); err != nil {
		return err
	}
	db, err := database.ConnectWithOptions(r.cfg, database.ConnectOptions{ApplySchema: applySchema})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	r.db = db
	return nil
}

// run opens the runtime, runs fn and always releases what was opened.
func (r *runtime) run(cmd *cobra.Command, applySchema bool, fn func() error) (err error) {
	defer func() {
		err = errors.Join(err, r.close())
	}()
	if err := r.open(cmd, applySchema); err != nil {
		return withExitCode(err)
	}

	ctx, span := observability.StartSpan(cmd.Context(), "cli."+cmd.CommandPath(),
		attribute.String("db.driver", r.cfg.DBDriver),
	)
	cmd.SetContext(ctx)
	err = fn()
	observability.EndSpan(span, err)
	return withExitCode(err)
}

func (r *runtime) close() error {
	var errs []error
	if err := cache.Close(); err != nil {
		errs = append(errs, err)
	}
	if r.db != nil {
		if err := database.Close(r.db); err != nil {
			errs = append(errs, err)
		}
		r.db = nil
	}
	if r.cfg != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := observability.ExportMetrics(ctx, observability.MetricsExport{
			PushgatewayURL: r.cfg.MetricsPushgatewayURL,
			Job:            r.cfg.MetricsJob,
			Textfile:       r.cfg.MetricsTextfile,
		})
		cancel()
		if err != nil {
			errs = append(errs, err)
		}
	}
	for _, c := range r.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	r.closers = nil
	return errors.Join(errs...)
}

func parseID(arg string) (uint, error) {
	id, err := strconv.ParseUint(arg, 10, 64)
	if err != nil || id == 0 {
		return 0, usageError(fmt.Errorf("invalid id %q", arg))
	}
	return uint(id), nil
}
