package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/quill"
	httpAdapter "github.com/aretw0/quill/internal/adapters/http"
	"github.com/aretw0/quill/internal/logging"
	"github.com/aretw0/quill/pkg/preview"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Serve runs the preview protocol on in/out and returns the process exit code.
func Serve(ctx context.Context, opts Options, in io.Reader, out io.Writer) int {
	cfg, err := resolveConfig(opts)
	if err != nil {
		fmt.Fprintf(opts.stderr(), "quill: %v\n", err)
		return preview.ExitFailure
	}

	logger, err := createLogger(cfg, opts.stderr())
	if err != nil {
		fmt.Fprintf(opts.stderr(), "quill: %v\n", err)
		return preview.ExitFailure
	}
	logger, sessionID := logging.WithSession(logger)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := preview.NewMetrics(reg)
	hooks := preview.ChainHooks(metrics.Hooks(), createDebugHooks(logger))

	if cfg.MetricsAddr != "" {
		srv := httpAdapter.NewServer(cfg.MetricsAddr, httpAdapter.NewHandler(reg, quill.Version), logger)
		if _, err := srv.Start(); err != nil {
			logger.Error("failed to start metrics server", "error", err)
			return preview.ExitFailure
		}
		defer func() {
			if err := srv.Shutdown(); err != nil {
				logger.Warn("metrics server shutdown failed", "error", err)
			}
		}()
	}

	server := preview.NewServer(
		quill.Factory(engineOptions(cfg, logger, hooks)...),
		preview.WithLogger(logger),
		preview.WithMetrics(metrics),
		preview.WithLifecycleHooks(hooks),
		preview.WithMaxLineBytes(cfg.MaxLineBytes),
	)

	logger.Info("Starting preview server", "session_id", sessionID, "version", quill.Version)
	code := server.Run(ctx, in, out)
	if sig := interruptSignal(ctx); sig != nil {
		logger.Info("Preview server stopped", "exit_code", code, "signal", sig.String())
	} else {
		logger.Info("Preview server stopped", "exit_code", code)
	}
	return code
}
