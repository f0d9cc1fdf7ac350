package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hamed0406/syncwatch/internal/config"
	"github.com/hamed0406/syncwatch/internal/httpapi"
	"github.com/hamed0406/syncwatch/internal/logging"
	"github.com/hamed0406/syncwatch/internal/monitor"
	"github.com/hamed0406/syncwatch/internal/notify"
	"github.com/hamed0406/syncwatch/internal/probe"
	"github.com/hamed0406/syncwatch/internal/repo/memory"
	"github.com/hamed0406/syncwatch/internal/scheduler"
	"github.com/hamed0406/syncwatch/internal/tracker"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Poll every target until interrupted",
	RunE:  runMonitor,
}

func runMonitor(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(logging.Options{
		Dir:     cfg.LogDir,
		Level:   cfg.LogLevel,
		Console: cfg.ConsoleLog,
	})
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var prober probe.Prober = probe.NewCommandProber(cfg.ProbeTimeout())
	if cfg.ProbeAttempts > 1 {
		prober = &probe.RetryProber{Inner: prober, Attempts: cfg.ProbeAttempts, Backoff: cfg.ProbeBackoff()}
	}
	pool := probe.NewPool(prober, cfg.MaxConcurrentProbes)
	tr := tracker.New()
	history := memory.New(cfg.HistorySize)

	mon := monitor.New(logger, cfg.Targets, pool, tr, newNotifier(cfg), history, cfg.SummaryWindow())

	logger.Info("monitor_start",
		zap.Int("targets", len(cfg.Targets)),
		zap.Duration("interval", cfg.Interval()),
	)
	mon.Start(ctx)

	sched := scheduler.NewScheduler(logger, mon, cfg.Interval(), cfg.MinSleep())

	if cfg.HTTPAddr != "" {
		api := httpapi.NewServer(logger, cfg.Targets, tr, sched, history, cfg.APITokens)
		srv := &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           api.Router(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("api_listen", zap.String("addr", cfg.HTTPAddr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("api_listen_failed", zap.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	err = sched.Run(ctx)
	if errors.Is(err, context.Canceled) {
		logger.Info("monitor_stopped")
		return nil
	}
	return fmt.Errorf("scheduler: %w", err)
}

func emailConfig(cfg config.Config) notify.EmailConfig {
	return notify.EmailConfig{
		Host:     cfg.Email.SMTPHost,
		Port:     cfg.Email.SMTPPort,
		Username: cfg.Email.Username,
		Password: cfg.Email.Password,
		From:     cfg.Email.From,
		To:       cfg.Email.To,
	}
}

func newNotifier(cfg config.Config) notify.Notifier {
	channels := notify.Multi{notify.NewEmail(emailConfig(cfg))}
	if s := notify.NewSlack(cfg.SlackWebhook); s != nil {
		channels = append(channels, s)
	}
	return channels
}
