package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"hooknotify/pkg/channel"
	"hooknotify/pkg/config"
	"hooknotify/pkg/event"
	"hooknotify/pkg/logger"
	"hooknotify/pkg/report"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

const envConfigPath = "HOOKNOTIFY_CONFIG"

// channelSpec wires one destination into the shared stdin-to-delivery flow.
type channelSpec struct {
	name    string
	build   func(cfg *config.Config, log *slog.Logger) (channel.Notifier, error)
	preview func(cfg *config.Config, rec event.Record, now time.Time) any
}

// invocation is everything one run needs, resolved once at startup. ignored
// lists settings that were replaced by defaults.
type invocation struct {
	stdin    io.Reader
	reporter *report.Reporter
	cfg      *config.Config
	ignored  error
	log      *slog.Logger
	dryRun   bool
	now      func() time.Time
}

// newInvocation never fails: bad settings fall back to defaults and are
// reported once there is an event to deliver.
func newInvocation(cmd *cobra.Command, component string) invocation {
	cfg, ignored := config.LoadWith(envLookup(configPath))

	appLogger, err := logger.NewWithWriter(cfg.Logging, cmd.ErrOrStderr())
	if err != nil {
		ignored = errors.Join(ignored, err)
		cfg.Logging = config.LoggingConfig{}
		appLogger, _ = logger.NewWithWriter(cfg.Logging, cmd.ErrOrStderr())
	}
	slog.SetDefault(appLogger)

	return invocation{
		stdin:    cmd.InOrStdin(),
		reporter: report.New(cmd.OutOrStdout(), cmd.ErrOrStderr()),
		cfg:      cfg,
		ignored:  ignored,
		log:      appLogger.With("component", component, "run_id", uuid.NewString()),
		dryRun:   dryRun,
		now:      time.Now,
	}
}

// envLookup reads the process environment, letting --config take the place
// of HOOKNOTIFY_CONFIG.
func envLookup(path string) config.LookupFunc {
	path = strings.TrimSpace(path)
	if path == "" {
		return os.Getenv
	}

	return func(key string) string {
		if key == envConfigPath {
			return path
		}
		return os.Getenv(key)
	}
}

// runChannel reads the event, then delivers it through target. Only input
// errors are returned; delivery problems are reported and swallowed.
func runChannel(ctx context.Context, inv invocation, target channelSpec) error {
	rec, raw, err := event.Read(inv.stdin)
	if errors.Is(err, event.ErrEmptyInput) {
		inv.reporter.NoInput()
		return nil
	}
	if raw != nil {
		inv.log.Debug("Hook input", "payload", string(raw))
	}
	if err != nil {
		inv.reporter.InputFailed(err)
		return fmt.Errorf("%w: %w", errReported, err)
	}

	if inv.ignored != nil {
		inv.log.Info("Ignoring invalid settings", "error", inv.ignored)
		inv.reporter.SettingsIgnored(inv.ignored)
	}

	if inv.dryRun {
		now := inv.now().In(inv.cfg.Notify.Location())
		return inv.reporter.Preview(target.name, target.preview(inv.cfg, rec, now))
	}

	notifier, err := target.build(inv.cfg, inv.log)
	if errors.Is(err, channel.ErrNotConfigured) {
		inv.log.Info("Channel not configured", "channel", target.name)
		inv.reporter.Skipped(target.name, err)
		return nil
	}
	if err != nil {
		inv.log.Info("Channel setup failed", "channel", target.name, "error", err)
		inv.reporter.Failed(target.name, err)
		return nil
	}

	delivery, err := notifier.Notify(ctx, rec)
	if err != nil {
		inv.log.Info("Delivery failed", "channel", notifier.Name(), "attempts", delivery.Attempts, "error", err)
	} else {
		inv.log.Info("Delivered", "channel", notifier.Name(), "attempts", delivery.Attempts, "degraded", delivery.Degraded)
	}
	inv.reporter.Delivered(notifier.Name(), delivery, err)

	return nil
}
