/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	configPath string
	dryRun     bool
)

// errReported marks failures whose status line was already printed.
var errReported = errors.New("reported")

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "hooknotify",
	Short: "Forward automation hook events to chat channels",
	Long: `Reads one JSON hook event from stdin and forwards it to a chat channel.

Delivery is best effort: missing credentials and failed sends are reported
but never fail the calling hook. Only unreadable input exits non-zero.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits 1 on fatal errors.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "JSON config file (overrides HOOKNOTIFY_CONFIG)")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "print the outbound payload instead of sending it")
}
