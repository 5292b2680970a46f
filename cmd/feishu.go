package cmd

import (
	"log/slog"
	"time"

	"hooknotify/pkg/channel"
	"hooknotify/pkg/channel/feishu"
	"hooknotify/pkg/config"
	"hooknotify/pkg/event"

	"github.com/spf13/cobra"
)

var feishuChannel = channelSpec{
	name: "feishu",
	build: func(cfg *config.Config, log *slog.Logger) (channel.Notifier, error) {
		n, err := feishu.NewNotifier(cfg.Channels.Feishu, cfg.Notify, log)
		if err != nil {
			return nil, err
		}
		return n, nil
	},
	preview: func(cfg *config.Config, rec event.Record, now time.Time) any {
		return feishu.BuildMessage(rec, cfg.Notify.TitleOrDefault(), now)
	},
}

var feishuCmd = &cobra.Command{
	Use:   "feishu",
	Short: "Post a hook event to a Feishu group webhook",
	Long:  "Reads one JSON hook event from stdin and posts it as an interactive card to FEISHU_WEBHOOK_URL.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChannel(cmd.Context(), newInvocation(cmd, "cmd.feishu"), feishuChannel)
	},
}

func init() {
	rootCmd.AddCommand(feishuCmd)
}
