package cmd

import (
	"log/slog"
	"time"

	"hooknotify/pkg/channel"
	"hooknotify/pkg/channel/telegram"
	"hooknotify/pkg/config"
	"hooknotify/pkg/event"

	"github.com/spf13/cobra"
)

var telegramChannel = channelSpec{
	name: "telegram",
	build: func(cfg *config.Config, log *slog.Logger) (channel.Notifier, error) {
		n, err := telegram.NewNotifier(cfg.Channels.Telegram, cfg.Notify, log)
		if err != nil {
			return nil, err
		}
		return n, nil
	},
	preview: func(cfg *config.Config, rec event.Record, now time.Time) any {
		return telegram.MessageParams(
			telegram.ParseChatID(cfg.Channels.Telegram.ChatID),
			telegram.BuildText(rec, cfg.Notify.TitleOrDefault(), now),
		)
	},
}

var telegramCmd = &cobra.Command{
	Use:   "telegram",
	Short: "Send a hook event to a Telegram chat",
	Long: `Reads one JSON hook event from stdin and sends it as a Markdown message to
TELEGRAM_CHAT_ID using TELEGRAM_BOT_TOKEN. If Telegram rejects the markup the
message is resent once as plain text.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChannel(cmd.Context(), newInvocation(cmd, "cmd.telegram"), telegramChannel)
	},
}

func init() {
	rootCmd.AddCommand(telegramCmd)
}
