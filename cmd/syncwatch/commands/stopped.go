package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hamed0406/syncwatch/internal/monitor"
	"github.com/hamed0406/syncwatch/internal/notify"
)

// notifyStoppedCmd is meant for a service manager's stop hook.
var notifyStoppedCmd = &cobra.Command{
	Use:   "notify-stopped",
	Short: "Send the monitor-stopped email and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		subject, body := monitor.StoppedMessage(time.Now())
		if err := notify.NewEmail(emailConfig(cfg)).Send(ctx, subject, body); err != nil {
			return fmt.Errorf("send stopped notification: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "stopped notification sent")
		return nil
	},
}
