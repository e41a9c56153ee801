package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/devbydaniel/whisperclip/internal/control"
)

func NewStatusCmd(deps *Dependencies) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show whether a recording is active",
		RunE: func(cmd *cobra.Command, args []string) error {
			f := deps.App.Formatter
			client := control.NewClient(deps.Config.ListenAddr)

			if !watch {
				st, err := client.Status(cmd.Context())
				if err != nil {
					return err
				}
				f.State(st.State)
				return nil
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			err := client.Watch(ctx, func(ev control.StatusEvent) {
				if ev.Recording {
					f.Show(ev.Text)
				} else {
					f.Info("Not recording")
				}
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Stream indicator changes until Ctrl+C")

	return cmd
}
