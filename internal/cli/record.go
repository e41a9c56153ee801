package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func NewRecordCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record in the foreground (Ctrl+C to stop)",
		Long:  "Record without a daemon. Press Ctrl+C to stop; the transcript is copied to the clipboard and printed.",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := deps.App
			f := a.Formatter
			session := a.NewSession(f)
			defer session.Shutdown()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := session.Start(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return &Reported{Err: err}
			}

			<-ctx.Done()

			// The interrupt that stopped the wait must not abort the pipeline.
			result, err := session.Stop(context.WithoutCancel(ctx))
			if err != nil {
				return &Reported{Err: err}
			}

			f.RecordingStopped(result.Recorded, result.AudioLength)
			f.Transcript(result.Transcript)
			return nil
		},
	}

	return cmd
}
