package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/devbydaniel/whisperclip/internal/control"
	"github.com/devbydaniel/whisperclip/pkg/logger"
)

func NewServeCmd(deps *Dependencies) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the dictation daemon",
		Long:  "Hold the recording session and expose start, stop and status to editor hosts over a loopback HTTP API.\nStop with Ctrl+C; a running recorder is killed on exit.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a := deps.App
			session := a.NewSession(a.Hub)
			defer session.Shutdown()

			a.Formatter.Info("Listening on " + addr)
			srv := control.NewServer(session, a.Hub, a.Logger)
			srv.OnShutdown(session.Shutdown)
			err := srv.ListenAndServe(ctx, addr)
			a.Logger.Info("control API stopped", logger.Error(err))
			return err
		},
	}

	cmd.Flags().StringVar(&addr, "addr", deps.Config.ListenAddr, "Listen address (loopback only)")

	return cmd
}
