package cli

import (
	"github.com/spf13/cobra"

	"github.com/devbydaniel/whisperclip/internal/control"
	"github.com/devbydaniel/whisperclip/internal/domain/dictation"
)

func NewStartCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start recording",
		Long:  "Ask the running daemon to start recording from the default microphone.\nRun 'whisperclip stop' to transcribe and copy the result.",
		RunE: func(cmd *cobra.Command, args []string) error {
			f := deps.App.Formatter
			client := control.NewClient(deps.Config.ListenAddr)

			st, err := client.Start(cmd.Context())
			if err != nil {
				if dictation.IsBenign(err) {
					f.Info("Recording already in progress!")
					return nil
				}
				return err
			}

			f.Show("Recording...")
			f.State(st.State)
			return nil
		},
	}

	return cmd
}
