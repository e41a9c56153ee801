package cli

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/devbydaniel/whisperclip/internal/control"
	"github.com/devbydaniel/whisperclip/internal/domain/dictation"
)

func NewStopCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop recording and copy the transcript",
		Long:  "Stop the daemon's recording, transcribe the audio, and copy the transcript to the clipboard.\nBlocks until transcription has finished.",
		RunE: func(cmd *cobra.Command, args []string) error {
			f := deps.App.Formatter
			client := control.NewClient(deps.Config.ListenAddr)

			res, err := client.Stop(cmd.Context())
			if err != nil {
				switch {
				case errors.Is(err, dictation.ErrNothingToStop):
					f.Info("No recording in progress!")
					return nil
				case dictation.IsBenign(err):
					f.Info(err.Error())
					return nil
				}
				return err
			}

			f.RecordingStopped(
				time.Duration(res.DurationMS)*time.Millisecond,
				time.Duration(res.AudioMS)*time.Millisecond,
			)
			f.Transcript(res.Transcript)
			f.Success("Transcription copied to clipboard!")
			return nil
		},
	}

	return cmd
}
