package cli

import (
	"github.com/spf13/cobra"

	"github.com/devbydaniel/whisperclip/config"
	"github.com/devbydaniel/whisperclip/internal/app"
	"github.com/devbydaniel/whisperclip/internal/version"
)

type Dependencies struct {
	App    *app.App
	Config *config.Config
}

// Reported wraps an error the session already showed to the user, so main
// exits non-zero without printing it a second time.
type Reported struct {
	Err error
}

func (r *Reported) Error() string { return r.Err.Error() }

func (r *Reported) Unwrap() error { return r.Err }

func NewRootCmd(deps *Dependencies) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "whisperclip",
		Short: "Dictate into the clipboard",
		Long:  "A CLI tool that records the microphone, transcribes the recording with whisper, and copies the transcript to the clipboard.",

		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(version.Full() + "\n")

	rootCmd.AddCommand(NewServeCmd(deps))
	rootCmd.AddCommand(NewStartCmd(deps))
	rootCmd.AddCommand(NewStopCmd(deps))
	rootCmd.AddCommand(NewStatusCmd(deps))
	rootCmd.AddCommand(NewRecordCmd(deps))
	rootCmd.AddCommand(NewCleanCmd(deps))
	rootCmd.AddCommand(NewDoctorCmd(deps))

	return rootCmd
}
