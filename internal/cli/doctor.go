package cli

import (
	"github.com/spf13/cobra"

	"github.com/devbydaniel/whisperclip/internal/control"
)

func NewDoctorCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check prerequisites",
		RunE: func(cmd *cobra.Command, args []string) error {
			f := deps.App.Formatter
			ok := true

			for _, c := range deps.App.Checks() {
				if c.Err != nil {
					f.SetupCheck(c.Name, false, c.Err.Error())
					ok = false
				} else {
					f.SetupCheck(c.Name, true, c.Detail)
				}
			}

			if st, err := control.NewClient(deps.Config.ListenAddr).Status(cmd.Context()); err != nil {
				f.SetupCheck("Daemon", false, "not reachable on "+deps.Config.ListenAddr+". Run 'whisperclip serve'")
			} else {
				f.SetupCheck("Daemon", true, st.State)
			}

			if ok {
				f.Success("\nAll prerequisites met. Ready to dictate!")
			} else {
				f.Warning("\nSome prerequisites are missing.")
			}
			return nil
		},
	}
}
