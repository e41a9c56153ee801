package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

func NewCleanCmd(deps *Dependencies) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove leftover recordings and transcripts",
		Long:  "Delete artifacts left in the storage directory, such as transcripts kept after a clipboard failure.\nDo not run while a recording is in progress.",
		RunE: func(cmd *cobra.Command, args []string) error {
			f := deps.App.Formatter
			dir := deps.App.Storage
			prefix := deps.Config.ArtifactName

			match := func(name string) bool {
				return strings.HasPrefix(name, prefix)
			}

			names, err := dir.Find(match)
			if err != nil {
				return err
			}
			if len(names) == 0 {
				f.Info("No leftover artifacts found")
				return nil
			}

			if dryRun {
				f.ArtifactListHeader(dir.Path())
				for _, name := range names {
					f.ArtifactListItem(name, false)
				}
				return nil
			}

			removed, err := dir.Remove(match)
			f.ArtifactListHeader(dir.Path())
			for _, name := range removed {
				f.ArtifactListItem(name, true)
			}
			return err
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "List artifacts without removing them")

	return cmd
}
