package cmd

import (
	"github.com/guettli/quickerchat/pkg/chatter"
	"github.com/spf13/cobra"
)

func init() {
	replayCmd := &cobra.Command{
		Use:   "replay MAPPINGS_FILE events.csv",
		Short: "Run recorded events (see 'print --csv') through the mappings and print the keys which would be sent. This is useful for debugging.",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := chatterConfig()
			if err != nil {
				return err
			}
			return chatter.ReplayMain(cmd.Context(), args[0], args[1], config, cmd.OutOrStdout())
		},
		Args:                  cobra.ExactArgs(2),
		DisableFlagsInUseLine: true,
	}
	rootCmd.AddCommand(replayCmd)
}
