package cmd

import (
	"fmt"

	"github.com/guettli/quickerchat/pkg/device"
	"github.com/spf13/cobra"
)

func init() {
	detectCmd := &cobra.Command{
		Use:   "detect",
		Short: "Press a key on the device you want to use, and get its id. Needs root permissions.",
		RunE: func(cmd *cobra.Command, args []string) error {
			devices, err := device.ListDevices()
			if err != nil {
				return err
			}
			d, err := device.Detect(cmd.Context(), devices, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d: %s(%s)\nUse: %s --id %d MAPPINGS_FILE\n",
				d.ID, d.Name, d.Path, cmd.Root().Name(), d.ID)
			return nil
		},
		Args:                  cobra.NoArgs,
		DisableFlagsInUseLine: true,
	}
	rootCmd.AddCommand(detectCmd)
}
