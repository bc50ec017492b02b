package cmd

import (
	"github.com/guettli/quickerchat/pkg/device"
	"github.com/spf13/cobra"
)

func init() {
	keyboards := false
	devicesCmd := &cobra.Command{
		Use:   "devices",
		Short: "List the input devices and their ids",
		RunE: func(cmd *cobra.Command, args []string) error {
			devices, err := device.ListDevices()
			if err != nil {
				return err
			}
			if keyboards {
				devices = device.Keyboards(devices)
			}
			device.PrintDevices(cmd.OutOrStdout(), devices)
			return nil
		},
		Args: cobra.NoArgs,
	}
	devicesCmd.Flags().BoolVarP(&keyboards, "keyboards", "k", false, "Only list devices which look like a keyboard")
	rootCmd.AddCommand(devicesCmd)
}
