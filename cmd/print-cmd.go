package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/guettli/quickerchat/pkg/chatter"
	"github.com/guettli/quickerchat/pkg/device"
	"github.com/holoplot/go-evdev"
	"github.com/spf13/cobra"
)

func init() {
	csv := false
	printCmd := &cobra.Command{
		Use:   "print",
		Short: "Connect to one device and print its key events with their codes. Needs root permissions.",
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := device.SelectDevice(device.Options{
				DeviceID: deviceID(),
				In:       cmd.InOrStdin(),
				Out:      cmd.OutOrStdout(),
			})
			if err != nil {
				return err
			}
			dev, err := evdev.Open(info.Path)
			if err != nil {
				return fmt.Errorf("failed to open the source device: %q %w", info.Path, err)
			}
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			stop := context.AfterFunc(ctx, func() { dev.Close() })
			defer func() {
				if stop() {
					dev.Close()
				}
			}()
			if csv {
				fmt.Fprintf(cmd.OutOrStdout(), "#Reading %s\n", info.Name)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Reading %s. Ctrl+C to terminate.\n", info.Name)
			}
			err = chatter.PrintEvents(dev, cmd.OutOrStdout(), csv)
			if ctx.Err() != nil {
				return nil
			}
			return err
		},
		Args:                  cobra.NoArgs,
		DisableFlagsInUseLine: true,
	}
	printCmd.Flags().BoolVar(&csv, "csv", false, "Print events as csv, which the sub-command 'replay' can read")
	rootCmd.AddCommand(printCmd)
}
