package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/guettli/quickerchat/pkg/chatter"
	"github.com/guettli/quickerchat/pkg/device"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "quickerchat [--id N] MAPPINGS_FILE",
	Short: "quickerchat replaces key presses of one input device with text messages.",
	Long: `quickerchat listens to one input device. If a pressed key is in the mappings
file, the text of the mapping gets typed into the focused window.

  MAPPINGS_FILE should be a mappings file for mapping keys to strings.
  One mapping per line:

      F1: gg
      KP_1: Nice shot!

  Files ending in .yaml or .yml are read as a YAML map of key names to text.
  Use the sub-command 'print' to see the names of keys.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			if cmd.Flags().NFlag() == 0 {
				return cmd.Usage()
			}
			return errors.New("Expected a mappings file path")
		}
		return runMain(cmd, args[0])
	},
}

func init() {
	addPersistentFlags(rootCmd)
}

func runMain(cmd *cobra.Command, mappingsFile string) error {
	config, err := chatterConfig()
	if err != nil {
		return err
	}
	table, err := chatter.LoadFile(mappingsFile, nil)
	if table == nil {
		return err
	}
	if table.Len() == 0 {
		slog.Warn("No usable mapping found", "file", mappingsFile)
	}

	session, err := device.Open(device.Options{
		DeviceID: deviceID(),
		Backend:  backend(),
		In:       cmd.InOrStdin(),
		Out:      cmd.OutOrStdout(),
	})
	if err != nil {
		return err
	}

	bridge := chatter.NewBridge(session, table, config)
	if err := bridge.Register(); err != nil {
		session.Close()
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	// Closing the device ends the blocking read.
	stop := context.AfterFunc(ctx, func() { session.Close() })
	slog.Info("Listening for key events... (Ctrl+C to exit)", "mappings", table.Len())
	err = bridge.Run(ctx)
	if stop() {
		session.Close()
	}
	if ctx.Err() != nil {
		slog.Info("Shutting down...")
		return nil
	}
	return err
}

// normalizeArgs accepts the single dash spelling "-id N".
func normalizeArgs(args []string) []string {
	out := make([]string, 0, len(args))
	for _, arg := range args {
		if arg == "-id" || strings.HasPrefix(arg, "-id=") {
			arg = "-" + arg
		}
		out = append(out, arg)
	}
	return out
}

func Execute() {
	rootCmd.SetArgs(normalizeArgs(os.Args[1:]))
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
