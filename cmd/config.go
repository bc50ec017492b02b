package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/guettli/quickerchat/pkg/chatter"
	"github.com/guettli/quickerchat/pkg/device"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "QUICKERCHAT"

var cfgFile string

func addPersistentFlags(c *cobra.Command) {
	defaults := chatter.DefaultConfig()
	flags := c.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default $XDG_CONFIG_HOME/quickerchat/config.yaml)")
	flags.BoolP("debug", "d", false, "Print debug output")
	flags.String("id", "", "The device id to use, see sub-command 'devices'. Without it you get asked.")
	flags.String("backend", device.BackendUinput, fmt.Sprintf("How keys get sent, one of %v", device.Backends))
	flags.String("activation", defaults.Activation, "Text typed before each message")
	flags.String("confirm-key", "KP_Enter", "Key pressed after each message")
	flags.Duration("settle", defaults.Settle, "Pause after the activation text and after the message")
	flags.Bool("strict", false, "Abort if a character of a message has no key. Default: skip it")
	flags.Bool("shift-by-layout", false, "Also press shift for characters on the shifted level of the layout, like '@' or '#'. Default: only A-Z, '!' and '?'")
}

func configDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "quickerchat")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "quickerchat")
}

// initConfig loads config file and environment. Flags take precedence over
// environment, which takes precedence over the config file.
func initConfig(cmd *cobra.Command) error {
	if cfgFile != "" {
		if _, err := os.Stat(cfgFile); err != nil {
			return fmt.Errorf("failed to read config %q: %w", cfgFile, err)
		}
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		if dir := configDir(); dir != "" {
			viper.AddConfigPath(dir)
		}
	}
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.BindPFlags(cmd.Root().PersistentFlags()); err != nil {
		return err
	}

	err := viper.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	switch {
	case err == nil:
	case errors.As(err, &notFound):
	case cfgFile != "":
		return fmt.Errorf("failed to read config %q: %w", cfgFile, err)
	default:
		slog.Warn("Error reading config file", "error", err)
	}
	setupLogger(viper.GetBool("debug"))
	if used := viper.ConfigFileUsed(); used != "" && err == nil {
		slog.Debug("Using config file", "path", used)
	}
	return nil
}

func setupLogger(debug bool) {
	var lvl slog.Level
	if debug {
		lvl = slog.LevelDebug
	} else {
		lvl = slog.LevelInfo
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}

func chatterConfig() (chatter.Config, error) {
	config := chatter.DefaultConfig()
	config.Activation = viper.GetString("activation")
	config.Settle = viper.GetDuration("settle")
	config.Strict = viper.GetBool("strict")
	config.ShiftByLayout = viper.GetBool("shift-by-layout")
	confirm, err := chatter.ResolveKeyName(viper.GetString("confirm-key"))
	if err != nil {
		return config, fmt.Errorf("invalid confirm-key: %w", err)
	}
	config.ConfirmKey = confirm
	return config, nil
}

// deviceID returns 0 (ask the user) for a missing or malformed id.
func deviceID() int {
	s := strings.TrimSpace(viper.GetString("id"))
	if s == "" {
		return 0
	}
	id, err := strconv.Atoi(s)
	if err != nil {
		slog.Warn("Ignoring malformed device id", "id", s)
		return 0
	}
	return id
}

func backend() string {
	return viper.GetString("backend")
}
