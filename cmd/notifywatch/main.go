// Package main provides the notifywatch CLI, a terminal client for the
// FarmaEasy real-time notification stream.
//
// Basic usage:
//
//	notifywatch watch --config configs/notifywatch.local.yaml
//	notifywatch watch --token "$FARMAEASY_TOKEN" --desktop
//	notifywatch version
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Video-AI-Midias/farmaeasy-notify/internal/version"
)

const defaultConfigPath = "configs/notifywatch.local.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := buildRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func buildRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "notifywatch",
		Short:         "FarmaEasy real-time notification client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(buildWatchCmd(), buildVersionCmd())
	return root
}

func buildWatchCmd() *cobra.Command {
	var (
		configPath string
		token      string
		desktop    bool
		debug      bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Connect to the notification stream and print incoming notifications",
		Long: `Connect to the FarmaEasy notification WebSocket and stream incoming
notifications to the terminal. The connection is kept alive with
automatic reconnection; press Ctrl+C to stop.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd.Context(), watchOptions{
				configPath: configPath,
				token:      token,
				desktop:    desktop,
				debug:      debug,
			})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath,
		"Path to YAML configuration file")
	cmd.Flags().StringVarP(&token, "token", "t", "",
		"Bearer token (overrides auth.token from the config file)")
	cmd.Flags().BoolVar(&desktop, "desktop", false,
		"Raise a desktop notification for each incoming notification")
	cmd.Flags().BoolVarP(&debug, "debug", "d", false,
		"Enable debug logging")

	return cmd
}

func buildVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("notifywatch", version.String())
		},
	}
}

// configMissing reports whether err means the config file does not exist,
// which is tolerated only for the default path.
func configMissing(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
