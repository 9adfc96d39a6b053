// Command wallbridge exposes the host wallpaper bridge to a local front-end.
package main

import (
	"os"

	"github.com/dixieflatline76/wallbridge/config"
	"github.com/spf13/cobra"
)

var configPath string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "wallbridge",
		Short:        "Set the desktop wallpaper and list image folders for a local front-end",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.wallbridge/config.json)")

	root.AddCommand(
		newServeCmd(),
		newSetWallpaperCmd(),
		newListFilesCmd(),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("%s %s\n", config.AppName, config.AppVersion)
		},
	}
}

// loadConfig reads --config when given, the user config otherwise.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.Load(configPath)
	}
	return config.GetConfig(), nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
