package main

import (
	"encoding/json"

	"github.com/dixieflatline76/wallbridge/pkg/api"
	"github.com/dixieflatline76/wallbridge/pkg/bridge"
	"github.com/dixieflatline76/wallbridge/util/log"
	"github.com/spf13/cobra"
)

func newSetWallpaperCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-wallpaper <path>",
		Short: "Set the desktop wallpaper from a local image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnce(cmd, bridge.MethodSetWallpaper, args[0])
		},
	}
}

func newListFilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-files <dir>",
		Short: "List the entries of a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnce(cmd, bridge.MethodListFiles, args[0])
		},
	}
}

// runOnce performs a single bridge call and prints the reply as JSON.
func runOnce(cmd *cobra.Command, method, path string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	host, installer := newHost(cfg)
	r := host.Handle(method, map[string]any{bridge.ArgPath: path})
	if method == bridge.MethodSetWallpaper {
		if err := installer.PruneStaged(); err != nil {
			log.Printf("Failed to prune staged wallpapers: %v", err)
		}
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(api.NewReply("", r))
}
