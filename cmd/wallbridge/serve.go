package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/dixieflatline76/wallbridge/config"
	"github.com/dixieflatline76/wallbridge/pkg/api"
	"github.com/dixieflatline76/wallbridge/pkg/bridge"
	"github.com/dixieflatline76/wallbridge/util/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

// serverReady is called once the channel is registered, before serving starts.
var serverReady = func(*api.Server, *config.Config) {}

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the wallpaper channel on localhost",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.ListenAddr = addr
			}
			return runServe(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}

func runServe(ctx context.Context, cfg *config.Config) error {
	ok, err := acquireLock()
	if err != nil {
		return fmt.Errorf("failed to acquire single-instance lock: %w", err)
	}
	if !ok {
		return errors.New("another instance of " + config.AppName + " is already running")
	}
	defer releaseLock()

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	host, installer := newHost(cfg)
	if err := installer.PruneStaged(); err != nil {
		log.Printf("Failed to prune staged wallpapers: %v", err)
	}

	channel := bridge.NewChannel(cfg.Channel)
	if err := channel.SetHandler(host); err != nil {
		return err
	}

	server := api.NewServer(cfg.ListenAddr)
	server.SetStrategyName(installer.Strategy().Name())
	if err := server.RegisterChannel(channel); err != nil {
		return err
	}

	serverReady(server, cfg)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(server.Start)
	g.Go(func() error {
		<-gctx.Done()
		log.Println("Shutting down bridge server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Stop(shutdownCtx)
	})
	return g.Wait()
}
