package main

import (
	"context"
	"fmt"
	"os"

	"tg-seed-bot/internal/app"
	"tg-seed-bot/internal/commands"
	"tg-seed-bot/internal/dispatcher"
	"tg-seed-bot/internal/loader"
	"tg-seed-bot/pkg/config"

	"github.com/spf13/cobra"
)

var (
	version      = "0.1.0"
	settingsPath string // overridable via --config flag
)

func main() {
	root := &cobra.Command{
		Use:           "bot",
		Short:         "Telegram bot with self-registering command handlers",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runBot,
	}

	root.PersistentFlags().StringVarP(&settingsPath, "config", "c", "", "path to a YAML settings file (environment variables take precedence)")

	root.AddCommand(commandsCmd())
	root.AddCommand(dnsCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runBot(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(settingsPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	return app.New(cfg, commands.Units).Run(context.Background())
}

func commandsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "commands",
		Short: "Load every handler unit and list the registered commands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := loader.Load(dispatcher.New(), commands.Units)
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintf(cmd.OutOrStdout(), "/%s\n", name)
			}
			return nil
		},
	}
}

func dnsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dns",
		Short: "Create or update the Cloudflare record for the webhook host and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(settingsPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if !cfg.UseCloudflare() {
				return fmt.Errorf("dns requires WEBHOOK=true and CLOUDFLARE_API_TOKEN")
			}

			record, err := app.New(cfg, nil).PublishWebhookHost(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s -> %s (proxied: %t)\n", record.Type, record.Name, record.Content, record.Proxied)
			return nil
		},
	}
}
