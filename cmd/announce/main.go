// announce broadcasts one announcement to the app's push topic.
//
// Usage:
//
//	FCM_SERVER_KEY=... announce --title "Wellness week" --body "Free yoga at 5pm"
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Brian-C69/calm-campus/internal/config"
	"github.com/Brian-C69/calm-campus/internal/push"
	"github.com/Brian-C69/calm-campus/internal/store"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var title, body string
	var record bool

	cmd := &cobra.Command{
		Use:   "announce",
		Short: "Broadcast an announcement to the CalmCampus push topic",
		Long: `Sends one notification to FCM_TOPIC using FCM_SERVER_KEY from the
environment (or .env). There is no built-in key: without one the command fails.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), cmd, title, body, record)
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "announcement title")
	cmd.Flags().StringVar(&body, "body", "", "announcement body")
	cmd.Flags().BoolVar(&record, "record", true, "record the send in the announcement log at DB_PATH")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("body")
	return cmd
}

func run(ctx context.Context, cmd *cobra.Command, title, body string, record bool) error {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// The key only ever comes from the environment.
	fcm, err := push.NewFCMClient(cfg.Push, nil)
	if err != nil {
		return err
	}

	var repo store.Repository
	if record {
		sqlite, err := store.NewSQLite(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open announcement log: %w", err)
		}
		defer sqlite.Close()
		repo = sqlite
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := push.NewService(fcm, repo, cfg.Push.Topic, nil).Announce(ctx, title, body)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "sent %s to /topics/%s\n", a.ID, a.Topic)
	return nil
}
