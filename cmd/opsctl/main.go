// Command opsctl is the operator maintenance CLI.
//
// Usage:
//
//	opsctl migrate
//	opsctl process
//	opsctl push-test --token "ExponentPushToken[xxx]" --title Hi --body There
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/oshri1997/chaver-mechuyvut-dashboard/internal/config"
	"github.com/oshri1997/chaver-mechuyvut-dashboard/internal/db"
	"github.com/oshri1997/chaver-mechuyvut-dashboard/internal/directory"
	"github.com/oshri1997/chaver-mechuyvut-dashboard/internal/notify"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:   "opsctl",
		Short: "Operator console maintenance CLI",
	}

	root.AddCommand(migrateCmd())
	root.AddCommand(processCmd())
	root.AddCommand(pushTestCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// migrate command
// --------------------------------------------------------------------------

func migrateCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			start := time.Now()
			if err := db.Migrate(cfg.DatabaseURL, dir); err != nil {
				return err
			}
			logger.Info("Migrations applied", "duration", time.Since(start).Round(time.Millisecond))
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "migrations", "migrations directory")
	return cmd
}

// --------------------------------------------------------------------------
// process command
// --------------------------------------------------------------------------

func processCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "process",
		Short: "Run the schedule processor once",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(ctx context.Context, pool *db.Pool, dispatcher *notify.Dispatcher) error {
				store := notify.NewStore(pool.Pool)
				proc := notify.NewProcessor(store, directory.NewSource(pool.Pool), dispatcher, logger)
				processed, err := proc.Run(ctx)
				if err != nil {
					return err
				}
				logger.Info("Processor run complete", "processed", processed)
				return nil
			})
		},
	}
}

// --------------------------------------------------------------------------
// push-test command
// --------------------------------------------------------------------------

func pushTestCmd() *cobra.Command {
	var token, title, body string
	cmd := &cobra.Command{
		Use:   "push-test",
		Short: "Send a test push to a single token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if token == "" {
				return fmt.Errorf("--token is required")
			}
			return withDeps(cmd.Context(), func(ctx context.Context, pool *db.Pool, dispatcher *notify.Dispatcher) error {
				out := dispatcher.Send(ctx, []string{token}, title, body, map[string]string{})
				logger.Info("Test push sent", "success", out.Success, "failure", out.Failure)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "push token (Expo or FCM format)")
	cmd.Flags().StringVar(&title, "title", "Test", "notification title")
	cmd.Flags().StringVar(&body, "body", "Test notification", "notification body")
	return cmd
}

// --------------------------------------------------------------------------
// shared wiring
// --------------------------------------------------------------------------

func withDeps(ctx context.Context, fn func(context.Context, *db.Pool, *notify.Dispatcher) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	pool, err := db.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	expo := notify.NewExpoClient(cfg.ExpoPushURL, 10*time.Second, logger)
	var native notify.NativeTransport
	if cfg.FirebaseConfigured() {
		fcm, err := notify.NewFCMSender(ctx, cfg.FirebaseProjectID, cfg.FirebaseClientEmail, cfg.FirebasePrivateKey, logger)
		if err != nil {
			return err
		}
		native = fcm
	}

	return fn(ctx, pool, notify.NewDispatcher(expo, native, logger))
}
