package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/ignatzorin/projexnest-backend/internal/app"
	"github.com/ignatzorin/projexnest-backend/internal/config"
	"github.com/ignatzorin/projexnest-backend/internal/db"
	"github.com/ignatzorin/projexnest-backend/internal/logger"
	"github.com/ignatzorin/projexnest-backend/internal/service"
	"github.com/ignatzorin/projexnest-backend/migrations"
)

// connect загружает конфигурацию и открывает базу.
func connect(ctx context.Context) (*config.Config, *sqlx.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger.Init(cfg.LogLevel, cfg.IsDevelopment())

	pool := db.DefaultPoolOptions
	pool.MaxOpenConns = 2
	pool.MaxIdleConns = 1
	conn, err := db.NewPostgres(ctx, cfg.DatabaseURL, pool)
	if err != nil {
		return nil, nil, err
	}
	return cfg, conn, nil
}

func migrateCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Применить SQL миграции",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, conn, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer conn.Close()

			var source fs.FS = migrations.Files
			if dir == "" {
				dir = cfg.MigrationsPath
			}
			if dir != "" {
				source = os.DirFS(dir)
			}
			applied, err := db.RunMigrations(cmd.Context(), conn, source)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "применено миграций: %d\n", applied)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "каталог с миграциями вместо встроенных")
	return cmd
}

func seedCmd() *cobra.Command {
	var (
		owner    string
		seedFlag int64
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Создать демо организацию с клиентами, проектами и предложениями",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ownerID, err := uuid.Parse(owner)
			if err != nil {
				return fmt.Errorf("projexctl: --owner должен быть UUID пользователя: %w", err)
			}
			cfg, conn, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer conn.Close()

			container := app.NewContainer(cfg, conn, app.Options{})
			result, err := container.Seeder(seedFlag).Run(cmd.Context(), ownerID)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "", "UUID владельца демо организации")
	cmd.Flags().Int64Var(&seedFlag, "seed", 0, "seed генератора, 0 означает текущее время")
	_ = cmd.MarkFlagRequired("owner")
	return cmd
}

func expireSessionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "expire-sessions",
		Short: "Перевести просроченные ссылки на подпись в expired",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, conn, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer conn.Close()

			container := app.NewContainer(cfg, conn, app.Options{})
			n, err := container.ExpireSessions.Execute(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "закрыто сессий: %d\n", n)
			return nil
		},
	}
}

func tokenCmd() *cobra.Command {
	var (
		user   string
		email  string
		secret string
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Выпустить access токен для локальной разработки",
		RunE: func(cmd *cobra.Command, _ []string) error {
			userID, err := uuid.Parse(user)
			if err != nil {
				return fmt.Errorf("projexctl: --user должен быть UUID: %w", err)
			}
			if secret == "" {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				secret = cfg.JWTSecret
			}

			token, exp, err := service.NewTokenManager(secret, ttl).IssueAccess(userID, email)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintf(cmd.ErrOrStderr(), "истекает: %s\n", exp.Format(time.RFC3339))
			return nil
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "UUID пользователя (claim sub)")
	cmd.Flags().StringVar(&email, "email", "", "email пользователя")
	cmd.Flags().StringVar(&secret, "secret", "", "секрет подписи, по умолчанию JWT_SECRET")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "время жизни токена")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
