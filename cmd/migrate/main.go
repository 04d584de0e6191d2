package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"bookstore/internal/config"
)

func main() {
	config.LoadEnvFiles()

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := newApp(logger).Run(os.Args); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}
}

func newApp(logger *zap.Logger) *cli.App {
	return &cli.App{
		Name:  "migrate",
		Usage: "apply database migrations",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "dsn",
				Value:   config.DefaultDSN,
				EnvVars: []string{"DB_DSN"},
				Usage:   "Postgres connection string",
			},
			&cli.StringFlag{
				Name:  "dir",
				Value: migrationsDir(),
				Usage: "migrations directory",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "up",
				Usage: "apply all pending migrations",
				Action: withDB(func(c *cli.Context, db *sql.DB) error {
					if err := goose.Up(db, c.String("dir")); err != nil {
						return err
					}
					logger.Info("migrations applied")
					return nil
				}),
			},
			{
				Name:  "down",
				Usage: "roll back the latest migration",
				Action: withDB(func(c *cli.Context, db *sql.DB) error {
					if err := goose.Down(db, c.String("dir")); err != nil {
						return err
					}
					logger.Info("migration rolled back")
					return nil
				}),
			},
			{
				Name:  "status",
				Usage: "print migration status",
				Action: withDB(func(c *cli.Context, db *sql.DB) error {
					return goose.Status(db, c.String("dir"))
				}),
			},
			{
				Name:      "create",
				Usage:     "create a new SQL migration",
				ArgsUsage: "NAME",
				Action: func(c *cli.Context) error {
					name := c.Args().First()
					if name == "" {
						return errors.New("name is required for create")
					}
					if err := goose.Create(nil, c.String("dir"), name, "sql"); err != nil {
						return err
					}
					logger.Info("migration created", zap.String("name", name))
					return nil
				},
			},
		},
	}
}

func withDB(fn func(c *cli.Context, db *sql.DB) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		ctx := context.Background()
		pool, err := pgxpool.New(ctx, c.String("dsn"))
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer pool.Close()

		db := stdlib.OpenDBFromPool(pool)
		defer db.Close()

		if err := goose.SetDialect("postgres"); err != nil {
			return err
		}
		return fn(c, db)
	}
}
