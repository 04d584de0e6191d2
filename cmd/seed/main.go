package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"bookstore/internal/book"
	"bookstore/internal/config"
	"bookstore/internal/ingest"
	"bookstore/internal/platform/crypto"
	"bookstore/internal/user"
)

func main() {
	config.LoadEnvFiles()

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	app := &cli.App{
		Name:  "seed",
		Usage: "create demo sellers and book listings",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dsn", Value: config.DefaultDSN, EnvVars: []string{"DB_DSN"}},
			&cli.IntFlag{Name: "sellers", Value: 3, Usage: "number of seller accounts"},
			&cli.IntFlag{Name: "books", Value: 1000, Usage: "number of listings to generate"},
			&cli.StringFlag{Name: "password", Value: "password123", Usage: "password for every seeded seller"},
			&cli.Int64Flag{Name: "rand-seed", Value: 1, Usage: "seed for the title generator"},
		},
		Action: func(c *cli.Context) error {
			return seed(c.Context, logger, c.String("dsn"), c.Int("sellers"), c.Int("books"), c.String("password"), c.Int64("rand-seed"))
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Fatal("seed failed", zap.Error(err))
	}
}

func seed(ctx context.Context, logger *zap.Logger, dsn string, sellers, books int, password string, randSeed int64) error {
	if sellers < 1 {
		return errors.New("at least one seller is required")
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	users := user.NewService(user.NewPostgresRepo(pool, 5*time.Second))
	bookRepo := book.NewPostgresRepo(pool, time.Minute)

	hash, err := crypto.HashPassword(password)
	if err != nil {
		return err
	}

	sellerIDs := make([]int64, 0, sellers)
	for i := 1; i <= sellers; i++ {
		username := "seller" + strconv.Itoa(i)
		u, err := users.Register(ctx, username, username+"@example.com", hash, user.RoleSeller)
		if errors.Is(err, user.ErrAlreadyExists) {
			u, err = users.GetByEmail(ctx, username+"@example.com")
		}
		if err != nil {
			return fmt.Errorf("seller %s: %w", username, err)
		}
		sellerIDs = append(sellerIDs, u.ID)
	}
	logger.Info("sellers ready", zap.Int("count", len(sellerIDs)))

	existing, err := bookRepo.ExistingKeys(ctx)
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(randSeed))
	rows := generateRows(books, rng)

	var inserted int64
	for i, chunk := range splitRows(rows, len(sellerIDs)) {
		res := ingest.Deduplicate(existing, chunk, sellerIDs[i])
		if len(res.Accepted) == 0 {
			continue
		}
		n, err := bookRepo.CreateBatch(ctx, res.Accepted)
		if err != nil {
			return fmt.Errorf("insert books for seller %d: %w", sellerIDs[i], err)
		}
		for _, b := range res.Accepted {
			existing[b.Key()] = struct{}{}
		}
		inserted += n
	}

	logger.Info("books seeded", zap.Int64("inserted", inserted), zap.Int("generated", len(rows)))
	return nil
}
