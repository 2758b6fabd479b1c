// Package main seeds a development database with a small roster and one
// night of plausible scores, so the leaderboard has something to show.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"strconv"

	"github.com/pantheon-trivia/pantheon-hub/config"
	"github.com/pantheon-trivia/pantheon-hub/internal/application/command"
	"github.com/pantheon-trivia/pantheon-hub/internal/domain/player"
	"github.com/pantheon-trivia/pantheon-hub/internal/domain/result"
	"github.com/pantheon-trivia/pantheon-hub/internal/infrastructure/persistence/postgres"
	"github.com/pantheon-trivia/pantheon-hub/pkg/logger"
	"github.com/pantheon-trivia/pantheon-hub/pkg/timeutil"
)

// seedNames is the demo roster.
var seedNames = []string{
	"Zeus",
	"Hera",
	"Poseidon",
	"Athena",
	"Apollo",
	"Artemis",
	"Hermes",
	"Ares",
}

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "seed failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.Default()

	dbConn, err := postgres.NewConnection(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer dbConn.Close()

	migrator := postgres.NewMigrator(dbConn)
	if err := migrator.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	playerRepo := postgres.NewPlayerRepository(dbConn)
	resultRepo := postgres.NewResultRepository(dbConn)
	directory := player.NewDirectory(playerRepo)
	submit := command.NewSubmitResultsHandler(directory, resultRepo, nil, log)

	date, err := result.ParseQuizDate(timeutil.TodayString())
	if err != nil {
		return err
	}

	// Strong-but-spread scores in the 30-40 band, through the same pipeline
	// the entry form uses.
	entries := make([]command.Entry, 0, len(seedNames))
	for _, name := range seedNames {
		score := 30 + rand.Intn(11)
		entries = append(entries, command.Entry{
			Name:     name,
			RawScore: strconv.Itoa(score),
		})
	}

	out, err := submit.Handle(ctx, command.SubmitResultsCommand{
		QuizDate: date,
		Entries:  entries,
	})
	if err != nil {
		return fmt.Errorf("seed submit failed: %w", err)
	}

	log.Info("seed complete",
		logger.QuizDate(date.String()),
		logger.ResultCount(out.SavedCount()),
	)
	return nil
}
