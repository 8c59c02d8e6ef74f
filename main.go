package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/slovosled/internal/config"
	"github.com/robalobadob/slovosled/internal/cracker"
	"github.com/robalobadob/slovosled/internal/daily"
	"github.com/robalobadob/slovosled/internal/httpserver"
	"github.com/robalobadob/slovosled/internal/puzzle"
	"github.com/robalobadob/slovosled/internal/solver"
	"github.com/robalobadob/slovosled/internal/store"
)

const tokenTTL = 7 * 24 * time.Hour

func main() {
	_ = godotenv.Load()
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	zerolog.SetGlobalLevel(cfg.LogLevel)
	if cfg.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	}

	// slovosled token [subject]
	if len(os.Args) > 1 && os.Args[1] == "token" {
		subject := "status"
		if len(os.Args) > 2 {
			subject = os.Args[2]
		}
		tok, exp, err := httpserver.SignToken(cfg.StatusJWTSecret, subject, tokenTTL)
		if err != nil {
			log.Fatal().Err(err).Msg("sign token (is STATUS_JWT_SECRET set?)")
		}
		log.Info().Str("subject", subject).Time("expires", exp).Msg("signed status token")
		fmt.Println(tok)
		return
	}

	if err := run(cfg); err != nil {
		log.Fatal().Err(err).Msg("solving failed")
	}
}

// run solves one puzzle. Deferred cleanup completes before main exits on error.
func run(cfg *config.Config) error {
	p, err := puzzle.Load(cfg.PuzzleFile)
	if err != nil {
		return fmt.Errorf("load puzzle %q: %w", cfg.PuzzleFile, err)
	}
	day := daily.DateKey(time.Now())
	if p.Date != "" {
		day = p.Date
	}
	log.Info().
		Str("date", day).
		Strs("grid", p.Grid.Letters()).
		Str("bonus", p.Bonus.Pattern).
		Str("rule", p.Bonus.Rule.String()).
		Int("hashes", len(p.Hashes)).
		Msg("loaded puzzle")

	spill, err := store.Open(filepath.Join(cfg.DataDir, day),
		store.Threshold(cfg.SpillThreshold),
		store.Compress(cfg.SpillCompression),
		store.Logger(log.Logger),
	)
	if err != nil {
		return fmt.Errorf("open spill store: %w", err)
	}

	cr := cracker.New(cfg.Algorithm,
		cracker.Workers(cfg.Workers),
		cracker.FanOutDepth(cfg.FanOutDepth),
		cracker.Lengths(cfg.MinLength, cfg.MaxLength),
		cracker.Logger(log.Logger),
	)

	s := solver.New(solver.Config{
		Puzzle:          p,
		Store:           spill,
		Cracker:         cr,
		PoolMinWords:    cfg.PoolMinWords,
		PoolMaxWords:    cfg.PoolMaxWords,
		CombinationSize: cfg.CombinationSize,
		WordsCacheFile:  cfg.WordsCacheFile,
		Logger:          log.Logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.StatusAddr != "" {
		srv := httpserver.New(s, cfg.StatusJWTSecret)
		go func() {
			if err := srv.Start(cfg.StatusAddr); err != nil {
				log.Error().Err(err).Msg("status server exited")
			}
		}()
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(sctx)
		}()
	}

	res, err := s.Run(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", s.Snapshot(), err)
	}
	if len(res.Words) == 0 {
		log.Warn().Msg("no playable word combination")
		return nil
	}
	log.Info().
		Int("score", res.Score).
		Strs("words", res.Words).
		Str("selections", store.EncodeSelectionCombination(res.Indices, res.Selections)).
		Msg("best game")
	return nil
}
