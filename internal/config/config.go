// internal/config/config.go
//
// Process configuration read from the environment (after godotenv has loaded .env).
//
// Environment variables (defaults in parentheses):
//   LOG_LEVEL (info), LOG_FORMAT (json | console)
//   PUZZLE_FILE (embedded sample), DATA_DIR (./data)
//   DIGEST_ALGORITHM (sha256 | sha3-256 | blake2b-256)
//   CRACK_WORKERS (100), CRACK_FANOUT_DEPTH (6), CRACK_MIN_LENGTH (3), CRACK_MAX_LENGTH (12)
//   SPILL_THRESHOLD (1000000), SPILL_COMPRESSION (none | zstd)
//   POOL_MIN_WORDS (40), POOL_MAX_WORDS (50), COMBINATION_SIZE (5)
//   WORDS_CACHE_FILE (unset: always crack)
//   STATUS_ADDR (unset: no status server), STATUS_JWT_SECRET (unset: open status routes)
//
// Any malformed or out-of-range value is an ErrInvalid error; main treats it as fatal.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/robalobadob/slovosled/internal/cracker"
	"github.com/robalobadob/slovosled/internal/selection"
	"github.com/robalobadob/slovosled/internal/store"
	"github.com/robalobadob/slovosled/internal/words"
)

// ErrInvalid wraps every configuration error.
var ErrInvalid = errors.New("config: invalid value")

// Config is the full process configuration.
type Config struct {
	LogLevel  zerolog.Level
	LogFormat string

	PuzzleFile string
	DataDir    string

	Algorithm   cracker.Algorithm
	Workers     int
	FanOutDepth int
	MinLength   int
	MaxLength   int

	SpillThreshold   int
	SpillCompression store.Compression

	PoolMinWords    int
	PoolMaxWords    int
	CombinationSize int
	WordsCacheFile  string

	StatusAddr      string
	StatusJWTSecret string
}

// FromEnv reads and validates the configuration.
func FromEnv() (*Config, error) {
	c := &Config{
		LogFormat:       getEnv("LOG_FORMAT", "json"),
		PuzzleFile:      os.Getenv("PUZZLE_FILE"),
		DataDir:         getEnv("DATA_DIR", "./data"),
		WordsCacheFile:  os.Getenv("WORDS_CACHE_FILE"),
		StatusAddr:      os.Getenv("STATUS_ADDR"),
		StatusJWTSecret: os.Getenv("STATUS_JWT_SECRET"),
	}
	var err error

	if c.LogLevel, err = zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err != nil {
		return nil, fmt.Errorf("%w: LOG_LEVEL: %v", ErrInvalid, err)
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		return nil, fmt.Errorf("%w: LOG_FORMAT %q", ErrInvalid, c.LogFormat)
	}

	if c.Algorithm, err = cracker.Lookup(getEnv("DIGEST_ALGORITHM", cracker.DefaultAlgorithm)); err != nil {
		return nil, fmt.Errorf("%w: DIGEST_ALGORITHM: %w", ErrInvalid, err)
	}

	ints := []struct {
		key string
		def int
		min int
		dst *int
	}{
		{"CRACK_WORKERS", cracker.DefaultWorkers, 1, &c.Workers},
		{"CRACK_FANOUT_DEPTH", cracker.DefaultFanOutDepth, 1, &c.FanOutDepth},
		{"CRACK_MIN_LENGTH", cracker.DefaultMinLength, 1, &c.MinLength},
		{"CRACK_MAX_LENGTH", cracker.DefaultMaxLength, 1, &c.MaxLength},
		{"SPILL_THRESHOLD", store.DefaultThreshold, 1, &c.SpillThreshold},
		{"POOL_MIN_WORDS", words.DefaultMinWords, 1, &c.PoolMinWords},
		{"POOL_MAX_WORDS", words.DefaultMaxWords, 1, &c.PoolMaxWords},
		{"COMBINATION_SIZE", selection.DefaultSize, 1, &c.CombinationSize},
	}
	for _, v := range ints {
		if *v.dst, err = envInt(v.key, v.def, v.min); err != nil {
			return nil, err
		}
	}
	if c.MaxLength < c.MinLength {
		return nil, fmt.Errorf("%w: CRACK_MAX_LENGTH %d below CRACK_MIN_LENGTH %d", ErrInvalid, c.MaxLength, c.MinLength)
	}
	if c.PoolMaxWords < c.PoolMinWords {
		return nil, fmt.Errorf("%w: POOL_MAX_WORDS %d below POOL_MIN_WORDS %d", ErrInvalid, c.PoolMaxWords, c.PoolMinWords)
	}

	c.SpillCompression = store.Compression(strings.ToLower(getEnv("SPILL_COMPRESSION", string(store.CompressionNone))))
	switch c.SpillCompression {
	case store.CompressionNone, store.CompressionZstd:
	default:
		return nil, fmt.Errorf("%w: SPILL_COMPRESSION %q", ErrInvalid, c.SpillCompression)
	}
	return c, nil
}

func getEnv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func envInt(k string, def, min int) (int, error) {
	v := getEnv(k, "")
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", ErrInvalid, k, v)
	}
	if n < min {
		return 0, fmt.Errorf("%w: %s=%d below %d", ErrInvalid, k, n, min)
	}
	return n, nil
}
