package config

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/slovosled/internal/cracker"
	"github.com/robalobadob/slovosled/internal/store"
)

var keys = []string{
	"LOG_LEVEL", "LOG_FORMAT", "PUZZLE_FILE", "DATA_DIR", "DIGEST_ALGORITHM",
	"CRACK_WORKERS", "CRACK_FANOUT_DEPTH", "CRACK_MIN_LENGTH", "CRACK_MAX_LENGTH",
	"SPILL_THRESHOLD", "SPILL_COMPRESSION", "POOL_MIN_WORDS", "POOL_MAX_WORDS",
	"COMBINATION_SIZE", "WORDS_CACHE_FILE", "STATUS_ADDR", "STATUS_JWT_SECRET",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestDefaults(t *testing.T) {
	clearEnv(t)
	c, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, zerolog.InfoLevel, c.LogLevel)
	assert.Equal(t, "json", c.LogFormat)
	assert.Equal(t, "./data", c.DataDir)
	assert.Equal(t, cracker.DefaultAlgorithm, c.Algorithm.Name)
	assert.Equal(t, 100, c.Workers)
	assert.Equal(t, 6, c.FanOutDepth)
	assert.Equal(t, 3, c.MinLength)
	assert.Equal(t, 12, c.MaxLength)
	assert.Equal(t, 1_000_000, c.SpillThreshold)
	assert.Equal(t, store.CompressionNone, c.SpillCompression)
	assert.Equal(t, 40, c.PoolMinWords)
	assert.Equal(t, 50, c.PoolMaxWords)
	assert.Equal(t, 5, c.CombinationSize)
	assert.Empty(t, c.StatusAddr)
}

func TestOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "console")
	t.Setenv("DIGEST_ALGORITHM", "BLAKE2B-256")
	t.Setenv("CRACK_WORKERS", "15")
	t.Setenv("SPILL_COMPRESSION", "zstd")
	t.Setenv("STATUS_ADDR", ":8080")

	c, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, c.LogLevel)
	assert.Equal(t, "console", c.LogFormat)
	assert.Equal(t, "blake2b-256", c.Algorithm.Name)
	assert.Equal(t, 15, c.Workers)
	assert.Equal(t, store.CompressionZstd, c.SpillCompression)
	assert.Equal(t, ":8080", c.StatusAddr)
}

func TestInvalid(t *testing.T) {
	cases := map[string][2]string{
		"unknown algorithm": {"DIGEST_ALGORITHM", "md5"},
		"non-numeric":       {"CRACK_WORKERS", "many"},
		"zero workers":      {"CRACK_WORKERS", "0"},
		"compression":       {"SPILL_COMPRESSION", "lz4"},
		"log level":         {"LOG_LEVEL", "loud"},
		"log format":        {"LOG_FORMAT", "xml"},
		"length range":      {"CRACK_MAX_LENGTH", "2"},
		"pool range":        {"POOL_MAX_WORDS", "10"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(kv[0], kv[1])
			_, err := FromEnv()
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}

	clearEnv(t)
	t.Setenv("DIGEST_ALGORITHM", "md5")
	_, err := FromEnv()
	assert.ErrorIs(t, err, cracker.ErrUnknownAlgorithm)
}
