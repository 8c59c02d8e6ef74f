package puzzle

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/slovosled/internal/game"
)

func TestLoadEmbeddedSample(t *testing.T) {
	p, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, []string{"V", "F", "E", "L", "U", "Y", "P", "Š", "U", "A", "H", "I"}, p.Grid.Letters())
	assert.Equal(t, game.Bonus{Pattern: "3301", Value: 15, Text: "Slovo začínajúce spoluhláskou", Rule: game.RuleFirstConsonant}, p.Bonus)
	assert.Len(t, p.Targets(), 8)
	assert.Contains(t, p.Targets(), "c3a7c008f0fa9ce55654e286dfd57cf53878949d61a52e97194cebf964b322f4")
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.json")
	raw := `{"grid":[{"letter":"š","value":2,"usageCount":1},{"letter":"a","value":1,"usageCount":0}],
		"bonus":{"pattern":"0000","value":3,"text":"","index":2},
		"hashes":[" ABCD "]}`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, game.Tile{Letter: "Š", Value: 2, UsageCount: 1}, p.Grid[0])
	assert.Equal(t, map[string]struct{}{"abcd": {}}, p.Targets())

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestParseInvalid(t *testing.T) {
	const bonus = `"bonus":{"pattern":"3301","value":15,"index":4}`
	cases := map[string]string{
		"empty grid":    `{"grid":[],` + bonus + `,"hashes":["ab"]}`,
		"two letters":   `{"grid":[{"letter":"AB","value":1}],` + bonus + `,"hashes":["ab"]}`,
		"zero value":    `{"grid":[{"letter":"A","value":0}],` + bonus + `,"hashes":["ab"]}`,
		"no hashes":     `{"grid":[{"letter":"A","value":1}],` + bonus + `,"hashes":[""]}`,
		"illegal rule":  `{"grid":[{"letter":"A","value":1}],"bonus":{"pattern":"3301","value":1,"index":9},"hashes":["ab"]}`,
		"short pattern": `{"grid":[{"letter":"A","value":1}],"bonus":{"pattern":"33","value":1,"index":0},"hashes":["ab"]}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(raw))
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}

	_, err := Parse([]byte(`{"grid":[],"extra":1}`))
	assert.Error(t, err)

	_, err = Parse([]byte(`{"grid":[{"letter":"A","value":1}],"bonus":{"pattern":"3301","value":1,"index":9},"hashes":["ab"]}`))
	assert.ErrorIs(t, err, game.ErrIllegalRule)
}
