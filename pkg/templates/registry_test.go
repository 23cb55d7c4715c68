package templates

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryLoadAndRender(t *testing.T) {
	fsys := fstest.MapFS{
		"insights/sample.tmpl": {Data: []byte("{{ join .Signals \" + \" }} fired {{ plural .Count \"pair\" }}\n")},
		"insights/README.md":   {Data: []byte("ignored")},
	}

	reg, err := NewRegistryFromFS(fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{"insights/sample"}, reg.List())

	out, err := reg.Render("insights/sample", map[string]any{
		"Signals": []string{"WIN_RATE", "ACCURACY"},
		"Count":   2,
	})
	require.NoError(t, err)
	assert.Equal(t, "WIN_RATE + ACCURACY fired 2 pairs", out)
}

func TestRegistryMissingTemplate(t *testing.T) {
	reg, err := NewRegistryFromFS(fstest.MapFS{})
	require.NoError(t, err)

	_, err = reg.Render("insights/nope", nil)
	assert.Error(t, err)
	assert.False(t, reg.Has("insights/nope"))
}

func TestRegistryParseError(t *testing.T) {
	_, err := NewRegistryFromFS(fstest.MapFS{
		"broken.tmpl": {Data: []byte("{{ .Unclosed ")},
	})
	assert.Error(t, err)
}

func TestRegistryMissingKeyFails(t *testing.T) {
	reg, err := NewRegistryFromFS(fstest.MapFS{})
	require.NoError(t, err)
	require.NoError(t, reg.Add("x", "{{ .Absent }}"))

	_, err = reg.Render("x", map[string]any{})
	assert.Error(t, err)
}

func TestEmbeddedInsightsPresent(t *testing.T) {
	reg := Get()
	for _, id := range []string{
		"insights/default",
		"insights/performance_outliers",
		"insights/insider_pattern",
		"insights/sybil_coordination",
		"insights/fresh_wallet_activity",
		"insights/behavioral_consistency",
		"insights/network_coordination",
		"insights/market_targeting",
	} {
		assert.True(t, reg.Has(id), id)
	}
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "12.5", Fixed(12.5, 1))
	assert.Equal(t, "70", Fixed(69.6, 0))
	assert.Equal(t, "1 pair", Plural(1, "pair"))
	assert.Equal(t, "0 pairs", Plural(0, "pair"))
}
