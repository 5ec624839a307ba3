package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"claimmap/internal/claims"
	"claimmap/internal/render"
)

func newViper(t *testing.T, doc string) *viper.Viper {
	t.Helper()
	v := viper.New()
	SetDefaults(v)
	BindEnv(v)
	if doc != "" {
		v.SetConfigType("yaml")
		require.NoError(t, v.ReadConfig(strings.NewReader(doc)))
	}
	return v
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(newViper(t, ""))
	require.NoError(t, err)
	assert.Equal(t, claims.DefaultSchema(), cfg.Columns)
	assert.Equal(t, 500*time.Millisecond, cfg.WatchInterval)
	assert.Len(t, cfg.Icons, 2)

	st, err := cfg.InitialState()
	require.NoError(t, err)
	assert.Equal(t, claims.Event, st.Location)
	assert.Equal(t, render.Markers, st.Mode)
	assert.Empty(t, st.Category)
}

func TestLoadFileOverrides(t *testing.T) {
	doc := `
source: https://example.org/claims.csv
watch_interval: 2s
columns:
  id: Ref
view:
  location: claimant
  category: A3.1
heatmap:
  radius: 3
icons:
  - category: B1
    color: "#00FF00"
`
	cfg, err := Load(newViper(t, doc))
	require.NoError(t, err)
	assert.Equal(t, "https://example.org/claims.csv", cfg.Source)
	assert.Equal(t, 2*time.Second, cfg.WatchInterval)
	assert.Equal(t, "Ref", cfg.Columns.ID)
	assert.Equal(t, "EventDate", cfg.Columns.EventDate, "unset columns keep defaults")
	assert.Equal(t, 3, cfg.Heatmap.Radius)
	assert.Equal(t, render.DefaultHeat.Blur, cfg.Heatmap.Blur)

	require.Len(t, cfg.Icons, 1)
	set := cfg.IconSet()
	ic, ok := set.For("B1")
	assert.True(t, ok)
	assert.Equal(t, "#00FF00", ic.Color)
	assert.Equal(t, render.DefaultIcon.Glyph, ic.Glyph)
	_, ok = set.For("A2.1")
	assert.False(t, ok)

	st, err := cfg.InitialState()
	require.NoError(t, err)
	assert.Equal(t, claims.Claimant, st.Location)
	assert.Equal(t, "A3.1", st.Category)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("CLAIMMAP_VIEW_MODE", "heatmap")
	t.Setenv("CLAIMMAP_MAX_BYTES", "1024")
	cfg, err := Load(newViper(t, ""))
	require.NoError(t, err)
	assert.Equal(t, "heatmap", cfg.View.Mode)
	assert.EqualValues(t, 1024, cfg.MaxBytes)
}

func TestLoadRejectsBadSelections(t *testing.T) {
	_, err := Load(newViper(t, "view:\n  mode: pins\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "view.mode")

	_, err = Load(newViper(t, "view:\n  location: home\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "view.location")
}

func TestDefaultRoundTripsThroughYAML(t *testing.T) {
	out, err := yaml.Marshal(Default())
	require.NoError(t, err)
	assert.Contains(t, string(out), "watch_interval: 500ms")

	cfg, err := Load(newViper(t, string(out)))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}
