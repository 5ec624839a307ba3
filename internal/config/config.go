// Package config defines claimmap's settings and loads them through viper
// from defaults, the config file, CLAIMMAP_* environment variables and flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"claimmap/internal/claims"
	"claimmap/internal/render"
	"claimmap/internal/view"
)

// EnvPrefix prefixes every environment override, e.g. CLAIMMAP_VIEW_MODE.
const EnvPrefix = "CLAIMMAP"

type Config struct {
	Source        string        `mapstructure:"source" yaml:"source"`
	BasePath      string        `mapstructure:"base_path" yaml:"base_path"`
	Basemap       string        `mapstructure:"basemap" yaml:"basemap"`
	Watch         bool          `mapstructure:"watch" yaml:"watch"`
	WatchInterval time.Duration `mapstructure:"watch_interval" yaml:"watch_interval"`
	MaxBytes      int64         `mapstructure:"max_bytes" yaml:"max_bytes"`
	HTTPTimeout   time.Duration `mapstructure:"http_timeout" yaml:"http_timeout"`
	CacheTTL      time.Duration `mapstructure:"cache_ttl" yaml:"cache_ttl"`

	Columns claims.Schema      `mapstructure:"columns" yaml:"columns"`
	View    ViewConfig         `mapstructure:"view" yaml:"view"`
	Heatmap render.HeatOptions `mapstructure:"heatmap" yaml:"heatmap"`
	Icons   []IconConfig       `mapstructure:"icons" yaml:"icons"`
	Log     LogConfig          `mapstructure:"log" yaml:"log"`
}

// ViewConfig holds the selections the viewer starts with.
type ViewConfig struct {
	Location string `mapstructure:"location" yaml:"location"`
	Category string `mapstructure:"category" yaml:"category"`
	Mode     string `mapstructure:"mode" yaml:"mode"`
}

// IconConfig assigns a marker icon to a category. Icons are a list rather
// than a map because category names contain dots.
type IconConfig struct {
	Category string `mapstructure:"category" yaml:"category"`
	Glyph    string `mapstructure:"glyph" yaml:"glyph"`
	Color    string `mapstructure:"color" yaml:"color"`
}

type LogConfig struct {
	File  string `mapstructure:"file" yaml:"file"`
	Level string `mapstructure:"level" yaml:"level"`
}

func Default() Config {
	return Config{
		Source:        "",
		WatchInterval: 500 * time.Millisecond,
		MaxBytes:      64 << 20,
		HTTPTimeout:   30 * time.Second,
		CacheTTL:      time.Minute,
		Columns:       claims.DefaultSchema(),
		View:          ViewConfig{Location: "event", Mode: "markers"},
		Heatmap:       render.DefaultHeat,
		Icons: []IconConfig{
			{Category: "A2.1", Glyph: "●", Color: "#EF4444"},
			{Category: "A3.1", Glyph: "●", Color: "#3B82F6"},
		},
		Log: LogConfig{
			File:  filepath.Join(os.TempDir(), "claimmap.log"),
			Level: "info",
		},
	}
}

// SetDefaults registers every scalar key so env overrides and Unmarshal see it.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("source", d.Source)
	v.SetDefault("base_path", d.BasePath)
	v.SetDefault("basemap", d.Basemap)
	v.SetDefault("watch", d.Watch)
	v.SetDefault("watch_interval", d.WatchInterval)
	v.SetDefault("max_bytes", d.MaxBytes)
	v.SetDefault("http_timeout", d.HTTPTimeout)
	v.SetDefault("cache_ttl", d.CacheTTL)

	v.SetDefault("columns.id", d.Columns.ID)
	v.SetDefault("columns.event_date", d.Columns.EventDate)
	v.SetDefault("columns.event_location", d.Columns.EventLocation)
	v.SetDefault("columns.claimant_location", d.Columns.ClaimantLocation)
	v.SetDefault("columns.event_lat", d.Columns.EventLat)
	v.SetDefault("columns.event_lon", d.Columns.EventLon)
	v.SetDefault("columns.claimant_lat", d.Columns.ClaimantLat)
	v.SetDefault("columns.claimant_lon", d.Columns.ClaimantLon)

	v.SetDefault("view.location", d.View.Location)
	v.SetDefault("view.category", d.View.Category)
	v.SetDefault("view.mode", d.View.Mode)
	v.SetDefault("heatmap.radius", d.Heatmap.Radius)
	v.SetDefault("heatmap.blur", d.Heatmap.Blur)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.level", d.Log.Level)
}

// BindEnv wires CLAIMMAP_* variables, mapping nested keys with underscores.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load decodes v over the defaults and validates the view selections.
func Load(v *viper.Viper) (Config, error) {
	cfg := Default()
	if v.IsSet("icons") {
		cfg.Icons = nil // replace the built-in list rather than merge into it
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.Columns = cfg.Columns.WithDefaults()
	if _, err := cfg.InitialState(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// IconSet builds the renderer's icon table.
func (c Config) IconSet() render.IconSet {
	byCat := make(map[string]render.Icon, len(c.Icons))
	for _, ic := range c.Icons {
		if ic.Category == "" {
			continue
		}
		byCat[ic.Category] = render.Icon{Glyph: ic.Glyph, Color: ic.Color}
	}
	return render.NewIconSet(render.DefaultIcon, byCat)
}

// InitialState parses the configured view selections.
func (c Config) InitialState() (view.State, error) {
	loc, err := claims.ParseLocationType(c.View.Location)
	if err != nil {
		return view.State{}, fmt.Errorf("view.location: %w", err)
	}
	mode, err := render.ParseMode(c.View.Mode)
	if err != nil {
		return view.State{}, fmt.Errorf("view.mode: %w", err)
	}
	return view.State{Location: loc, Category: c.View.Category, Mode: mode}, nil
}

// DefaultPath is $HOME/.claimmap/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("find home directory: %w", err)
	}
	return filepath.Join(home, ".claimmap", "config.yaml"), nil
}
