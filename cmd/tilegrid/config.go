package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config is the editor configuration, read from a TOML file and overridden
// by flags.
type Config struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`

	CellSize      int     `toml:"cell_size"`
	GridLineWidth float32 `toml:"grid_line_width"`
	Smoothing     bool    `toml:"smoothing"`
	Zoom          float64 `toml:"zoom"`

	// TileSet is the tile-set image path.
	TileSet string `toml:"tileset"`
	// Map is the document the map pane opens and saves to.
	Map string `toml:"map"`
	// Columns and Rows size a new map when Map does not exist yet.
	Columns int `toml:"columns"`
	Rows    int `toml:"rows"`

	SnapshotDir string `toml:"snapshot_dir"`
	Script      string `toml:"script"`
	Watch       bool   `toml:"watch"`
	Debug       bool   `toml:"debug"`
	ShowFPS     bool   `toml:"show_fps"`
}

func defaultConfig() Config {
	return Config{
		Title:       "Tile Grid Editor",
		Width:       1280,
		Height:      720,
		CellSize:    16,
		Zoom:        2,
		Columns:     20,
		Rows:        15,
		SnapshotDir: "snapshots",
		Map:         "map.json",
	}
}

// loadConfig layers the file at path over the defaults. Unknown keys are
// logged, not rejected.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		slog.Warn("unknown config keys", "path", path, "keys", strings.Join(keys, ", "))
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("config: window size %dx%d", c.Width, c.Height)
	case c.CellSize <= 0:
		return fmt.Errorf("config: cell_size %d", c.CellSize)
	case c.Zoom <= 0:
		return fmt.Errorf("config: zoom %v", c.Zoom)
	case c.Columns <= 0 || c.Rows <= 0:
		return fmt.Errorf("config: map size %dx%d", c.Columns, c.Rows)
	}
	return nil
}
