// Command tilegrid is a desktop tile-map editor. The left pane shows a tile
// set; drag a selection there to pick a brush, then paint on the map pane.
//
// Keys:
//
//	1 2 3   paint into the Background, Zero or Foreground slot
//	G       toggle the grid ruling
//	S       save the map document
//	E       export a clean PNG snapshot of the map
//	P       play the map as a scene, or return to editing
package main

import (
	"context"
	"errors"
	"flag"
	"image"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/tilegrid"
	"github.com/phanxgames/tilegrid/ebitenhost"
)

const paneGap = 16

func main() {
	var (
		configPath = flag.String("config", "", "TOML configuration file")
		mapPath    = flag.String("map", "", "map document to open and save")
		tilesetURL = flag.String("tileset", "", "tile-set image")
		scriptPath = flag.String("script", "", "pointer script to replay on the map pane")
		debug      = flag.Bool("debug", false, "log per-frame paint stats")
		watch      = flag.Bool("watch", false, "reload the map document when it changes on disk")
	)
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}
	if *mapPath != "" {
		cfg.Map = *mapPath
	}
	if *tilesetURL != "" {
		cfg.TileSet = *tilesetURL
	}
	if *scriptPath != "" {
		cfg.Script = *scriptPath
	}
	cfg.Debug = cfg.Debug || *debug
	cfg.Watch = cfg.Watch || *watch

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := run(context.Background(), cfg, logger); err != nil {
		logger.Error("tilegrid exited", "err", err)
		os.Exit(1)
	}
}

type editor struct {
	cfg     Config
	logger  *slog.Logger
	host    *ebitenhost.Host
	tileset *tilegrid.TileSet
	tilemap *tilegrid.TileMap
	scene   *tilegrid.Scene

	mapPane   *ebitenhost.Pane
	scenePane *ebitenhost.Pane
}

func run(ctx context.Context, cfg Config, logger *slog.Logger) error {
	cellSize := image.Pt(cfg.CellSize, cfg.CellSize)
	base := tilegrid.Options{
		Logger:         logger,
		Debug:          cfg.Debug,
		ImageSmoothing: cfg.Smoothing,
		Scale:          cfg.Zoom,
		CellSize:       cellSize,
		GridLineWidth:  cfg.GridLineWidth,
	}
	ed := &editor{cfg: cfg, logger: logger}

	x := paneGap
	if cfg.TileSet != "" {
		opts := base
		opts.Surface = tilegrid.NewSurface(1, 1)
		opts.Size = cellSize
		ts, err := tilegrid.NewTileSet(ctx, tilegrid.TileSetOptions{Options: opts, ImageURL: cfg.TileSet})
		if err != nil {
			return err
		}
		ed.tileset = ts
	}

	opts := base
	opts.Surface = tilegrid.NewSurface(1, 1)
	opts.Size = image.Pt(cfg.Columns*cfg.CellSize, cfg.Rows*cfg.CellSize)
	tmOpts := tilegrid.TileMapOptions{Options: opts}
	if _, err := os.Stat(cfg.Map); err == nil {
		tmOpts.MetadataURL = cfg.Map
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	tm, err := tilegrid.NewTileMap(ctx, tmOpts)
	if err != nil {
		return err
	}
	ed.tilemap = tm

	sceneOpts := base
	sceneOpts.Surface = tilegrid.NewSurface(1, 1)
	sceneOpts.Size = opts.Size
	scene, err := tilegrid.NewScene(ctx, sceneOpts)
	if err != nil {
		return err
	}
	ed.scene = scene

	if cfg.Script != "" {
		data, err := os.ReadFile(cfg.Script)
		if err != nil {
			return err
		}
		script, err := tilegrid.LoadPointerScript(data)
		if err != nil {
			return err
		}
		tm.SetScript(script)
	}

	ed.host = ebitenhost.New(ebitenhost.RunConfig{
		Title:     cfg.Title,
		Width:     cfg.Width,
		Height:    cfg.Height,
		Resizable: true,
		ShowFPS:   cfg.ShowFPS,
	})
	if ed.tileset != nil {
		p := ed.host.AddPane(ed.tileset.Canvas, x, paneGap)
		x += p.Bounds().Dx() + paneGap
		ed.tileset.OnPick(func(tiles map[tilegrid.Cell]tilegrid.RenderedObject) {
			ed.tilemap.Brush().SetTiles(tiles)
			logger.Debug("brush picked", "component", "editor", "tiles", len(tiles))
		})
	}
	ed.mapPane = ed.host.AddPane(tm.Canvas, x, paneGap)
	ed.scenePane = ed.host.AddPane(scene.Canvas, x, paneGap)
	ed.scenePane.Hidden = true
	ed.scenePane.Update = scene.Update

	ed.bindKeys()

	stop := make(chan struct{})
	defer close(stop)
	if cfg.Watch {
		changed, err := watchFile(cfg.Map, stop)
		if err != nil {
			return err
		}
		ed.host.SetUpdateFunc(func() error {
			select {
			case <-changed:
				ed.reload(ctx)
			default:
			}
			return nil
		})
	}

	return ebitenhost.Run(ed.host)
}

func (ed *editor) bindKeys() {
	depths := map[ebiten.Key]tilegrid.Depth{
		ebiten.Key1: tilegrid.DepthBackground,
		ebiten.Key2: tilegrid.DepthZero,
		ebiten.Key3: tilegrid.DepthForeground,
	}
	for key, d := range depths {
		ed.host.OnKey(key, func() {
			if err := ed.tilemap.Brush().SetDepth(d); err != nil {
				ed.logger.Error("set depth", "err", err)
				return
			}
			ed.logger.Info("brush depth", "component", "editor", "depth", d)
		})
	}
	ed.host.OnKey(ebiten.KeyG, func() {
		g := ed.tilemap.Grid()
		g.SetGridHidden(!g.GridHidden())
	})
	ed.host.OnKey(ebiten.KeyS, ed.save)
	ed.host.OnKey(ebiten.KeyE, ed.export)
	ed.host.OnKey(ebiten.KeyP, ed.togglePlay)
}

func (ed *editor) save() {
	doc := ed.tilemap.Save()
	tmp := ed.cfg.Map + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		ed.logger.Error("save map", "path", ed.cfg.Map, "err", err)
		return
	}
	err = doc.Encode(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmp, ed.cfg.Map)
	}
	if err != nil {
		os.Remove(tmp)
		ed.logger.Error("save map", "path", ed.cfg.Map, "err", err)
		return
	}
	ed.logger.Info("map saved", "component", "editor", "path", ed.cfg.Map, "cells", len(doc.Cells))
}

func (ed *editor) export() {
	label := filepath.Base(ed.cfg.Map)
	path, err := ed.tilemap.SaveSnapshot(ed.cfg.SnapshotDir, label, true)
	if err != nil {
		ed.logger.Error("export map", "err", err)
		return
	}
	ed.logger.Info("map exported", "component", "editor", "path", path)
}

func (ed *editor) togglePlay() {
	if ed.scene.Running() {
		ed.scene.Pause()
		ed.scenePane.Hidden = true
		ed.mapPane.Hidden = false
		ed.tilemap.RequestRender()
		return
	}
	ed.scene.UpdateTileMap(ed.tilemap.Grid())
	ed.scene.Play()
	ed.scenePane.Hidden = false
	ed.mapPane.Hidden = true
}

// reload reopens the map document after an external change.
func (ed *editor) reload(ctx context.Context) {
	if err := ed.tilemap.UpdateMetadataURL(ctx, ed.cfg.Map); err != nil {
		ed.logger.Error("reload map", "path", ed.cfg.Map, "err", err)
		return
	}
	ed.logger.Info("map reloaded", "component", "editor", "path", ed.cfg.Map)
}
