package tilegrid

import (
	"context"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtensionIdempotent(t *testing.T) {
	once, err := Tileable(Base)
	require.NoError(t, err)

	twice, err := Tileable(once)
	require.NoError(t, err)

	assert.Same(t, once, twice)
	assert.Equal(t, []Capability{CapCanvas, CapGrid}, twice.Markers())
	assert.Same(t, Base, once.Parent())
}

func TestExtensionRequiresPrerequisite(t *testing.T) {
	for name, ext := range map[string]Extension{
		"hover":   Hoverable,
		"draw":    Drawable,
		"persist": Savable,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ext(Base)
			assert.ErrorIs(t, err, ErrMissingCapability)
		})
	}

	_, err := Selectable(nil)
	assert.ErrorIs(t, err, ErrMissingCapability)
}

func TestBuilderOrderIndependent(t *testing.T) {
	a, err := NewBuilder().Savable().Drawable().Tileable().Selectable().Build()
	require.NoError(t, err)
	b, err := NewBuilder().Selectable().Tileable().Drawable().Savable().Build()
	require.NoError(t, err)

	want := []Capability{CapCanvas, CapSelect, CapGrid, CapDraw, CapPersist}
	assert.Equal(t, want, a.Markers())
	assert.Equal(t, want, b.Markers())
}

func TestBuilderMissingPrerequisite(t *testing.T) {
	_, err := NewBuilder().Hoverable().Build()
	assert.ErrorIs(t, err, ErrMissingCapability)

	assert.Panics(t, func() { NewBuilder().Drawable().MustBuild() })
}

func TestBuilderEmptyIsBase(t *testing.T) {
	k, err := NewBuilder().Build()
	require.NoError(t, err)
	assert.Same(t, Base, k)
}

func TestEditorClasses(t *testing.T) {
	assert.Equal(t, []Capability{CapCanvas, CapSelect, CapResize, CapGrid, CapHover}, TileSetClass.Markers())
	assert.Equal(t,
		[]Capability{CapCanvas, CapSelect, CapResize, CapGrid, CapHover, CapDraw, CapPersist},
		TileMapClass.Markers())
	assert.True(t, TileMapClass.Has(CapPersist))
	assert.False(t, TileSetClass.Has(CapDraw))
}

func TestMarkersAreCopies(t *testing.T) {
	m := TileMapClass.Markers()
	m[0] = "mutated"
	assert.Equal(t, CapCanvas, TileMapClass.Markers()[0])
}

func TestCapabilityAccessors(t *testing.T) {
	base := Base.New()
	assert.Nil(t, base.Grid())
	assert.Nil(t, base.Selector())
	assert.Nil(t, base.Zoom())
	assert.Nil(t, base.Hover())
	assert.Nil(t, base.Brush())
	assert.Nil(t, base.Store())

	full := TileMapClass.New()
	assert.NotNil(t, full.Grid())
	assert.NotNil(t, full.Selector())
	assert.NotNil(t, full.Zoom())
	assert.NotNil(t, full.Hover())
	assert.NotNil(t, full.Brush())
	assert.NotNil(t, full.Store())
	assert.True(t, full.Has(CapHover))
	assert.Same(t, TileMapClass, full.Class())
}

func TestLifecycle(t *testing.T) {
	ctx := context.Background()
	c := TileMapClass.New()
	assert.False(t, c.Initialized())
	assert.False(t, c.Frame(), "Frame before Init")

	err := c.Init(ctx)
	assert.ErrorIs(t, err, ErrNotInitialized)

	require.NoError(t, c.ApplyOptions(Options{Surface: NewSurface(32, 32), Logger: quietLogger()}))
	assert.Error(t, c.ApplyOptions(Options{Surface: NewSurface(32, 32)}), "second ApplyOptions")

	require.NoError(t, c.Init(ctx))
	assert.True(t, c.Initialized())
	assert.True(t, c.Pending(), "Init schedules the first paint")
}

func TestApplyOptionsValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"no surface", Options{}},
		{"negative cell size", Options{Surface: NewSurface(8, 8), CellSize: image.Pt(-1, 16)}},
		{"negative line width", Options{Surface: NewSurface(8, 8), GridLineWidth: -1}},
		{"invalid visible layer", Options{Surface: NewSurface(8, 8), VisibleLayers: []Depth{DepthZero, 7}}},
		{"invalid brush depth", Options{Surface: NewSurface(8, 8), Depth: 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := TileMapClass.New()
			assert.Error(t, c.ApplyOptions(tt.opts))
			assert.False(t, c.Initialized())
		})
	}

	err := Base.New().ApplyOptions(Options{})
	assert.ErrorIs(t, err, ErrMissingOption)
}

func TestApplyOptionsDefaults(t *testing.T) {
	c := newTestCanvas(t, NewBuilder().Selectable().Tileable().Hoverable().Drawable(), 48, 32, func(o *Options) {
		o.CellSize = image.Point{}
	})
	assert.Equal(t, image.Pt(16, 16), c.Grid().CellSize())
	assert.Equal(t, image.Pt(3, 2), c.Grid().SizeInTiles())
	assert.Equal(t, ModShift, c.Selector().ModKey())
	assert.Equal(t, DepthZero, c.Brush().Depth())
	assert.Equal(t, image.Pt(48, 32), c.Size())
	assert.Equal(t, 1.0, c.Scale())
}

func TestCreateRunsBothPhases(t *testing.T) {
	c, err := TileSetClass.Create(context.Background(), Options{
		Surface: NewSurface(64, 64),
		Logger:  quietLogger(),
		ModKey:  ModAlt,
	})
	require.NoError(t, err)
	assert.True(t, c.Initialized())
	assert.Equal(t, ModAlt, c.Selector().ModKey())
	assert.NotNil(t, c.Hover().Mask())
}
