package tilegrid

import (
	"context"
	"fmt"
	"slices"
)

// Capability tags one behavioral extension of the base canvas.
type Capability string

const (
	CapCanvas  Capability = "canvas"  // render scheduler base
	CapSelect  Capability = "select"  // modifier-drag rectangle selection
	CapResize  Capability = "resize"  // ctrl-click zoom
	CapGrid    Capability = "grid"    // layered tile grid engine
	CapHover   Capability = "hover"   // hovered-cell highlight
	CapDraw    Capability = "draw"    // freehand brush painting
	CapPersist Capability = "persist" // save/load of layer contents
)

// capabilityDef is one link of a class chain. Every hook is optional.
type capabilityDef struct {
	tag      Capability
	requires Capability

	// attach allocates the capability's state on a freshly constructed canvas.
	attach func(c *Canvas)
	// validate checks the options this capability requires.
	validate func(c *Canvas, o *Options) error
	// apply stores the capability's options; ancestors have already applied.
	apply func(c *Canvas, o *Options)
	// init runs deferred setup; ancestors have already initialized.
	init func(ctx context.Context, c *Canvas) error
}

// Class describes a concrete canvas type: the base render scheduler plus a
// single linear chain of capabilities. Classes are immutable.
type Class struct {
	parent  *Class
	def     *capabilityDef
	markers []Capability
}

// Base is the root class: a render scheduler with no capabilities.
var Base = &Class{def: &canvasDef, markers: []Capability{CapCanvas}}

// Markers returns the capability tags of the chain, base first.
func (k *Class) Markers() []Capability {
	return slices.Clone(k.markers)
}

// Has reports whether the chain includes tag.
func (k *Class) Has(tag Capability) bool {
	return slices.Contains(k.markers, tag)
}

// Parent returns the class this one extends, or nil for Base.
func (k *Class) Parent() *Class {
	return k.parent
}

// Extension derives a class from base. Applying an extension whose tag base
// already carries returns base itself.
type Extension func(base *Class) (*Class, error)

func extension(def *capabilityDef) Extension {
	return func(base *Class) (*Class, error) {
		if base == nil || !base.Has(CapCanvas) {
			return nil, fmt.Errorf("%w: %s requires %s", ErrMissingCapability, def.tag, CapCanvas)
		}
		if base.Has(def.tag) {
			return base, nil
		}
		if def.requires != "" && !base.Has(def.requires) {
			return nil, fmt.Errorf("%w: %s requires %s", ErrMissingCapability, def.tag, def.requires)
		}
		markers := make([]Capability, len(base.markers), len(base.markers)+1)
		copy(markers, base.markers)
		return &Class{parent: base, def: def, markers: append(markers, def.tag)}, nil
	}
}

// Capability extensions. Each may be applied directly or through a Builder.
var (
	Selectable = extension(&selectDef)
	Resizable  = extension(&resizeDef)
	Tileable   = extension(&gridDef)
	Hoverable  = extension(&hoverDef)
	Drawable   = extension(&drawDef)
	Savable    = extension(&persistDef)
)

// New constructs an instance. The instance must go through ApplyOptions and
// Init before it is used.
func (k *Class) New() *Canvas {
	c := newCanvas(k)
	k.attach(c)
	return c
}

// Create runs the full two-phase construction: New, ApplyOptions, Init.
func (k *Class) Create(ctx context.Context, opts Options) (*Canvas, error) {
	c := k.New()
	if err := c.ApplyOptions(opts); err != nil {
		return nil, err
	}
	if err := c.Init(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

func (k *Class) attach(c *Canvas) {
	if k.parent != nil {
		k.parent.attach(c)
	}
	if k.def.attach != nil {
		k.def.attach(c)
	}
}

// applyOptions validates this link's options, delegates to the ancestors, then
// applies its own.
func (k *Class) applyOptions(c *Canvas, o *Options) error {
	if k.def.validate != nil {
		if err := k.def.validate(c, o); err != nil {
			return err
		}
	}
	if k.parent != nil {
		if err := k.parent.applyOptions(c, o); err != nil {
			return err
		}
	}
	if k.def.apply != nil {
		k.def.apply(c, o)
	}
	return nil
}

// init delegates to the ancestors before running this link's setup.
func (k *Class) init(ctx context.Context, c *Canvas) error {
	if k.parent != nil {
		if err := k.parent.init(ctx, c); err != nil {
			return err
		}
	}
	if k.def.init != nil {
		if err := k.def.init(ctx, c); err != nil {
			return fmt.Errorf("tilegrid: init %s: %w", k.def.tag, err)
		}
	}
	return nil
}

// buildOrder is the fixed dependency order capabilities are applied in,
// whatever order the builder flags were set.
var buildOrder = []struct {
	tag Capability
	ext *Extension
}{
	{CapSelect, &Selectable},
	{CapResize, &Resizable},
	{CapGrid, &Tileable},
	{CapHover, &Hoverable},
	{CapDraw, &Drawable},
	{CapPersist, &Savable},
}

// Builder accumulates capability flags and composes them into a Class.
type Builder struct {
	flags map[Capability]bool
}

// NewBuilder returns a builder with no capabilities selected.
func NewBuilder() *Builder {
	return &Builder{flags: make(map[Capability]bool)}
}

func (b *Builder) set(tag Capability) *Builder {
	b.flags[tag] = true
	return b
}

func (b *Builder) Selectable() *Builder { return b.set(CapSelect) }
func (b *Builder) Resizable() *Builder  { return b.set(CapResize) }
func (b *Builder) Tileable() *Builder   { return b.set(CapGrid) }
func (b *Builder) Hoverable() *Builder  { return b.set(CapHover) }
func (b *Builder) Drawable() *Builder   { return b.set(CapDraw) }
func (b *Builder) Savable() *Builder    { return b.set(CapPersist) }

// Build applies the selected capabilities to Base in dependency order.
func (b *Builder) Build() (*Class, error) {
	k := Base
	for _, step := range buildOrder {
		if !b.flags[step.tag] {
			continue
		}
		next, err := (*step.ext)(k)
		if err != nil {
			return nil, err
		}
		k = next
	}
	return k, nil
}

// MustBuild is like Build but panics on a configuration error. Use it for
// classes wired at package initialization.
func (b *Builder) MustBuild() *Class {
	k, err := b.Build()
	if err != nil {
		panic(err)
	}
	return k
}

// Instantiate builds the class and runs the two-phase construction.
func (b *Builder) Instantiate(ctx context.Context, opts Options) (*Canvas, error) {
	k, err := b.Build()
	if err != nil {
		return nil, err
	}
	return k.Create(ctx, opts)
}
