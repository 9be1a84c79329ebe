// Package layer defines the cache layers that partition floor geometry.
//
// Every tile surface belongs to exactly one cache layer. Layers are drawn in
// ascending id order, so the order in which they are registered is the paint
// order. Layers are immutable once a Registry is built and may be shared
// between goroutines without locking.
package layer

import (
	"errors"
	"fmt"

	"github.com/gogpu/floor/render"
	"github.com/gogpu/gputypes"
)

// Names of the anchor layers every registry must contain.
const (
	NormalName = "normal"
	WallsName  = "walls"
)

// Registry errors.
var (
	// ErrEmpty is returned when a registry is built without layers.
	ErrEmpty = errors.New("layer: empty registry")

	// ErrDuplicate is returned when two layers share a name.
	ErrDuplicate = errors.New("layer: duplicate layer name")

	// ErrMissingAnchor is returned when the normal or walls layer is absent.
	ErrMissingAnchor = errors.New("layer: missing anchor layer")

	// ErrUnknownBlend is returned for an unrecognized blend preset name.
	ErrUnknownBlend = errors.New("layer: unknown blend preset")
)

// Hook runs when a layer starts or finishes drawing.
type Hook func(b render.Blender, l *CacheLayer)

// Def describes a layer before registration.
type Def struct {
	Name   string
	Liquid bool

	// Blend is applied when the layer begins. The zero value means
	// standard alpha blending.
	Blend gputypes.BlendState

	// OnBegin and OnEnd replace the default hooks when set.
	OnBegin Hook
	OnEnd   Hook
}

// CacheLayer is one registered layer.
type CacheLayer struct {
	ID     int
	Name   string
	Liquid bool
	Blend  gputypes.BlendState

	onBegin Hook
	onEnd   Hook
}

// Begin prepares the draw stream for this layer's meshes.
func (l *CacheLayer) Begin(b render.Blender) {
	if l.onBegin != nil {
		l.onBegin(b, l)
		return
	}
	b.SetBlend(l.Blend)
}

// End restores the draw stream after this layer.
func (l *CacheLayer) End(b render.Blender) {
	if l.onEnd != nil {
		l.onEnd(b, l)
		return
	}
	b.SetBlend(gputypes.BlendStateAlpha())
}

func (l *CacheLayer) String() string {
	return fmt.Sprintf("%s#%d", l.Name, l.ID)
}

// UnderwaterBlend is the blend used for underwater content drawn between a
// liquid layer's surface and the layers above it: color is alpha blended,
// alpha keeps the destination coverage.
func UnderwaterBlend() gputypes.BlendState {
	return gputypes.BlendState{
		Color: gputypes.BlendComponent{
			SrcFactor: gputypes.BlendFactorSrcAlpha,
			DstFactor: gputypes.BlendFactorOneMinusSrcAlpha,
			Operation: gputypes.BlendOperationAdd,
		},
		Alpha: gputypes.BlendComponent{
			SrcFactor: gputypes.BlendFactorDstAlpha,
			DstFactor: gputypes.BlendFactorOneMinusSrcAlpha,
			Operation: gputypes.BlendOperationAdd,
		},
	}
}

// Additive returns a blend state that adds the source onto the destination.
func Additive() gputypes.BlendState {
	return gputypes.BlendState{
		Color: gputypes.BlendComponent{
			SrcFactor: gputypes.BlendFactorSrcAlpha,
			DstFactor: gputypes.BlendFactorOne,
			Operation: gputypes.BlendOperationAdd,
		},
		Alpha: gputypes.BlendComponent{
			SrcFactor: gputypes.BlendFactorOne,
			DstFactor: gputypes.BlendFactorOne,
			Operation: gputypes.BlendOperationAdd,
		},
	}
}

// ParseBlend resolves a preset name. The empty name means "alpha".
func ParseBlend(name string) (gputypes.BlendState, error) {
	switch name {
	case "", "alpha":
		return gputypes.BlendStateAlpha(), nil
	case "premultiplied":
		return gputypes.BlendStatePremultiplied(), nil
	case "replace":
		return gputypes.BlendStateReplace(), nil
	case "additive":
		return Additive(), nil
	case "underwater":
		return UnderwaterBlend(), nil
	}
	return gputypes.BlendState{}, fmt.Errorf("%w: %q", ErrUnknownBlend, name)
}
