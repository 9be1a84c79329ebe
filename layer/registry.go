package layer

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// Registry is the fixed, ordered set of cache layers.
type Registry struct {
	layers []*CacheLayer
	byName map[string]*CacheLayer
	normal *CacheLayer
	walls  *CacheLayer
}

// New builds a registry, assigning ids in argument order.
func New(defs ...Def) (*Registry, error) {
	if len(defs) == 0 {
		return nil, ErrEmpty
	}

	r := &Registry{
		layers: make([]*CacheLayer, 0, len(defs)),
		byName: make(map[string]*CacheLayer, len(defs)),
	}
	for i, d := range defs {
		if _, ok := r.byName[d.Name]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicate, d.Name)
		}
		blend := d.Blend
		if blend == (gputypes.BlendState{}) {
			blend = gputypes.BlendStateAlpha()
		}
		l := &CacheLayer{
			ID:      i,
			Name:    d.Name,
			Liquid:  d.Liquid,
			Blend:   blend,
			onBegin: d.OnBegin,
			onEnd:   d.OnEnd,
		}
		r.layers = append(r.layers, l)
		r.byName[d.Name] = l
	}

	r.normal = r.byName[NormalName]
	r.walls = r.byName[WallsName]
	if r.normal == nil {
		return nil, fmt.Errorf("%w: %q", ErrMissingAnchor, NormalName)
	}
	if r.walls == nil {
		return nil, fmt.Errorf("%w: %q", ErrMissingAnchor, WallsName)
	}
	return r, nil
}

// MustNew is like New but panics on error.
func MustNew(defs ...Def) *Registry {
	r, err := New(defs...)
	if err != nil {
		panic(err)
	}
	return r
}

// Default returns the built-in layer order: six liquids, space, normal
// floors and walls.
func Default() *Registry {
	return MustNew(
		Def{Name: "water", Liquid: true},
		Def{Name: "mud", Liquid: true},
		Def{Name: "cryofluid", Liquid: true},
		Def{Name: "tar", Liquid: true},
		Def{Name: "slag", Liquid: true},
		Def{Name: "arkycite", Liquid: true},
		Def{Name: "space"},
		Def{Name: NormalName},
		Def{Name: WallsName},
	)
}

// All returns the layers ordered by id. The slice must not be modified.
func (r *Registry) All() []*CacheLayer { return r.layers }

// Len returns the number of layers.
func (r *Registry) Len() int { return len(r.layers) }

// Get returns the layer with the given id, or nil.
func (r *Registry) Get(id int) *CacheLayer {
	if id < 0 || id >= len(r.layers) {
		return nil
	}
	return r.layers[id]
}

// ByName returns the named layer, or nil.
func (r *Registry) ByName(name string) *CacheLayer { return r.byName[name] }

// Normal returns the default floor layer.
func (r *Registry) Normal() *CacheLayer { return r.normal }

// Walls returns the wall layer.
func (r *Registry) Walls() *CacheLayer { return r.walls }

// Resolve maps a nil layer to the normal layer.
func (r *Registry) Resolve(l *CacheLayer) *CacheLayer {
	if l == nil {
		return r.normal
	}
	return l
}
