package floor

import (
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/gogpu/floor/layer"
)

func TestDefaultOptions(t *testing.T) {
	f := newFixture(t, nil)
	r := New(&fakeGPU{}, f.atlas)
	t.Cleanup(r.Close)

	if r.opts.dynamic {
		t.Error("dynamic should default to false")
	}
	if r.opts.metrics != nil {
		t.Error("metrics should default to nil")
	}
	if r.Registry() == nil || r.Registry().Len() != layer.Default().Len() {
		t.Error("registry should default to layer.Default()")
	}
}

func TestOptionsApply(t *testing.T) {
	reg := layer.MustNew(layer.Def{Name: layer.NormalName}, layer.Def{Name: layer.WallsName})
	m, err := NewMetrics(prometheus.NewRegistry())
	if err != nil {
		t.Fatal(err)
	}
	l := slog.New(slog.DiscardHandler)

	f := newFixture(t, reg)
	r := New(&fakeGPU{}, f.atlas, WithDynamic(true), WithMetrics(m), WithRegistry(reg), WithLogger(l))
	t.Cleanup(r.Close)

	if !r.opts.dynamic {
		t.Error("WithDynamic(true) not applied")
	}
	if r.opts.metrics != m {
		t.Error("WithMetrics not applied")
	}
	if r.Registry() != reg {
		t.Error("WithRegistry not applied")
	}
	if r.logger() != l {
		t.Error("WithLogger not applied")
	}
}

func TestLaterOptionWins(t *testing.T) {
	f := newFixture(t, nil)
	r := New(&fakeGPU{}, f.atlas, WithDynamic(true), WithDynamic(false))
	t.Cleanup(r.Close)
	if r.opts.dynamic {
		t.Error("last WithDynamic should win")
	}
}
