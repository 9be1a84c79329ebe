package floor

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/floor/layer"
)

const sampleConfig = `
dynamic: true
backend: preview
layers:
  - {name: lava, liquid: true, blend: additive}
  - {name: normal}
  - {name: walls, blend: premultiplied}
`

func writeConfig(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "floor.yaml")
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if !cfg.Dynamic || cfg.Backend != "preview" || len(cfg.Layers) != 3 {
		t.Fatalf("cfg = %+v", cfg)
	}

	reg, err := cfg.Registry()
	if err != nil {
		t.Fatalf("Registry: %v", err)
	}
	lava := reg.Get(0)
	if lava.Name != "lava" || !lava.Liquid || lava.Blend != layer.Additive() {
		t.Errorf("lava layer = %+v", lava)
	}
	if reg.Normal().Blend != gputypes.BlendStateAlpha() {
		t.Error("empty blend should default to alpha")
	}
	if reg.Walls().Blend != gputypes.BlendStatePremultiplied() {
		t.Error("walls blend not parsed")
	}
}

func TestLoadConfigEnv(t *testing.T) {
	t.Setenv(ConfigEnv, writeConfig(t, sampleConfig))
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Backend != "preview" {
		t.Errorf("Backend = %q, want preview", cfg.Backend)
	}
}

func TestLoadConfigDefault(t *testing.T) {
	t.Setenv(ConfigEnv, "")
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	opts, err := cfg.Options()
	if err != nil {
		t.Fatalf("Options: %v", err)
	}

	f := newFixture(t, nil)
	r := New(&fakeGPU{}, f.atlas, opts...)
	t.Cleanup(r.Close)
	if r.opts.dynamic {
		t.Error("default config should not be dynamic")
	}
	if r.Registry().Len() != layer.Default().Len() {
		t.Error("default config should use the default layers")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want os.ErrNotExist", err)
	}
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{"syntax", "layers: [", ErrConfig},
		{"bad blend", "layers: [{name: normal, blend: glow}, {name: walls}]", layer.ErrUnknownBlend},
		{"missing walls", "layers: [{name: normal}]", layer.ErrMissingAnchor},
		{"duplicate", "layers: [{name: normal}, {name: normal}, {name: walls}]", layer.ErrDuplicate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.data))
			if !errors.Is(err, ErrConfig) || !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v wrapped in ErrConfig", err, tt.want)
			}
		})
	}
}
