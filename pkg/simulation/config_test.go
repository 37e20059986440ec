package simulation

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/lao-tseu-is-alive/go-boids-3d/pkg/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	schemaPath = "../../configs/boids.schema.json"
	yamlPath   = "../../configs/boids.yaml"
	jsonPath   = "../../configs/boids.json"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	p, err := cfg.EngineParams()
	require.NoError(t, err)
	assert.Equal(t, flock.DefaultParams(), p)
	assert.Equal(t, 200, cfg.NumBoids)
	assert.Equal(t, float32(100), cfg.WorldHalfExtent)
}

func TestLoadConfig_YAMLAndJSONAgree(t *testing.T) {
	fromYAML, err := LoadConfig(yamlPath, schemaPath)
	require.NoError(t, err)
	fromJSON, err := LoadConfig(jsonPath, schemaPath)
	require.NoError(t, err)

	assert.Equal(t, fromJSON, fromYAML)

	want := DefaultConfig()
	want.Seed = 42
	assert.Equal(t, want, fromYAML)
}

func TestLoadConfig_PartialKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "partial.yml", "numBoids: 50\nboundaryPolicy: soft-repulsion\n")

	cfg, err := LoadConfig(path, schemaPath)
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.NumBoids)
	assert.Equal(t, "soft-repulsion", cfg.BoundaryPolicy)
	assert.Equal(t, DefaultConfig().ViewRadius, cfg.ViewRadius)

	p, err := cfg.EngineParams()
	require.NoError(t, err)
	assert.Equal(t, flock.SoftRepulsion, p.Boundary)
}

func TestLoadConfig_EmptyYAML(t *testing.T) {
	path := writeConfig(t, "empty.yaml", "")

	cfg, err := LoadConfig(path, schemaPath)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_Rejected(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"negative numBoids", "neg.json", `{"numBoids": -1}`},
		{"zero extent", "extent.yaml", "worldHalfExtent: 0\n"},
		{"unknown policy", "policy.yaml", "boundaryPolicy: bounce\n"},
		{"unknown order", "order.json", `{"updateOrder": "random"}`},
		{"unknown key", "key.yaml", "flockSize: 10\n"},
		{"wrong type", "type.json", `{"viewRadius": "far"}`},
		{"zero view radius", "view.yaml", "viewRadius: 0\n"},
		{"reverse speed at max speed", "reverse.yaml", "boundaryPolicy: reverse-on-speed\nreverseSpeed: 3\nmaxSpeed: 3\n"},
		{"broken json", "broken.json", `{"numBoids": `},
		{"broken yaml", "broken.yaml", "numBoids: [1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.file, tt.content)
			cfg, err := LoadConfig(path, schemaPath)
			assert.Error(t, err)
			assert.Nil(t, cfg)
		})
	}
}

func TestLoadConfig_MissingFiles(t *testing.T) {
	_, err := LoadConfig("does-not-exist.yaml", schemaPath)
	assert.Error(t, err)

	_, err = LoadConfig(yamlPath, "does-not-exist.schema.json")
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative count", func(c *Config) { c.NumBoids = -3 }},
		{"zero extent", func(c *Config) { c.WorldHalfExtent = 0 }},
		{"zero max speed", func(c *Config) { c.MaxSpeed = 0 }},
		{"negative radius", func(c *Config) { c.ViewRadius = -1 }},
		{"zero separation radius", func(c *Config) { c.SeparationRadius = 0 }},
		{"zero steering force", func(c *Config) { c.MaxSteeringForce = 0 }},
		{"reverse speed above max speed", func(c *Config) {
			c.BoundaryPolicy = "reverse-on-speed"
			c.ReverseSpeed = 4
		}},
		{"zero band with soft repulsion", func(c *Config) {
			c.BoundaryPolicy = "soft-repulsion"
			c.BoundaryThreshold = 0
		}},
		{"unknown exclusion", func(c *Config) { c.SelfExclusion = "name" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	cfg := DefaultConfig()
	cfg.MaxSpeed = 0
	_, err := cfg.EngineParams()
	assert.True(t, errors.Is(err, flock.ErrInvalidParams))
}
