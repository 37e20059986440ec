package simulation

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lao-tseu-is-alive/go-boids-3d/pkg/flock"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// Population and world
	NumBoids        int     `json:"numBoids" yaml:"numBoids"`
	WorldHalfExtent float32 `json:"worldHalfExtent" yaml:"worldHalfExtent"` // the world is [-h, h]³
	InitialSpeed    float32 `json:"initialSpeed" yaml:"initialSpeed"`
	Seed            uint64  `json:"seed" yaml:"seed"` // 0 picks a seed from the clock

	// Flocking rules
	ViewRadius       float32 `json:"viewRadius" yaml:"viewRadius"`             // alignment and cohesion
	SeparationRadius float32 `json:"separationRadius" yaml:"separationRadius"` // separation
	MaxSteeringForce float32 `json:"maxSteeringForce" yaml:"maxSteeringForce"`
	MaxSpeed         float32 `json:"maxSpeed" yaml:"maxSpeed"`

	// Boundary handling: "wrap", "reverse-on-speed" or "soft-repulsion"
	BoundaryPolicy    string  `json:"boundaryPolicy" yaml:"boundaryPolicy"`
	BoundaryThreshold float32 `json:"boundaryThreshold" yaml:"boundaryThreshold"`
	ReverseSpeed      float32 `json:"reverseSpeed" yaml:"reverseSpeed"`

	// "sequential" or "synchronous"
	UpdateOrder string `json:"updateOrder" yaml:"updateOrder"`
	// "position" or "index"
	SelfExclusion string `json:"selfExclusion" yaml:"selfExclusion"`

	// Viewer
	ScreenWidth  int `json:"screenWidth" yaml:"screenWidth"`
	ScreenHeight int `json:"screenHeight" yaml:"screenHeight"`
	TickRate     int `json:"tickRate" yaml:"tickRate"` // simulation ticks per second
}

// DefaultConfig mirrors flock.DefaultParams with the reference population:
// 200 boids in a 200 units wide cube.
func DefaultConfig() *Config {
	p := flock.DefaultParams()
	return &Config{
		NumBoids:          200,
		WorldHalfExtent:   100,
		InitialSpeed:      0.3,
		ViewRadius:        p.ViewRadius,
		SeparationRadius:  p.SeparationRadius,
		MaxSteeringForce:  p.MaxSteeringForce,
		MaxSpeed:          p.MaxSpeed,
		BoundaryPolicy:    p.Boundary.String(),
		BoundaryThreshold: p.BoundaryThreshold,
		ReverseSpeed:      p.ReverseSpeed,
		UpdateOrder:       p.Order.String(),
		SelfExclusion:     p.Exclusion.String(),
		ScreenWidth:       1024,
		ScreenHeight:      800,
		TickRate:          60,
	}
}

// LoadConfig loads configuration from a JSON or YAML file (chosen by extension) and
// validates it against the schema. Keys missing from the file keep their DefaultConfig value.
func LoadConfig(configFile string, schemaFile string) (*Config, error) {
	// 1. Compile Schema
	sch, err := jsonschema.Compile(schemaFile)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	// 2. Read Config File
	raw, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}

	// 3. Bring YAML down to JSON so that both formats go through the same schema
	if isYAML(configFile) {
		raw, err = yamlToJSON(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to decode config yaml: %w", err)
		}
	}

	// 4. Validate
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("failed to decode config json: %w", err)
	}
	if err := sch.Validate(v); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// 5. Unmarshal into Struct, over the defaults
	cfg := DefaultConfig()
	if err := json.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func yamlToJSON(raw []byte) ([]byte, error) {
	var doc map[string]interface{}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	if doc == nil {
		doc = map[string]interface{}{}
	}
	return json.Marshal(doc)
}

// Validate checks what the schema cannot: the cross-field rules of the engine.
func (c *Config) Validate() error {
	if c.NumBoids < 0 {
		return fmt.Errorf("numBoids must not be negative, got %d", c.NumBoids)
	}
	if !(c.WorldHalfExtent > 0) {
		return fmt.Errorf("worldHalfExtent must be positive, got %v", c.WorldHalfExtent)
	}
	if _, err := c.EngineParams(); err != nil {
		return err
	}
	return nil
}

// EngineParams translates the configuration into flocking parameters.
func (c *Config) EngineParams() (flock.Params, error) {
	boundary, err := flock.ParseBoundaryPolicy(c.BoundaryPolicy)
	if err != nil {
		return flock.Params{}, err
	}
	order, err := flock.ParseUpdateOrder(c.UpdateOrder)
	if err != nil {
		return flock.Params{}, err
	}
	exclusion, err := flock.ParseExclusion(c.SelfExclusion)
	if err != nil {
		return flock.Params{}, err
	}
	p := flock.Params{
		ViewRadius:        c.ViewRadius,
		SeparationRadius:  c.SeparationRadius,
		MaxSteeringForce:  c.MaxSteeringForce,
		MaxSpeed:          c.MaxSpeed,
		Boundary:          boundary,
		BoundaryThreshold: c.BoundaryThreshold,
		ReverseSpeed:      c.ReverseSpeed,
		Order:             order,
		Exclusion:         exclusion,
	}
	return p, p.Validate()
}
