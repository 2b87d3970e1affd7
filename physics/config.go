package physics

import (
	"fmt"
	"os"

	"github.com/jakecoffman/cp"
	"gopkg.in/yaml.v3"
)

// Config is the plain-value tuning surface for the physics core. All
// distances are pixels, all speeds pixels per second.
type Config struct {
	// Gravity is the world acceleration applied to every entity with a
	// velocity, scaled per entity by its Gravity component.
	Gravity cp.Vector `yaml:"gravity"`
	// MaxFallSpeed clamps downward velocity.
	MaxFallSpeed float64 `yaml:"max_fall_speed"`
	// MaxHorizontalSpeed clamps velocity on the X axis in both directions.
	MaxHorizontalSpeed float64 `yaml:"max_horizontal_speed"`
	// MaxIterations bounds the move-and-slide resolution loop.
	MaxIterations int `yaml:"max_iterations"`
	// SkinWidth is the safety margin kept between resolved surfaces.
	SkinWidth float64 `yaml:"skin_width"`
	// GroundCheckDistance is how far below the collider the ground probe
	// reaches when no vertical contact happened this frame.
	GroundCheckDistance float64 `yaml:"ground_check_distance"`
	// SweptCollision enables continuous collision for fast movers.
	SweptCollision bool `yaml:"swept_collision"`
	// SweptThreshold is the speed above which the swept path is used
	// instead of discrete move-then-resolve.
	SweptThreshold float64 `yaml:"swept_threshold"`
}

// DefaultConfig returns the documented defaults: gravity 980 px/s²
// down, 4 resolution iterations, 0.01 px skin.
func DefaultConfig() Config {
	return Config{
		Gravity:             cp.Vector{X: 0, Y: 980},
		MaxFallSpeed:        1200,
		MaxHorizontalSpeed:  800,
		MaxIterations:       4,
		SkinWidth:           0.01,
		GroundCheckDistance: 2,
		SweptCollision:      true,
		SweptThreshold:      960,
	}
}

// sanitize folds zero and nonsense values back to usable ones so a
// partially filled YAML file cannot wedge the resolver.
func (c *Config) sanitize() {
	d := DefaultConfig()
	if c.MaxIterations <= 0 {
		c.MaxIterations = d.MaxIterations
	}
	if c.SkinWidth <= 0 {
		c.SkinWidth = d.SkinWidth
	}
	if c.MaxFallSpeed <= 0 {
		c.MaxFallSpeed = d.MaxFallSpeed
	}
	if c.MaxHorizontalSpeed <= 0 {
		c.MaxHorizontalSpeed = d.MaxHorizontalSpeed
	}
	if c.GroundCheckDistance < 0 {
		c.GroundCheckDistance = d.GroundCheckDistance
	}
	if c.SweptThreshold <= 0 {
		c.SweptThreshold = d.SweptThreshold
	}
}

// LoadConfig reads a YAML tuning file over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("physics: read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("physics: parse config: %w", err)
	}
	cfg.sanitize()
	return cfg, nil
}
