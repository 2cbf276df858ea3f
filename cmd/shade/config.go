package main

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/aclements/bvol"
	"github.com/pelletier/go-toml/v2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Config is a scene file.
//
// Coordinates are in the model frame described on [ShadeModel]. Units
// are whatever the meshes use; SketchUp STL exports are in inches.
type Config struct {
	Latitude      float64          `toml:"latitude"`
	Longitude     float64          `toml:"longitude"`
	ElevationFeet float64          `toml:"elevation_feet"`
	Year          int              `toml:"year"`
	Increment     string           `toml:"increment"`
	TestPos       [3]float64       `toml:"test_pos"`
	Obstacles     []ObstacleConfig `toml:"obstacle"`

	// dir is the directory relative paths are resolved against.
	dir string
}

// ObstacleConfig describes one obstacle. Which geometry fields apply
// depends on Kind.
type ObstacleConfig struct {
	Name    string `toml:"name"`
	Kind    string `toml:"kind"` // "box", "sphere" or "mesh"
	Foliage bool   `toml:"foliage"`

	Lower  [3]float64 `toml:"lower"`
	Higher [3]float64 `toml:"higher"`
	Center [3]float64 `toml:"center"`
	Radius float64    `toml:"radius"`
	STL    string     `toml:"stl"`

	// The obstacle is scaled, then rotated, then translated.
	Scale      *[3]float64 `toml:"scale"`
	RotateAxis [3]float64  `toml:"rotate_axis"`
	RotateDeg  float64     `toml:"rotate_deg"`
	Translate  [3]float64  `toml:"translate"`
}

const defaultIncrement = 10 * time.Minute

// LoadConfig reads and validates the scene file at path.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	cfg, err := ParseConfig(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.dir = filepath.Dir(path)
	return cfg, nil
}

// ParseConfig decodes a scene. Unknown keys are an error.
func ParseConfig(r io.Reader) (*Config, error) {
	cfg := new(Config)
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var sme *toml.StrictMissingError
		if errors.As(err, &sme) {
			return nil, fmt.Errorf("unknown keys:\n%s", sme.String())
		}
		return nil, err
	}
	if cfg.Year == 0 {
		cfg.Year = time.Now().Year()
	}
	if _, err := cfg.IncrementDuration(); err != nil {
		return nil, err
	}
	for i := range cfg.Obstacles {
		o := &cfg.Obstacles[i]
		if o.Name == "" {
			o.Name = fmt.Sprintf("%s%d", o.Kind, i)
		}
		if err := o.validate(); err != nil {
			return nil, fmt.Errorf("obstacle %q: %w", o.Name, err)
		}
	}
	return cfg, nil
}

// IncrementDuration returns the sampling interval.
func (c *Config) IncrementDuration() (time.Duration, error) {
	if c.Increment == "" {
		return defaultIncrement, nil
	}
	d, err := time.ParseDuration(c.Increment)
	if err != nil {
		return 0, fmt.Errorf("bad increment: %w", err)
	}
	if d <= 0 || d > 24*time.Hour {
		return 0, fmt.Errorf("increment %s out of range", d)
	}
	return d, nil
}

func (c *Config) TestPoint() r3.Vec {
	return vec(c.TestPos)
}

func (o *ObstacleConfig) validate() error {
	switch o.Kind {
	case "box":
		for i := range o.Lower {
			if o.Lower[i] > o.Higher[i] {
				return fmt.Errorf("lower %v exceeds higher %v", o.Lower, o.Higher)
			}
		}
	case "sphere":
		if !(o.Radius > 0) {
			return fmt.Errorf("radius must be positive, got %v", o.Radius)
		}
	case "mesh":
		if o.STL == "" {
			return errors.New("mesh needs an stl path")
		}
	default:
		return fmt.Errorf("unknown kind %q", o.Kind)
	}
	return nil
}

// Transform returns the obstacle's placement in the world.
func (o *ObstacleConfig) Transform() bvol.Transform {
	t := bvol.Identity()
	if o.Scale != nil {
		t = bvol.Scaling(vec(*o.Scale))
	}
	if o.RotateDeg != 0 {
		t = bvol.Mul(bvol.Rotation(vec(o.RotateAxis), o.RotateDeg*math.Pi/180), t)
	}
	if o.Translate != [3]float64{} {
		t = bvol.Mul(bvol.Translation(vec(o.Translate)), t)
	}
	return t
}

// Obstacle builds the obstacle. Mesh paths are resolved relative to the
// scene file.
func (c *Config) Obstacle(o *ObstacleConfig) (Obstacle, error) {
	world := o.Transform()
	var obs Obstacle
	var err error
	switch o.Kind {
	case "box":
		obs, err = NewBoxObstacle(o.Name, bvol.NewBox(vec(o.Lower), vec(o.Higher)), world)
	case "sphere":
		obs, err = NewSphereObstacle(o.Name, bvol.NewSphere(vec(o.Center), o.Radius), world)
	case "mesh":
		path := o.STL
		if !filepath.IsAbs(path) {
			path = filepath.Join(c.dir, path)
		}
		var m *Mesh
		m, err = ReadSTLFile(path)
		if err == nil {
			obs = NewMeshObstacle(o.Name, m, world)
		}
	default:
		err = fmt.Errorf("unknown kind %q", o.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("obstacle %q: %w", o.Name, err)
	}
	return obs, nil
}

// Model builds a shade model containing every obstacle in c.
func (c *Config) Model() (*ShadeModel, error) {
	m := NewShadeModel(c.Latitude, c.Longitude, c.ElevationFeet)
	for i := range c.Obstacles {
		oc := &c.Obstacles[i]
		obs, err := c.Obstacle(oc)
		if err != nil {
			return nil, err
		}
		if oc.Foliage {
			m.AddFoliage(obs)
		} else {
			m.AddBuilding(obs)
		}
	}
	return m, nil
}

func vec(v [3]float64) r3.Vec {
	return r3.Vec{X: v[0], Y: v[1], Z: v[2]}
}
