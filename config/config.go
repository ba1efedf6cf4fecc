package config

import (
	"io/ioutil"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Settings are the engine-wide knobs of the spatial core.
type Settings struct {
	// OriginShiftEnabled gates the whole floating-origin feature.
	OriginShiftEnabled bool `yaml:"origin_shift_enabled"`

	// OriginRebaseDistance is how far the viewer may drift from the
	// current origin before the scene re-centers, meters.
	OriginRebaseDistance float64 `yaml:"origin_rebase_distance"`

	// InfinityClamp replaces +-Inf components in transform setters.
	InfinityClamp float64 `yaml:"infinity_clamp"`

	// Epsilon is the tolerance for pose comparisons.
	Epsilon float64 `yaml:"epsilon"`

	// ListenAddr is the scene inspector address.
	ListenAddr string `yaml:"listen_addr"`
}

func Default() Settings {
	return Settings{
		OriginShiftEnabled:   true,
		OriginRebaseDistance: 1000.0,
		InfinityClamp:        1e12,
		Epsilon:              1e-9,
		ListenAddr:           ":8000",
	}
}

var current = Default()

func Get() Settings {
	return current
}

func Set(s Settings) {
	if s.InfinityClamp <= 0 {
		s.InfinityClamp = Default().InfinityClamp
	}
	if s.Epsilon <= 0 {
		s.Epsilon = Default().Epsilon
	}
	current = s
}

// Load reads settings from a yaml file, filling unset fields from
// defaults.
func Load(path string) (Settings, error) {
	s := Default()
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return s, errors.Wrapf(err, "Cannot read config %q", path)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, errors.Wrapf(err, "Cannot parse config %q", path)
	}
	return s, nil
}
