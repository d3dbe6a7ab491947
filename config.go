package goom

import (
	"bytes"
	"fmt"
	"os"

	"cogentcore.org/core/base/errors"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pelletier/go-toml/v2"
)

// BodyConfig holds the defaults applied to bodies created by the world.
type BodyConfig struct {
	SleepEpsilon   float64 `toml:"sleep_epsilon"`
	LinearDamping  float64 `toml:"linear_damping"`
	AngularDamping float64 `toml:"angular_damping"`
	CanSleep       bool    `toml:"can_sleep"`
}

// Config holds the world settings. The zero value is not usable, start from DefaultConfig.
type Config struct {
	// Gravity is applied to every dynamic body as a constant acceleration.
	Gravity mgl64.Vec3 `toml:"gravity"`

	// MaxContacts is the capacity of the contact pool.
	MaxContacts int `toml:"max_contacts"`
	// PotentialContactLimit caps the broad-phase pairs of one step.
	PotentialContactLimit int `toml:"potential_contact_limit"`

	PositionEpsilon float64 `toml:"position_epsilon"`
	VelocityEpsilon float64 `toml:"velocity_epsilon"`

	// surface coefficients of every contact
	Restitution float64 `toml:"restitution"`
	Friction    float64 `toml:"friction"`

	// SelfPairs also reports pairs inside the same subtree of the BVH.
	SelfPairs bool `toml:"self_pairs"`

	Body BodyConfig `toml:"body"`
}

// DefaultConfig returns the settings used by NewWorld without options.
func DefaultConfig() Config {
	return Config{
		Gravity:               mgl64.Vec3{0, -9.81, 0},
		MaxContacts:           MaxContacts,
		PotentialContactLimit: PotentialContactLimit,
		PositionEpsilon:       PositionEpsilon,
		VelocityEpsilon:       VelocityEpsilon,
		SelfPairs:             true,
		Body: BodyConfig{
			SleepEpsilon:   SleepEpsilon,
			LinearDamping:  LinearDamping,
			AngularDamping: AngularDamping,
			CanSleep:       true,
		},
	}
}

// ParseConfig decodes TOML on top of DefaultConfig. Keys missing from data keep
// their default; unknown keys are an error.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return cfg, cfg.Validate()
}

// LoadConfig reads and parses the TOML file at path.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultConfig(), err
	}
	return ParseConfig(data)
}

// Validate reports every out of range setting.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
		}
	}
	check(c.MaxContacts >= 0, "max_contacts %d is negative", c.MaxContacts)
	check(c.PotentialContactLimit > 0, "potential_contact_limit %d must be positive", c.PotentialContactLimit)
	check(c.PositionEpsilon >= 0, "position_epsilon %v is negative", c.PositionEpsilon)
	check(c.VelocityEpsilon >= 0, "velocity_epsilon %v is negative", c.VelocityEpsilon)
	check(c.Restitution >= 0 && c.Restitution <= 1, "restitution %v outside [0, 1]", c.Restitution)
	check(c.Friction >= 0, "friction %v is negative", c.Friction)
	check(c.Body.SleepEpsilon >= 0, "body.sleep_epsilon %v is negative", c.Body.SleepEpsilon)
	check(c.Body.LinearDamping >= 0 && c.Body.LinearDamping <= 1, "body.linear_damping %v outside [0, 1]", c.Body.LinearDamping)
	check(c.Body.AngularDamping >= 0 && c.Body.AngularDamping <= 1, "body.angular_damping %v outside [0, 1]", c.Body.AngularDamping)
	return errors.Join(errs...)
}
