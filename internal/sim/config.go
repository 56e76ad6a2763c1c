package sim

import "github.com/ppgllrd/contagion-sim/internal/arena"

// Config is the frozen parameter bundle passed into Simulate.
type Config struct {
	Seed int64

	// Hz is the number of Redraw events scheduled per simulated time unit.
	// Hz == 0 means Redraw is never scheduled.
	Hz int

	PopulationSz int

	// VelocitySigma is the per-axis standard deviation of the initial
	// Normal(0, VelocitySigma) velocity draw.
	VelocitySigma float64

	// TimeLimit is the event horizon: events scheduled beyond it are
	// discarded at enqueue time.
	TimeLimit float64

	ProbInfection float64
	ProbDying     float64

	// TimeInfectious is the mean of Normal(mu, sigma=1) governing how long
	// an infected individual stays infectious before EndInfection fires.
	TimeInfectious float64

	Arena arena.Arena

	// Radius is the shared disk radius for every individual.
	Radius float64
	// Mass is the shared disk mass for every individual.
	Mass float64

	// MaxPlacementAttempts bounds the rejection-sampling loop used to place
	// individuals without overlap. 0 selects a default.
	MaxPlacementAttempts int
}

// DefaultConfig returns the reference default parameter values.
func DefaultConfig() Config {
	return Config{
		Seed:                 1,
		Hz:                   48,
		PopulationSz:         600,
		VelocitySigma:        15,
		TimeLimit:            4000,
		ProbInfection:        1.0 / 3.0,
		ProbDying:            0.15,
		TimeInfectious:       12,
		Arena:                arena.Default(),
		Radius:               8,
		Mass:                 1,
		MaxPlacementAttempts: 20000,
	}
}

// Validate reports the first out-of-range field as a *ConfigError, or nil
// if every field of cfg is within its documented range.
func (c Config) Validate() error {
	switch {
	case c.Hz < 0 || c.Hz > 60:
		return &ConfigError{Field: "Hz", Value: c.Hz, Reason: "must be in [0, 60]"}
	case c.PopulationSz < 0 || c.PopulationSz > 1500:
		return &ConfigError{Field: "PopulationSz", Value: c.PopulationSz, Reason: "must be in [0, 1500]"}
	case c.VelocitySigma < 0 || c.VelocitySigma > 100:
		return &ConfigError{Field: "VelocitySigma", Value: c.VelocitySigma, Reason: "must be in [0, 100]"}
	case c.TimeLimit < 0:
		return &ConfigError{Field: "TimeLimit", Value: c.TimeLimit, Reason: "must be >= 0"}
	case c.ProbInfection < 0 || c.ProbInfection > 1:
		return &ConfigError{Field: "ProbInfection", Value: c.ProbInfection, Reason: "must be in [0, 1]"}
	case c.ProbDying < 0 || c.ProbDying > 1:
		return &ConfigError{Field: "ProbDying", Value: c.ProbDying, Reason: "must be in [0, 1]"}
	case c.TimeInfectious < 0 || c.TimeInfectious > 100:
		return &ConfigError{Field: "TimeInfectious", Value: c.TimeInfectious, Reason: "must be in [0, 100]"}
	case c.Radius <= 0:
		return &ConfigError{Field: "Radius", Value: c.Radius, Reason: "must be > 0"}
	case c.Mass <= 0:
		return &ConfigError{Field: "Mass", Value: c.Mass, Reason: "must be > 0"}
	}
	return nil
}

// withDefaults fills zero-valued Arena/Radius/Mass/MaxPlacementAttempts so
// callers that only set the population/epidemic fields still get a usable
// Config.
func (c Config) withDefaults() Config {
	if c.Arena == (arena.Arena{}) {
		c.Arena = arena.Default()
	}
	if c.Radius == 0 {
		c.Radius = 8
	}
	if c.Mass == 0 {
		c.Mass = 1
	}
	if c.MaxPlacementAttempts == 0 {
		c.MaxPlacementAttempts = 20000
	}
	return c
}
