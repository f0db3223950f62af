package config

// Pool holds executor sizing settings for an event service.
type Pool struct {
	// Workers is the explicit worker count. When positive it wins over
	// the multiplier rule.
	Workers int

	// Multiplier scales the CPU core count when Workers is unset.
	// Values below 1 are treated as 1.
	Multiplier int
}

// Size resolves the worker count for the given CPU core count:
// the explicit worker count if set, otherwise cores times multiplier,
// minimum 1.
func (p Pool) Size(numCPU int) int {
	if p.Workers > 0 {
		return p.Workers
	}
	mult := p.Multiplier
	if mult < 1 {
		mult = 1
	}
	n := numCPU * mult
	if n < 1 {
		n = 1
	}
	return n
}

// PoolFromConfig reads pool settings from the "pool" section of cfg.
// Recognized keys: workers, multiplier.
func PoolFromConfig(cfg Config) Pool {
	section := cfg.Section("pool")
	return Pool{
		Workers:    section.Int("workers", 0),
		Multiplier: section.Int("multiplier", 1),
	}
}
