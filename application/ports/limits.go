package ports

// Limits are the runtime-tunable operational limits the services consult.
type Limits struct {
	// MaxCascadeEdges is the threshold above which a cascade cleanup is
	// flagged as suspiciously large.
	MaxCascadeEdges int
	// MaxPolicySizeBytes caps accepted policy definition size.
	MaxPolicySizeBytes int
}

// LimitsProvider returns the currently active limits. Implementations may
// reload at runtime; callers must re-read on every use.
type LimitsProvider interface {
	CurrentLimits() Limits
}

// StaticLimits is a LimitsProvider that never changes.
type StaticLimits Limits

func (s StaticLimits) CurrentLimits() Limits { return Limits(s) }

// DefaultLimits are used when no overrides are configured.
func DefaultLimits() StaticLimits {
	return StaticLimits{
		MaxCascadeEdges:    10000,
		MaxPolicySizeBytes: 256 * 1024,
	}
}
