package shared

// ══════════════════════════════════════════════════════════════════════════════
// PAGINATION
// ══════════════════════════════════════════════════════════════════════════════

const (
	// DefaultPageSize is used when a caller does not specify a limit.
	DefaultPageSize = 50

	// MaxPageSize caps list queries.
	MaxPageSize = 500
)

// ListOptions contains pagination parameters for list queries.
type ListOptions struct {
	Limit  int
	Offset int
}

// Normalize clamps the options to the allowed range.
func (o ListOptions) Normalize() ListOptions {
	if o.Limit <= 0 {
		o.Limit = DefaultPageSize
	}
	if o.Limit > MaxPageSize {
		o.Limit = MaxPageSize
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
	return o
}
