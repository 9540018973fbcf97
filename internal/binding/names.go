package binding

// ReservedSuffix is appended to slot names that collide with reserved identifiers.
const ReservedSuffix = "_"

// Resolver maps raw slot names to identifiers that are safe on the host surface.
type Resolver struct {
	// IsReserved reports whether a name collides with a host keyword or a
	// binding-surface member. Nil reserves nothing.
	IsReserved func(string) bool
}

// NewResolver returns a Resolver using the given predicate.
func NewResolver(isReserved func(string) bool) Resolver {
	return Resolver{IsReserved: isReserved}
}

// Resolve returns name, suffixed with ReservedSuffix if it is reserved.
func (r Resolver) Resolve(name string) string {
	if r.IsReserved != nil && r.IsReserved(name) {
		return name + ReservedSuffix
	}
	return name
}
