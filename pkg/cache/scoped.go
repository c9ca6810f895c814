package cache

// ScopedKeyer wraps a Keyer with a prefix. The CLI scopes keys by backend
// URL so that a staging and a production API never share diagrams:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "api:"+Hash([]byte(apiURL))[:12]+":")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// DiagramKey generates a prefixed diagram key.
func (k *ScopedKeyer) DiagramKey(floor int) string {
	return k.prefix + k.inner.DiagramKey(floor)
}

// EmployeeKey generates a prefixed employee key.
func (k *ScopedKeyer) EmployeeKey(id int64) string {
	return k.prefix + k.inner.EmployeeKey(id)
}
