package gfx

import "fmt"

// NameSet tracks names claimed per resource kind.
type NameSet struct {
	claimed map[string]map[string]struct{}
}

// Claim records name under kind, failing if it was already claimed.
func (s *NameSet) Claim(kind, name string) error {
	if s.claimed == nil {
		s.claimed = make(map[string]map[string]struct{})
	}
	names := s.claimed[kind]
	if names == nil {
		names = make(map[string]struct{})
		s.claimed[kind] = names
	}
	if _, ok := names[name]; ok {
		return fmt.Errorf("%w: %s %q", ErrDuplicateName, kind, name)
	}
	names[name] = struct{}{}
	return nil
}

// Has reports whether name is claimed under kind.
func (s *NameSet) Has(kind, name string) bool {
	_, ok := s.claimed[kind][name]
	return ok
}
