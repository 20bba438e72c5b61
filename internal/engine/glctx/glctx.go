// Package glctx makes the current GL context an explicit value.
//
// Two contexts share one window and one thread. Acquire makes a context
// current and returns a Token; render code calls Token.Require before
// issuing GL calls, so a draw into the wrong context is an error instead of
// a silently corrupted frame.
package glctx

import (
	"errors"
	"fmt"
)

var (
	// ErrWrongContext is returned when a token is for a different context.
	ErrWrongContext = errors.New("glctx: wrong context")
	// ErrStaleContext is returned when another context was made current
	// after the token was acquired.
	ErrStaleContext = errors.New("glctx: stale context token")
)

// ID names a GL context.
type ID int

const (
	None ID = iota
	Scene
	UI
)

func (id ID) String() string {
	switch id {
	case Scene:
		return "scene"
	case UI:
		return "ui"
	default:
		return "none"
	}
}

// Binder makes a context current on the calling thread.
type Binder interface {
	MakeCurrent(id ID) error
}

// Switcher tracks which context is current.
type Switcher struct {
	bind    Binder
	current ID
	gen     uint64
}

// NewSwitcher returns a switcher with no context current.
func NewSwitcher(b Binder) *Switcher {
	return &Switcher{bind: b}
}

// Acquire makes id current. Every earlier token becomes stale.
func (s *Switcher) Acquire(id ID) (Token, error) {
	if err := s.bind.MakeCurrent(id); err != nil {
		s.current = None
		s.gen++
		return Token{}, fmt.Errorf("make %s context current: %w", id, err)
	}
	s.current = id
	s.gen++
	return Token{id: id, gen: s.gen, s: s}, nil
}

// Current returns the context made current by the last successful Acquire.
func (s *Switcher) Current() ID {
	return s.current
}

// Token proves a context was made current and nothing else was since.
type Token struct {
	id  ID
	gen uint64
	s   *Switcher
}

// ID returns the context the token was acquired for.
func (t Token) ID() ID {
	return t.id
}

// Require fails unless t is the live token for id.
func (t Token) Require(id ID) error {
	if t.s == nil || t.id != id {
		return fmt.Errorf("%w: need %s, token is for %s", ErrWrongContext, id, t.id)
	}
	if t.s.gen != t.gen || t.s.current != id {
		return fmt.Errorf("%w: %s is no longer current", ErrStaleContext, id)
	}
	return nil
}
