// Package scope implements the request-scoped lifecycle manager: one Scope
// per logical unit of work, memoizing constructed instances and closing what
// it owns when the scope ends.
package scope

import (
	"errors"
	"io"
	"sync"
)

// ErrClosed is returned when requesting instances from a closed scope.
var ErrClosed = errors.New("scope: closed")

// Scope es el límite de vida de un request lógico. Las instancias construidas
// dentro del scope le pertenecen: se memoizan por clave y, si implementan
// io.Closer, se cierran en orden inverso al crearse cuando el scope termina.
type Scope struct {
	mu      sync.Mutex
	entries map[any]*entry
	closers []io.Closer
	closed  bool
}

// entry memoizes one construction per key; the once gate keeps construction
// out of the scope lock so constructors may request other keys re-entrantly.
type entry struct {
	once sync.Once
	v    any
	err  error
}

// New creates an empty scope.
func New() *Scope {
	return &Scope{entries: make(map[any]*entry)}
}

// Instance devuelve la instancia memoizada para key, o ejecuta build
// exactamente una vez por scope. Un error de build también se memoiza: el
// resultado es determinístico dentro del scope.
func (s *Scope) Instance(key any, build func() (any, error)) (any, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	e, ok := s.entries[key]
	if !ok {
		e = &entry{}
		s.entries[key] = e
	}
	s.mu.Unlock()

	e.once.Do(func() {
		e.v, e.err = build()
		if e.err != nil {
			return
		}
		if c, ok := e.v.(io.Closer); ok {
			s.mu.Lock()
			s.closers = append(s.closers, c)
			s.mu.Unlock()
		}
	})
	return e.v, e.err
}

// OnClose registra un closer adicional (recursos que no pasaron por Instance).
func (s *Scope) OnClose(c io.Closer) {
	if c == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		_ = c.Close()
		return
	}
	s.closers = append(s.closers, c)
}

// Len returns the number of memoized entries. For diagnostics and tests.
func (s *Scope) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Close termina el scope: cierra los recursos propios en orden inverso de
// construcción. Idempotente; llamadas posteriores a Instance fallan ErrClosed.
func (s *Scope) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	closers := s.closers
	s.closers = nil
	s.entries = nil
	s.mu.Unlock()

	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
