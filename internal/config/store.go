package config

import "sync/atomic"

// Store publishes parameter sets to the pipeline with atomic whole-value
// swaps. A reader always sees one coherent Params, never a torn mix of
// old and new fields, and the pipeline loads exactly one snapshot per
// frame.
type Store struct {
	current atomic.Pointer[Params]
}

// NewStore validates the initial parameters and returns a ready store.
func NewStore(p Params) (*Store, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	s := &Store{}
	s.current.Store(&p)
	return s, nil
}

// Load returns the current parameter snapshot by value. Mutating the
// returned copy has no effect on the store.
func (s *Store) Load() Params {
	return *s.current.Load()
}

// Swap validates and publishes a new parameter set. Frames already in
// flight keep the snapshot they loaded; the next frame sees the update.
func (s *Store) Swap(p Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.current.Store(&p)
	return nil
}
