// Package model holds the fitted-state bookkeeping shared by regression
// models and the JSON summary handed to presentation layers.
package model

import (
	"sync"

	"github.com/YuminosukeSato/statmodels/pkg/errors"
)

// StateManager tracks whether a model has been fitted and the dimensions of
// the last successful fit. It is safe for concurrent use.
type StateManager struct {
	mu sync.RWMutex

	fitted  bool
	nParams int
	nObs    int
	fits    int
}

// NewStateManager creates a new StateManager instance.
func NewStateManager() *StateManager {
	return &StateManager{}
}

// IsFitted returns whether the model has been fitted.
func (s *StateManager) IsFitted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fitted
}

// SetFitted marks the model as fitted with nParams columns and nObs rows.
func (s *StateManager) SetFitted(nParams, nObs int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fitted = true
	s.nParams = nParams
	s.nObs = nObs
	s.fits++
}

// Reset resets the fitted state. The fit counter is kept.
func (s *StateManager) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fitted = false
	s.nParams = 0
	s.nObs = 0
}

// Dimensions returns the parameter and observation counts of the last fit.
func (s *StateManager) Dimensions() (nParams, nObs int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nParams, s.nObs
}

// RequireFitted returns a NotFittedError naming modelName and method if the
// model has not been fitted.
func (s *StateManager) RequireFitted(modelName, method string) error {
	if !s.IsFitted() {
		return errors.NewNotFittedError(modelName, method)
	}
	return nil
}

// ModelState is a snapshot of a StateManager.
type ModelState struct {
	Fitted  bool `json:"fitted"`
	NParams int  `json:"n_params,omitempty"`
	NObs    int  `json:"n_obs,omitempty"`
	Fits    int  `json:"fits"`
}

// State returns the current state.
func (s *StateManager) State() ModelState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ModelState{
		Fitted:  s.fitted,
		NParams: s.nParams,
		NObs:    s.nObs,
		Fits:    s.fits,
	}
}
