package session

import (
	"context"
	"errors"
	"sync"

	"github.com/webxl/inflation-planner/internal/calculation"
	"github.com/webxl/inflation-planner/internal/domain"
	"github.com/webxl/inflation-planner/internal/transform"
)

var (
	// ErrSuperseded is returned by RequestAdjustment when a newer Update or
	// RequestAdjustment started before the solve finished. The result was
	// discarded.
	ErrSuperseded = errors.New("adjustment superseded by a newer request")

	// ErrNoPendingAdjustment is returned by Keep and Reset when there is
	// nothing to keep or undo.
	ErrNoPendingAdjustment = errors.New("no pending adjustment")
)

// Adjuster solves for a single-parameter shortfall adjustment.
// *shortfall.Solver satisfies it.
type Adjuster interface {
	Solve(ctx context.Context, target domain.AdjustmentTarget, params domain.ProjectionParameters) (*domain.Adjustment, error)
}

type pendingAdjustment struct {
	adjustment *domain.Adjustment
	original   domain.ProjectionParameters
}

// Session owns the current parameters and their projection. Edits
// re-project synchronously; solves run under a cancellable context and only
// commit if nothing newer happened while they ran.
type Session struct {
	engine   *calculation.CalculationEngine
	adjuster Adjuster

	mu         sync.Mutex
	params     domain.ProjectionParameters
	result     *domain.ProjectionResult
	pending    *pendingAdjustment
	generation uint64
	cancel     context.CancelFunc
}

// Snapshot is a consistent view of a session.
type Snapshot struct {
	Parameters domain.ProjectionParameters `json:"parameters"`
	Result     *domain.ProjectionResult    `json:"result"`
	Summary    calculation.Summary         `json:"summary"`
	Pending    *domain.Adjustment          `json:"pending,omitempty"`
}

// New projects params and returns a session holding them.
func New(engine *calculation.CalculationEngine, adjuster Adjuster, params domain.ProjectionParameters) (*Session, error) {
	if engine == nil {
		engine = calculation.NewCalculationEngine()
	}
	result, err := engine.Project(params)
	if err != nil {
		return nil, err
	}
	return &Session{
		engine:   engine,
		adjuster: adjuster,
		params:   params,
		result:   result,
	}, nil
}

// Snapshot returns the current parameters, projection and pending
// adjustment.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Parameters: s.params,
		Result:     s.result,
		Summary:    calculation.Analyze(s.params, s.result),
	}
	if s.pending != nil {
		snap.Pending = s.pending.adjustment
	}
	return snap
}

// supersede cancels any in-flight solve and starts a new generation.
// s.mu must be held.
func (s *Session) supersede() uint64 {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.generation++
	return s.generation
}

// Update replaces the parameters, drops any pending adjustment and cancels
// any in-flight solve. Invalid parameters leave the session unchanged.
func (s *Session) Update(params domain.ProjectionParameters) error {
	result, err := s.engine.Project(params)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.supersede()
	s.params = params
	s.result = result
	s.pending = nil
	return nil
}

// RequestAdjustment solves for target and, if no newer request arrived in
// the meantime, applies the result as a pending adjustment. Solves always
// start from the unadjusted parameters so successive choices do not stack.
func (s *Session) RequestAdjustment(ctx context.Context, target domain.AdjustmentTarget) (*domain.Adjustment, error) {
	s.mu.Lock()
	gen := s.supersede()
	base := s.params
	if s.pending != nil {
		base = s.pending.original
	}
	solveCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()
	defer cancel()

	adj, err := s.adjuster.Solve(solveCtx, target, base)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return nil, ErrSuperseded
	}
	s.cancel = nil
	if err != nil {
		return nil, err
	}

	setter, err := transform.ForAdjustment(*adj)
	if err != nil {
		return nil, err
	}
	adjusted, err := transform.ApplyTransforms(base, []transform.ParameterTransform{setter})
	if err != nil {
		return nil, err
	}
	result, err := s.engine.Project(adjusted)
	if err != nil {
		return nil, err
	}

	s.params = adjusted
	s.result = result
	s.pending = &pendingAdjustment{adjustment: adj, original: base}
	return adj, nil
}

// Keep makes the pending adjustment permanent.
func (s *Session) Keep() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		return ErrNoPendingAdjustment
	}
	s.supersede()
	s.pending = nil
	return nil
}

// Reset restores the parameters from before the pending adjustment.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		return ErrNoPendingAdjustment
	}
	result, err := s.engine.Project(s.pending.original)
	if err != nil {
		return err
	}
	s.supersede()
	s.params = s.pending.original
	s.result = result
	s.pending = nil
	return nil
}
