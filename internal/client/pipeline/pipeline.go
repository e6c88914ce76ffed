// Package pipeline runs an ordered list of dependent stages over a shared
// state, validating each stage's output before the next one starts.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/aihr/internal/logging"
)

// ErrIncomplete is returned when a pipeline finished without running every
// stage.
var ErrIncomplete = errors.New("pipeline incomplete")

// Stage is one step. Run fills its part of the state; Validate, if set,
// checks that part before the next stage may run.
type Stage[S any] struct {
	Name     string
	Run      func(ctx context.Context, state *S) error
	Validate func(state *S) error
}

// StageError reports which stage failed.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

type Pipeline[S any] struct {
	stages []Stage[S]
	log    logging.Logger
}

func New[S any](log logging.Logger, stages ...Stage[S]) *Pipeline[S] {
	if log == nil {
		log = logging.Nop()
	}
	return &Pipeline[S]{stages: stages, log: log}
}

// Names lists the stage names in execution order.
func (p *Pipeline[S]) Names() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name
	}
	return names
}

// Run executes the stages in order and stops at the first failure. It
// returns the names of the stages that completed, and succeeds only when
// that list covers every stage.
func (p *Pipeline[S]) Run(ctx context.Context, state *S) ([]string, error) {
	executed := make([]string, 0, len(p.stages))

	for _, s := range p.stages {
		if err := ctx.Err(); err != nil {
			return executed, &StageError{Stage: s.Name, Err: err}
		}
		if s.Run == nil {
			return executed, &StageError{Stage: s.Name, Err: ErrIncomplete}
		}

		start := time.Now()
		if err := s.Run(ctx, state); err != nil {
			return executed, &StageError{Stage: s.Name, Err: err}
		}
		if s.Validate != nil {
			if err := s.Validate(state); err != nil {
				return executed, &StageError{Stage: s.Name, Err: err}
			}
		}

		executed = append(executed, s.Name)
		p.log.Debug(ctx, "pipeline stage done", "stage", s.Name, "elapsed", time.Since(start))
	}

	if len(executed) != len(p.stages) {
		return executed, ErrIncomplete
	}
	return executed, nil
}
