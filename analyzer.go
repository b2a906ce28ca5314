package reconstruct

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/SeamusWaldron/gocube_reconstruct/internal/algmatch"
	"github.com/SeamusWaldron/gocube_reconstruct/internal/timeline"
	"github.com/SeamusWaldron/gocube_reconstruct/pkg/puzzle"
	"github.com/SeamusWaldron/gocube_reconstruct/pkg/types"
)

// Analyzer follows one solve with one method. Each analyzer owns its cube and
// timeline, so a CFOP and a Roux analyzer can be fed the same solve.
type Analyzer interface {
	Method() Method
	Reseed(facelet string) error
	Feed(m puzzle.Move, timestamp int64)
	Stage() Stage
	HighestStage() Stage
	Analysis(ctx context.Context, totalTime float64) (*Report, error)
}

var (
	_ Analyzer = (*CFOPAnalyzer)(nil)
	_ Analyzer = (*RouxAnalyzer)(nil)
)

// NewAnalyzer creates an analyzer for method seeded with facelet.
func NewAnalyzer(method Method, facelet string, opts ...Option) (Analyzer, error) {
	switch method {
	case MethodCFOP:
		return NewCFOPAnalyzer(facelet, opts...)
	case MethodRoux:
		return NewRouxAnalyzer(facelet, opts...)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, method)
	}
}

// FeedToken parses a move token such as "R'" and feeds it.
func FeedToken(a Analyzer, token string, timestamp int64) error {
	m, err := puzzle.ParseMove(token)
	if err != nil {
		return err
	}
	a.Feed(m, timestamp)
	return nil
}

// FeedSolve reseeds a from the solve's start state and feeds every move.
func FeedSolve(a Analyzer, s *types.Solve) error {
	facelet, err := s.StartFacelet()
	if err != nil {
		return err
	}
	if err := a.Reseed(facelet); err != nil {
		return err
	}
	for i, m := range s.Moves {
		if err := FeedToken(a, m.Notation, m.Timestamp); err != nil {
			return fmt.Errorf("move %d: %w", i, err)
		}
	}
	return nil
}

// engine is the method-independent part of an analyzer: it owns the cube,
// recomputes the status after each move and records it on the timeline.
type engine[S any] struct {
	method  Method
	cfg     *config
	compute func(*puzzle.Cube) S
	stageOf func(S) Stage

	cube     *puzzle.Cube
	status   S
	timeline *timeline.Timeline[S]
}

func newEngine[S any](method Method, facelet string, cfg *config, compute func(*puzzle.Cube) S, stageOf func(S) Stage) (*engine[S], error) {
	e := &engine[S]{
		method:  method,
		cfg:     cfg,
		compute: compute,
		stageOf: stageOf,
	}
	if err := e.seed(facelet); err != nil {
		return nil, err
	}
	return e, nil
}

// seed rebuilds the cube, status and timeline from scratch.
func (e *engine[S]) seed(facelet string) error {
	c, err := puzzle.FromFacelet(facelet)
	if err != nil {
		return fmt.Errorf("failed to seed %s analyzer: %w", e.method, err)
	}

	e.cube = c
	e.status = e.compute(c)
	e.timeline = timeline.New(e.status, c.Facelet(), e.rank, e.cfg.firstMoveAdjustment)

	e.log().WithField("stage", e.stageOf(e.status).String()).Debug("analyzer seeded")
	return nil
}

func (e *engine[S]) rank(s S) int {
	return e.stageOf(s).Rank()
}

func (e *engine[S]) feed(m puzzle.Move, timestamp int64) {
	e.cube.Apply(m)
	e.status = e.compute(e.cube)

	rec := types.Move{Notation: m.Notation(), Timestamp: timestamp}
	if !e.timeline.Record(rec, e.status, e.cube.Facelet()) {
		return
	}

	entries := e.timeline.Entries()
	closed := entries[len(entries)-2]
	stage := e.stageOf(e.status)
	e.log().WithFields(logrus.Fields{
		"stage":      stage.String(),
		"moves":      len(closed.Moves),
		"elapsed_ms": closed.Elapsed,
	}).Debug("stage reached")

	if e.cfg.stageCallback != nil {
		e.cfg.stageCallback(stage, stage.String())
	}
}

func (e *engine[S]) log() logrus.FieldLogger {
	return e.cfg.logger.WithField("method", string(e.method))
}

// match recognizes the last-layer case in facelet with down turned to D.
func (e *engine[S]) match(ctx context.Context, key string, mode algmatch.Mode, facelet string, down puzzle.Vec) (*algmatch.Algorithm, error) {
	if e.cfg.library == nil {
		return nil, nil
	}
	lib, err := e.cfg.library.Load(ctx, key)
	if err != nil {
		return nil, err
	}

	c, err := puzzle.FromFacelet(facelet)
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild snapshot: %w", err)
	}
	fp, err := algmatch.Canonical(c, down)
	if err != nil {
		return nil, err
	}
	return algmatch.Match(fp, lib, mode), nil
}
