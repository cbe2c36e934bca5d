package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"chartAnalystBot/internal/chart"
	"chartAnalystBot/internal/finance"
	"chartAnalystBot/internal/indicator"
	"chartAnalystBot/internal/openai"

	"github.com/google/uuid"
)

// State is the orchestrator's position in the fetch -> chart -> analysis pipeline.
type State int

const (
	Empty State = iota
	Fetched
	Validated
	ChartReady
	Analyzing
	AnalysisDone
	Error
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case Fetched:
		return "fetched"
	case Validated:
		return "validated"
	case ChartReady:
		return "chart ready"
	case Analyzing:
		return "analyzing"
	case AnalysisDone:
		return "analysis done"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

var ErrNotLoaded = errors.New("no price data loaded, fetch a symbol first")

// Deps are the collaborators a session drives.
type Deps struct {
	Provider finance.Provider
	Engine   indicator.Computer
	Renderer chart.Renderer
	Analyst  openai.ImageAnalyzer
	// TempDir holds the short-lived chart image of an analysis run; empty means os.TempDir().
	TempDir string
}

// Session is one user's pipeline state. Every step holds the session lock for its
// whole duration, so steps never overlap.
type Session struct {
	mu   sync.Mutex
	deps Deps

	state     State
	request   finance.FetchRequest
	series    *finance.PriceSeries
	selection []indicator.Kind
	spec      *chart.Spec
	warnings  []indicator.Failure
	failure   *Failure
}

func New(deps Deps) *Session {
	return &Session{deps: deps, selection: indicator.DefaultSelection()}
}

// Snapshot is a read-only view for display.
type Snapshot struct {
	State     State
	Symbol    string
	Request   finance.FetchRequest
	Rows      int
	Preview   []finance.Bar
	Selection []indicator.Kind
	Warnings  []indicator.Failure
	Failure   *Failure
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		State:     s.state,
		Request:   s.request,
		Selection: append([]indicator.Kind(nil), s.selection...),
		Warnings:  append([]indicator.Failure(nil), s.warnings...),
		Failure:   s.failure,
	}
	if s.series != nil {
		snap.Symbol = s.series.Symbol
		snap.Rows = s.series.Len()
		snap.Preview = s.series.Head(5)
	}
	return snap
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Load fetches, validates and charts a new series, replacing any previous one.
// On failure nothing of the new fetch is kept and the session is in Error.
func (s *Session) Load(ctx context.Context, req finance.FetchRequest) (*chart.Spec, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clearData()
	s.request = req

	recs, err := s.deps.Provider.FetchDaily(ctx, req)
	if err != nil {
		return nil, s.fail(&Failure{Kind: FetchFailure, Err: err})
	}
	s.state = Fetched

	series, err := finance.Validate(req.Symbol, recs)
	if err != nil {
		return nil, s.fail(&Failure{Kind: ValidationFailure, Err: err})
	}
	s.series = series
	s.state = Validated
	log.Printf("session: loaded %s, %d rows from %s", series.Symbol, series.Len(), s.deps.Provider.Name())

	s.rebuild()
	return s.spec, nil
}

// Select replaces the indicator selection. A loaded chart is invalidated and rebuilt
// on next use; the session stays at ChartReady.
func (s *Session) Select(kinds []indicator.Kind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = append([]indicator.Kind(nil), kinds...)
	if s.series == nil {
		return
	}
	s.spec = nil
	s.warnings = nil
	s.state = ChartReady
}

// Chart returns the current chart, rebuilding it if the selection changed.
func (s *Session) Chart() (*chart.Spec, []indicator.Failure, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.series == nil {
		return nil, nil, ErrNotLoaded
	}
	if s.spec == nil {
		s.rebuild()
	}
	return s.spec, append([]indicator.Failure(nil), s.warnings...), nil
}

// Render rasterizes the current chart for display.
func (s *Session) Render() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.series == nil {
		return nil, ErrNotLoaded
	}
	if s.spec == nil {
		s.rebuild()
	}
	return s.deps.Renderer.Render(s.spec)
}

// Analyze renders the current chart and asks the model for a recommendation. It always
// renders and submits afresh. On failure the session returns to ChartReady.
func (s *Session) Analyze(ctx context.Context) (openai.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.series == nil {
		return openai.Result{}, ErrNotLoaded
	}
	if s.spec == nil {
		s.rebuild()
	}
	s.state = Analyzing
	res, err := s.renderAndAnalyze(ctx)
	if err != nil {
		s.state = ChartReady
		f := &Failure{Kind: AnalysisFailure, Err: err}
		s.failure = f
		log.Printf("session: %v", f)
		return openai.Result{}, f
	}
	s.state = AnalysisDone
	s.failure = nil
	return res, nil
}

// Close ends the session and drops all of its data.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearData()
	s.request = finance.FetchRequest{}
	s.selection = indicator.DefaultSelection()
}

func (s *Session) renderAndAnalyze(ctx context.Context) (openai.Result, error) {
	img, err := s.deps.Renderer.Render(s.spec)
	if err != nil {
		return openai.Result{}, fmt.Errorf("render chart: %w", err)
	}

	run := uuid.NewString()
	dir := s.deps.TempDir
	if dir == "" {
		dir = os.TempDir()
	}
	path := filepath.Join(dir, "chart-"+run+".png")
	defer func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("analysis: run %s: remove %s: %v", run, path, err)
		}
	}()
	if err := os.WriteFile(path, img, 0o600); err != nil {
		return openai.Result{}, fmt.Errorf("write chart image: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return openai.Result{}, fmt.Errorf("read chart image: %w", err)
	}

	log.Printf("analysis: run %s: submitting %s chart (%d bytes)", run, s.series.Symbol, len(data))
	res, err := s.deps.Analyst.Analyze(ctx, data)
	if err != nil {
		return openai.Result{}, err
	}
	log.Printf("analysis: run %s: done", run)
	return res, nil
}

func (s *Session) rebuild() {
	results, failures := s.deps.Engine.Compute(s.series, s.selection)
	s.warnings = failures
	s.spec = chart.Build(s.series, results)
	s.state = ChartReady
	s.failure = nil
}

func (s *Session) clearData() {
	s.series = nil
	s.spec = nil
	s.warnings = nil
	s.failure = nil
	s.state = Empty
}

func (s *Session) fail(f *Failure) error {
	s.series = nil
	s.spec = nil
	s.failure = f
	s.state = Error
	log.Printf("session: %v", f)
	return f
}
