package session

import (
	"errors"
	"fmt"

	"chartAnalystBot/internal/finance"
)

// FailureKind classifies what went wrong in a pipeline step.
type FailureKind int

const (
	FetchFailure FailureKind = iota + 1
	ValidationFailure
	IndicatorFailure
	AnalysisFailure
)

func (k FailureKind) String() string {
	switch k {
	case FetchFailure:
		return "fetch failed"
	case ValidationFailure:
		return "invalid data"
	case IndicatorFailure:
		return "indicator failed"
	case AnalysisFailure:
		return "analysis failed"
	default:
		return fmt.Sprintf("FailureKind(%d)", int(k))
	}
}

// Failure is what every step returns instead of raising; the bot only renders Message().
type Failure struct {
	Kind FailureKind
	Err  error
}

func (f *Failure) Error() string { return f.Kind.String() + ": " + f.Err.Error() }

func (f *Failure) Unwrap() error { return f.Err }

// Message is the user-facing text for the failure.
func (f *Failure) Message() string {
	switch f.Kind {
	case FetchFailure:
		return "Error fetching data: " + f.Err.Error()
	case ValidationFailure:
		if errors.Is(f.Err, finance.ErrNoData) {
			return "No data found for the specified ticker and date range. Please check your inputs."
		}
		return "The data contains null or invalid values (" + f.Err.Error() + "). Please check your inputs."
	case IndicatorFailure:
		return f.Err.Error()
	case AnalysisFailure:
		return "AI analysis failed: " + f.Err.Error()
	default:
		return f.Error()
	}
}

// AsFailure extracts a *Failure from err.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	ok := errors.As(err, &f)
	return f, ok
}
