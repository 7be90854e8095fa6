package httpmock

import (
	"errors"
	"fmt"
	"strings"

	"github.com/daFish/functional-test-helpers/internal/matching"
	"github.com/daFish/functional-test-helpers/pkg/mock"
)

// Sentinel errors for errors.Is.
var (
	// ErrNoMatch means no registered pattern accepted the request.
	ErrNoMatch = errors.New("no matching request pattern")

	// ErrResponseRealization means the matched pattern's response could not be built.
	ErrResponseRealization = errors.New("response realization failed")
)

// NearMiss is a pattern that satisfied some but not all of its constraints.
type NearMiss = matching.NearMiss

const maxBodySummary = 200

// NoMatchError is returned when no pattern accepts a request.
type NoMatchError struct {
	Request *mock.Request

	// Patterns describes every registered pattern in registration order.
	Patterns []string

	// NearMisses are the closest patterns, best first.
	NearMisses []NearMiss
}

func (e *NoMatchError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %s", ErrNoMatch, e.Request)
	if len(e.Request.Body) > 0 {
		fmt.Fprintf(&sb, "\nbody: %s", e.Request.BodySummary(maxBodySummary))
	}

	if len(e.Patterns) == 0 {
		sb.WriteString("\nno patterns registered")
		return sb.String()
	}

	sb.WriteString("\nregistered patterns:")
	for _, p := range e.Patterns {
		sb.WriteString("\n  - ")
		sb.WriteString(p)
	}

	if len(e.NearMisses) > 0 {
		sb.WriteString("\nclosest:")
		for _, nm := range e.NearMisses {
			label := nm.Description
			if nm.PatternName != "" {
				label = nm.PatternName + ": " + label
			}
			fmt.Fprintf(&sb, "\n  - %s (%d%%): %s", label, nm.MatchPercentage, nm.Reason)
		}
	}
	return sb.String()
}

// Is reports whether target is ErrNoMatch.
func (e *NoMatchError) Is(target error) bool {
	return target == ErrNoMatch
}

// RealizationError is returned when the matched pattern's response cannot
// be built, e.g. because its body file is missing. The call is still
// recorded on the pattern.
type RealizationError struct {
	Pattern string
	Err     error
}

func (e *RealizationError) Error() string {
	return fmt.Sprintf("%s for pattern %s: %v", ErrResponseRealization, e.Pattern, e.Err)
}

func (e *RealizationError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrResponseRealization.
func (e *RealizationError) Is(target error) bool {
	return target == ErrResponseRealization
}
