package matching

import (
	"strings"

	"github.com/daFish/functional-test-helpers/pkg/mock"
)

// Candidate is one registered pattern as the engine sees it.
type Candidate struct {
	ID      string
	Name    string
	Matcher *mock.Matcher
}

// MatchResult is the outcome of Select.
type MatchResult struct {
	// Index is the position of the winning candidate, -1 when nothing matched.
	Index   int
	Score   int
	Matched bool
}

// Select scores every candidate against r in order and returns the best one.
// Higher scores win; on equal scores the earlier candidate wins.
func Select(candidates []Candidate, r *mock.Request) MatchResult {
	result := MatchResult{Index: -1}
	for i, c := range candidates {
		score, ok := Score(c.Matcher, r)
		if !ok {
			continue
		}
		if !result.Matched || score > result.Score {
			result = MatchResult{Index: i, Score: score, Matched: true}
		}
	}
	return result
}

// Score evaluates every constraint of m against r.
// It returns false as soon as one constraint fails. A nil or empty matcher
// qualifies with score zero.
func Score(m *mock.Matcher, r *mock.Request) (int, bool) {
	if m == nil {
		return 0, true
	}

	score := 0

	if m.Method != "" {
		if !MatchMethod(m.Method, r.Method) {
			return 0, false
		}
		score += ScoreMethod
	}

	if m.Path != "" || m.Host != "" {
		if !MatchURI(m, r) {
			return 0, false
		}
		score += ScorePathExact
	}

	for _, p := range m.QueryParams {
		if !MatchQueryParam(p, r.Query) {
			return 0, false
		}
		score += ScoreQueryParam
	}

	for _, h := range m.Headers {
		if !MatchHeader(h, r.Header) {
			return 0, false
		}
		score += ScoreHeader
	}

	if !m.Body.IsEmpty() {
		bodyScore, ok := MatchBody(m.Body, r)
		if !ok {
			return 0, false
		}
		score += bodyScore
	}

	if len(m.JSONPath) > 0 {
		jp := MatchJSONPath(m.JSONPath, r)
		if jp.Score == 0 {
			return 0, false
		}
		score += jp.Score
	}

	if m.Expression != "" {
		ok, err := MatchExpression(m.Expression, r)
		if err != nil || !ok {
			return 0, false
		}
		score += ScoreExpression
	}

	return score, true
}

// MatchMethod checks if the request method matches.
func MatchMethod(expected, actual string) bool {
	return strings.EqualFold(expected, actual)
}

// MatchURI checks the path, and for absolute patterns the scheme and host.
func MatchURI(m *mock.Matcher, r *mock.Request) bool {
	if m.Host != "" {
		if m.Host != r.Host {
			return false
		}
		if m.Scheme != "" && m.Scheme != r.Scheme {
			return false
		}
	}
	if m.Path != "" && m.Path != r.Path {
		return false
	}
	return true
}
