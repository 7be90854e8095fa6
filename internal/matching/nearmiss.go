package matching

import (
	"fmt"
	"sort"
	"strings"

	"github.com/daFish/functional-test-helpers/pkg/mock"
	"github.com/daFish/functional-test-helpers/pkg/util"
)

// FieldResult describes whether a single matcher field matched the request.
type FieldResult struct {
	Field    string `json:"field"`
	Matched  bool   `json:"matched"`
	Score    int    `json:"score"`
	MaxScore int    `json:"maxScore"`
	Expected any    `json:"expected,omitempty"`
	Actual   any    `json:"actual,omitempty"`
	Details  any    `json:"details,omitempty"`
}

// ParamDetail describes the match result for a single header or query parameter.
type ParamDetail struct {
	Key      string `json:"key"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
	Matched  bool   `json:"matched"`
}

// NearMiss is a pattern that partially matched a request.
type NearMiss struct {
	PatternID        string        `json:"patternId"`
	PatternName      string        `json:"patternName,omitempty"`
	Description      string        `json:"description"`
	Score            int           `json:"score"`
	MaxPossibleScore int           `json:"maxPossibleScore"`
	MatchPercentage  int           `json:"matchPercentage"`
	Fields           []FieldResult `json:"fields"`
	Reason           string        `json:"reason"`
}

const displayBodyLen = 200

// Breakdown evaluates every constraint of m against r without
// short-circuiting, returning per-field results. Only constrained fields
// appear in the breakdown.
func Breakdown(m *mock.Matcher, r *mock.Request) *NearMiss {
	if m == nil {
		return &NearMiss{}
	}

	result := &NearMiss{Description: m.String()}
	add := func(f FieldResult) {
		result.Fields = append(result.Fields, f)
		result.Score += f.Score
		result.MaxPossibleScore += f.MaxScore
	}

	if m.Method != "" {
		add(scored(FieldResult{
			Field:    "method",
			Matched:  MatchMethod(m.Method, r.Method),
			MaxScore: ScoreMethod,
			Expected: strings.ToUpper(m.Method),
			Actual:   r.Method,
		}))
	}

	if m.Path != "" || m.Host != "" {
		actual := r.Path
		if m.Host != "" {
			actual = r.Scheme + "://" + r.Host + r.Path
		}
		add(scored(FieldResult{
			Field:    "uri",
			Matched:  MatchURI(m, r),
			MaxScore: ScorePathExact,
			Expected: m.URI(),
			Actual:   actual,
		}))
	}

	if len(m.QueryParams) > 0 {
		add(paramsResult("queryParams", m.QueryParams, ScoreQueryParam,
			func(p mock.Param) bool { return MatchQueryParam(p, r.Query) },
			func(name string) string { return strings.Join(r.Query[name], ",") }))
	}

	if len(m.Headers) > 0 {
		add(paramsResult("headers", m.Headers, ScoreHeader,
			func(p mock.Param) bool { return MatchHeader(p, r.Header) },
			func(name string) string { return strings.Join(r.Header.Values(name), ",") }))
	}

	if !m.Body.IsEmpty() {
		add(bodyResult(m.Body, r))
	}

	if len(m.JSONPath) > 0 {
		jp := MatchJSONPath(m.JSONPath, r)
		add(FieldResult{
			Field:    "jsonPath",
			Matched:  jp.Score > 0,
			Score:    jp.Score,
			MaxScore: len(m.JSONPath) * ScoreJSONPathCondition,
			Expected: m.JSONPath,
		})
	}

	if m.Expression != "" {
		ok, err := MatchExpression(m.Expression, r)
		f := FieldResult{
			Field:    "expression",
			Matched:  ok,
			MaxScore: ScoreExpression,
			Expected: m.Expression,
		}
		if err != nil {
			f.Actual = err.Error()
		}
		add(scored(f))
	}

	if result.MaxPossibleScore > 0 {
		result.MatchPercentage = (result.Score * 100) / result.MaxPossibleScore
	}
	result.Reason = GenerateReason(result.Fields)

	return result
}

func scored(f FieldResult) FieldResult {
	if f.Matched {
		f.Score = f.MaxScore
	}
	return f
}

func paramsResult(field string, params []mock.Param, weight int, match func(mock.Param) bool, actual func(string) string) FieldResult {
	f := FieldResult{Field: field, Matched: true, MaxScore: len(params) * weight}
	details := make([]ParamDetail, 0, len(params))
	for _, p := range params {
		matched := match(p)
		got := actual(p.Name)
		if got == "" {
			got = "(missing)"
		}
		if matched {
			f.Score += weight
		} else {
			f.Matched = false
		}
		details = append(details, ParamDetail{Key: p.Name, Expected: p.Value, Actual: got, Matched: matched})
	}
	f.Details = details
	return f
}

func bodyResult(b mock.Body, r *mock.Request) FieldResult {
	score, matched := MatchBody(b, r)
	f := FieldResult{
		Field:    "body",
		Matched:  matched,
		Score:    score,
		MaxScore: maxBodyScore(b),
		Expected: b.String(),
		Actual:   r.BodySummary(displayBodyLen),
	}
	if matched {
		return f
	}

	switch b.Kind {
	case mock.BodyJSON:
		if !r.IsJSON {
			f.Details = fmt.Sprintf("request body is not JSON (content type %q)", r.MediaType)
			break
		}
		if patch, err := JSONDiff(b.JSON, r.JSON); err == nil {
			f.Details = describePatch(patch)
		}
	case mock.BodyForm:
		if r.Form == nil {
			f.Details = fmt.Sprintf("request body is not form-encoded (content type %q)", r.MediaType)
		}
	case mock.BodyMultipart:
		if r.Multipart == nil {
			f.Details = fmt.Sprintf("request body is not multipart (content type %q)", r.MediaType)
		} else {
			f.Details = fmt.Sprintf("expected %d parts, got %d", len(b.Multipart), len(r.Multipart))
		}
	}
	return f
}

// CollectNearMisses breaks down every candidate against r and returns the
// top N by partial score. Candidates with nothing matched are left out.
func CollectNearMisses(candidates []Candidate, r *mock.Request, topN int) []NearMiss {
	if topN <= 0 {
		topN = 3
	}

	var misses []NearMiss
	for _, c := range candidates {
		if c.Matcher == nil || c.Matcher.IsEmpty() {
			continue
		}
		nm := Breakdown(c.Matcher, r)
		if nm.Score == 0 {
			continue
		}
		nm.PatternID = c.ID
		nm.PatternName = c.Name
		misses = append(misses, *nm)
	}

	sort.SliceStable(misses, func(i, j int) bool {
		if misses[i].Score != misses[j].Score {
			return misses[i].Score > misses[j].Score
		}
		return misses[i].MatchPercentage > misses[j].MatchPercentage
	})

	if len(misses) > topN {
		misses = misses[:topN]
	}
	return misses
}

// GenerateReason creates a human-readable explanation of why a pattern
// partially matched but ultimately failed.
func GenerateReason(fields []FieldResult) string {
	if len(fields) == 0 {
		return "no fields to compare"
	}

	var matched []string
	var firstMismatch *FieldResult

	for i := range fields {
		if fields[i].Matched {
			matched = append(matched, fields[i].Field)
		} else if firstMismatch == nil {
			firstMismatch = &fields[i]
		}
	}

	if firstMismatch == nil {
		return "all specified fields matched"
	}
	if len(matched) == 0 {
		return formatMismatch(firstMismatch)
	}
	return joinFields(matched) + " matched, but " + formatMismatch(firstMismatch)
}

func formatMismatch(f *FieldResult) string {
	switch f.Field {
	case "method":
		return fmt.Sprintf("method expected %q, got %q", f.Expected, f.Actual)
	case "uri":
		return fmt.Sprintf("uri expected %q, got %q", f.Expected, f.Actual)
	case "headers", "queryParams":
		label := "header"
		if f.Field == "queryParams" {
			label = "query param"
		}
		if details, ok := f.Details.([]ParamDetail); ok {
			for _, d := range details {
				if !d.Matched {
					return fmt.Sprintf("%s %s expected %q, got %q", label, d.Key, d.Expected, d.Actual)
				}
			}
		}
		return label + " mismatch"
	case "body":
		if d, ok := f.Details.(string); ok && d != "" {
			return fmt.Sprintf("body expected %s: %s", f.Expected, util.Truncate(d, displayBodyLen))
		}
		return fmt.Sprintf("body expected %s", f.Expected)
	case "jsonPath":
		return "body JSONPath condition not satisfied"
	case "expression":
		if f.Actual != nil {
			return fmt.Sprintf("expression %q failed: %v", f.Expected, f.Actual)
		}
		return fmt.Sprintf("expression %q evaluated to false", f.Expected)
	default:
		return f.Field + " did not match"
	}
}

// joinFields joins field names with commas and "and".
func joinFields(fields []string) string {
	switch len(fields) {
	case 0:
		return ""
	case 1:
		return fields[0]
	case 2:
		return fields[0] + " and " + fields[1]
	default:
		return strings.Join(fields[:len(fields)-1], ", ") + ", and " + fields[len(fields)-1]
	}
}
