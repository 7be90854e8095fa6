package matching

import (
	"bytes"
	"encoding/json"
	"slices"

	"github.com/wI2L/jsondiff"

	"github.com/daFish/functional-test-helpers/pkg/mock"
)

// MatchBody checks the request body against b, dispatching on the body kind.
// Structured kinds also require the request to carry the matching media type.
// Returns the body score and whether it matched.
func MatchBody(b mock.Body, r *mock.Request) (int, bool) {
	switch b.Kind {
	case mock.BodyNone:
		return 0, true
	case mock.BodyContent:
		if bytes.Equal(b.Content, r.Body) {
			return ScoreBodyContent, true
		}
	case mock.BodyJSON:
		if MatchJSONBody(b.JSON, r) {
			return ScoreBodyJSON, true
		}
	case mock.BodyForm:
		if MatchForm(b.Form, r) {
			return len(b.Form) * ScoreFormField, true
		}
	case mock.BodyMultipart:
		if MatchMultipart(b.Multipart, r) {
			return len(b.Multipart) * ScoreMultipartField, true
		}
	}
	return 0, false
}

// maxBodyScore is the score MatchBody returns for b when it matches.
func maxBodyScore(b mock.Body) int {
	switch b.Kind {
	case mock.BodyContent:
		return ScoreBodyContent
	case mock.BodyJSON:
		return ScoreBodyJSON
	case mock.BodyForm:
		return len(b.Form) * ScoreFormField
	case mock.BodyMultipart:
		return len(b.Multipart) * ScoreMultipartField
	default:
		return 0
	}
}

// MatchJSONBody checks that the request body is JSON and structurally equal to expected.
func MatchJSONBody(expected any, r *mock.Request) bool {
	if !r.IsJSON {
		return false
	}
	patch, err := JSONDiff(expected, r.JSON)
	return err == nil && len(patch) == 0
}

// JSONDiff returns the JSON Patch turning expected into actual.
func JSONDiff(expected, actual any) (jsondiff.Patch, error) {
	normalized, err := mock.NormalizeJSON(expected)
	if err != nil {
		return nil, err
	}
	return jsondiff.Compare(normalized, actual)
}

// describePatch renders a patch for diagnostics.
func describePatch(patch jsondiff.Patch) string {
	data, err := json.Marshal(patch)
	if err != nil {
		return ""
	}
	return string(data)
}

// MatchForm checks that the request is form-encoded and carries exactly the
// declared fields: no field missing, no extra field, same values per field.
func MatchForm(fields []mock.Param, r *mock.Request) bool {
	if r.Form == nil {
		return false
	}

	expected := make(map[string][]string, len(fields))
	for _, f := range fields {
		expected[f.Name] = append(expected[f.Name], f.Value)
	}
	if len(expected) != len(r.Form) {
		return false
	}
	for name, want := range expected {
		got, ok := r.Form[name]
		if !ok || len(got) != len(want) {
			return false
		}
		want = slices.Clone(want)
		got = slices.Clone(got)
		slices.Sort(want)
		slices.Sort(got)
		if !slices.Equal(want, got) {
			return false
		}
	}
	return true
}

// MatchMultipart checks that the request is multipart and that its parts pair
// up one to one with the declared fields. The boundary plays no part.
func MatchMultipart(fields []mock.Field, r *mock.Request) bool {
	if r.Multipart == nil || len(fields) != len(r.Multipart) {
		return false
	}

	used := make([]bool, len(r.Multipart))
	for _, f := range fields {
		found := false
		for i, part := range r.Multipart {
			if used[i] || !MatchField(f, part) {
				continue
			}
			used[i] = true
			found = true
			break
		}
		if !found {
			return false
		}
	}
	return true
}

// MatchField compares one declared multipart field with one request part.
// Name and content are always compared. The filename is compared when the
// field declares one, the content type when both sides declare one.
func MatchField(expected, actual mock.Field) bool {
	if expected.Name != actual.Name || expected.Content != actual.Content {
		return false
	}
	if expected.Filename != "" && expected.Filename != actual.Filename {
		return false
	}
	if expected.ContentType != "" && actual.ContentType != "" &&
		!SameMediaType(expected.ContentType, actual.ContentType) {
		return false
	}
	return true
}
