package matching

import (
	"testing"

	"github.com/daFish/functional-test-helpers/pkg/mock"
)

func jsonRequest(t *testing.T, body string) *mock.Request {
	t.Helper()
	return newRequest(t, "POST", "/", mock.Options{
		Body:    []byte(body),
		Headers: []string{"Content-Type: application/json"},
	})
}

func TestMatchJSONPath(t *testing.T) {
	tests := []struct {
		name       string
		conditions map[string]any
		body       string
		wantScore  int
	}{
		{
			name:       "string field",
			conditions: map[string]any{"$.status": "active"},
			body:       `{"status": "active", "name": "test"}`,
			wantScore:  ScoreJSONPathCondition,
		},
		{
			name:       "string field mismatch",
			conditions: map[string]any{"$.status": "active"},
			body:       `{"status": "inactive"}`,
		},
		{
			name:       "integer expectation against json number",
			conditions: map[string]any{"$.count": 42},
			body:       `{"count": 42}`,
			wantScore:  ScoreJSONPathCondition,
		},
		{
			name:       "number mismatch",
			conditions: map[string]any{"$.count": 42},
			body:       `{"count": 43}`,
		},
		{
			name:       "boolean false",
			conditions: map[string]any{"$.enabled": false},
			body:       `{"enabled": false}`,
			wantScore:  ScoreJSONPathCondition,
		},
		{
			name:       "null",
			conditions: map[string]any{"$.deleted": nil},
			body:       `{"deleted": null}`,
			wantScore:  ScoreJSONPathCondition,
		},
		{
			name:       "nested path",
			conditions: map[string]any{"$.user.address.city": "NYC"},
			body:       `{"user": {"address": {"city": "NYC"}}}`,
			wantScore:  ScoreJSONPathCondition,
		},
		{
			name:       "intermediate missing",
			conditions: map[string]any{"$.user.address.city": "NYC"},
			body:       `{"user": {"name": "John"}}`,
		},
		{
			name:       "array index",
			conditions: map[string]any{"$.items[1].id": 2},
			body:       `{"items": [{"id": 1}, {"id": 2}]}`,
			wantScore:  ScoreJSONPathCondition,
		},
		{
			name:       "wildcard matches any element",
			conditions: map[string]any{"$.items[*].id": 2},
			body:       `{"items": [{"id": 1}, {"id": 2}]}`,
			wantScore:  ScoreJSONPathCondition,
		},
		{
			name:       "object value",
			conditions: map[string]any{"$.user": map[string]any{"name": "John", "age": 30}},
			body:       `{"user": {"age": 30, "name": "John"}}`,
			wantScore:  ScoreJSONPathCondition,
		},
		{
			name: "all conditions must hold",
			conditions: map[string]any{
				"$.status": "active",
				"$.count":  1,
			},
			body:      `{"status": "active", "count": 1}`,
			wantScore: 2 * ScoreJSONPathCondition,
		},
		{
			name: "one failing condition fails all",
			conditions: map[string]any{
				"$.status": "active",
				"$.count":  2,
			},
			body: `{"status": "active", "count": 1}`,
		},
		{
			name:       "invalid expression",
			conditions: map[string]any{"$[invalid": "value"},
			body:       `{"field": "value"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := MatchJSONPath(tt.conditions, jsonRequest(t, tt.body))
			if result.Score != tt.wantScore {
				t.Errorf("MatchJSONPath() score = %d, want %d", result.Score, tt.wantScore)
			}
		})
	}
}

func TestMatchJSONPath_ExistenceChecks(t *testing.T) {
	tests := []struct {
		name       string
		conditions map[string]any
		body       string
		wantMatch  bool
	}{
		{
			name:       "exists true - field present",
			conditions: map[string]any{"$.token": map[string]any{"exists": true}},
			body:       `{"token": "abc123"}`,
			wantMatch:  true,
		},
		{
			name:       "exists true - field missing",
			conditions: map[string]any{"$.token": map[string]any{"exists": true}},
			body:       `{"name": "test"}`,
		},
		{
			name:       "exists false - field missing",
			conditions: map[string]any{"$.deleted": map[string]any{"exists": false}},
			body:       `{"name": "test"}`,
			wantMatch:  true,
		},
		{
			name:       "exists false - field present",
			conditions: map[string]any{"$.deleted": map[string]any{"exists": false}},
			body:       `{"deleted": true}`,
		},
		{
			name:       "exists true - field null",
			conditions: map[string]any{"$.value": map[string]any{"exists": true}},
			body:       `{"value": null}`,
			wantMatch:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := MatchJSONPath(tt.conditions, jsonRequest(t, tt.body))
			if got := result.Score > 0; got != tt.wantMatch {
				t.Errorf("MatchJSONPath() match = %v, want %v", got, tt.wantMatch)
			}
		})
	}
}

func TestMatchJSONPath_NonJSONBody(t *testing.T) {
	conditions := map[string]any{"$.field": "value"}

	for name, r := range map[string]*mock.Request{
		"plain text":      newRequest(t, "POST", "/", mock.Options{Body: []byte(`{"field": "value"}`)}),
		"malformed json":  jsonRequest(t, `{"field": "value"`),
		"empty body":      jsonRequest(t, ""),
		"form with field": newRequest(t, "POST", "/", formOptions("field=value")),
	} {
		t.Run(name, func(t *testing.T) {
			if result := MatchJSONPath(conditions, r); result.Score != 0 {
				t.Errorf("MatchJSONPath() score = %d, want 0", result.Score)
			}
		})
	}
}

func TestMatchJSONPath_MatchedValues(t *testing.T) {
	result := MatchJSONPath(map[string]any{
		"$.user.name": "John",
		"$.token":     map[string]any{"exists": true},
	}, jsonRequest(t, `{"user": {"name": "John"}, "token": "t"}`))

	if got := result.Matched["$.user.name"]; got != "John" {
		t.Errorf("Matched[$.user.name] = %v, want John", got)
	}
	if got := result.Matched["$.token"]; got != "t" {
		t.Errorf("Matched[$.token] = %v, want t", got)
	}
}

func TestValidateJSONPathExpression(t *testing.T) {
	if err := ValidateJSONPathExpression("$.items[0].id"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateJSONPathExpression("$[?("); err == nil {
		t.Error("expected error for invalid expression")
	}
}
