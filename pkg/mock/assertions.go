package mock

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

// AssertJSONBody asserts that the request body matches the expected JSON.
// The expected value can be a string, []byte, or any struct/map that will be JSON encoded.
func (r *Request) AssertJSONBody(t testing.TB, expected any) {
	t.Helper()

	var expectedJSON any
	var actualJSON any

	switch v := expected.(type) {
	case string:
		if err := json.Unmarshal([]byte(v), &expectedJSON); err != nil {
			t.Errorf("failed to parse expected JSON: %v", err)
			return
		}
	case []byte:
		if err := json.Unmarshal(v, &expectedJSON); err != nil {
			t.Errorf("failed to parse expected JSON: %v", err)
			return
		}
	default:
		normalized, err := NormalizeJSON(v)
		if err != nil {
			t.Errorf("failed to marshal expected value: %v", err)
			return
		}
		expectedJSON = normalized
	}

	if err := json.Unmarshal(r.Body, &actualJSON); err != nil {
		t.Errorf("request body is not valid JSON: %v\nbody: %s", err, r.Body)
		return
	}

	if !reflect.DeepEqual(actualJSON, expectedJSON) {
		expectedBytes, _ := json.MarshalIndent(expectedJSON, "", "  ")
		actualBytes, _ := json.MarshalIndent(actualJSON, "", "  ")
		t.Errorf("request body does not match expected JSON\nexpected:\n%s\nactual:\n%s",
			string(expectedBytes), string(actualBytes))
	}
}

// AssertBody asserts that the request body exactly matches the expected string.
func (r *Request) AssertBody(t testing.TB, expected string) {
	t.Helper()

	if string(r.Body) != expected {
		t.Errorf("request body does not match\nexpected: %q\nactual: %q", expected, string(r.Body))
	}
}

// AssertHeader asserts that the request had the header with the expected value.
func (r *Request) AssertHeader(t testing.TB, key, expected string) {
	t.Helper()

	values := r.Header.Values(key)
	if len(values) == 0 {
		t.Errorf("request does not have header %q", key)
		return
	}
	for _, v := range values {
		if v == expected {
			return
		}
	}
	t.Errorf("header %q value mismatch\nexpected: %q\nactual: %q", key, expected, strings.Join(values, ", "))
}

// AssertQueryParam asserts that the request had the query parameter with the expected value.
func (r *Request) AssertQueryParam(t testing.TB, key, expected string) {
	t.Helper()

	values, ok := r.Query[key]
	if !ok {
		t.Errorf("request does not have query parameter %q", key)
		return
	}
	for _, v := range values {
		if v == expected {
			return
		}
	}
	t.Errorf("query parameter %q value mismatch\nexpected: %q\nactual: %q", key, expected, strings.Join(values, ", "))
}

// AssertFormParam asserts that the form-encoded body carried the field with the expected value.
func (r *Request) AssertFormParam(t testing.TB, key, expected string) {
	t.Helper()

	if r.Form == nil {
		t.Errorf("request body is not form-encoded (media type %q)", r.MediaType)
		return
	}
	if actual := r.Form.Get(key); actual != expected {
		t.Errorf("form parameter %q value mismatch\nexpected: %q\nactual: %q", key, expected, actual)
	}
}

// AssertMethod asserts that the request used the expected HTTP method.
func (r *Request) AssertMethod(t testing.TB, expected string) {
	t.Helper()

	if !strings.EqualFold(r.Method, expected) {
		t.Errorf("request method mismatch\nexpected: %q\nactual: %q", expected, r.Method)
	}
}

// AssertPath asserts that the request path matches.
func (r *Request) AssertPath(t testing.TB, expected string) {
	t.Helper()

	if r.Path != expected {
		t.Errorf("request path mismatch\nexpected: %q\nactual: %q", expected, r.Path)
	}
}

// NormalizeJSON round-trips v through encoding/json so it compares equal to
// values produced by json.Unmarshal into an any.
func NormalizeJSON(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
