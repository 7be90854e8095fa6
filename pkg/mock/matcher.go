package mock

import (
	"encoding/json"
	"net/url"
	"sort"
	"strings"
)

// Matcher is the set of constraints a request has to satisfy.
// A zero Matcher has no constraints and matches every request.
type Matcher struct {
	Method      string
	Scheme      string
	Host        string
	Path        string
	QueryParams []Param
	Headers     []Param
	Body        Body
	JSONPath    map[string]any
	Expression  string
}

// IsEmpty reports whether the matcher constrains nothing.
func (m *Matcher) IsEmpty() bool {
	return m.Method == "" &&
		m.Host == "" &&
		m.Path == "" &&
		len(m.QueryParams) == 0 &&
		len(m.Headers) == 0 &&
		m.Body.IsEmpty() &&
		len(m.JSONPath) == 0 &&
		m.Expression == ""
}

// SetURI sets the path (and scheme/host for absolute URIs) from uri.
// A query string in uri is split off and appended to QueryParams, so
// SetURI("/bar?one=1") is the same as SetURI("/bar") plus the param one=1.
func (m *Matcher) SetURI(uri string) {
	u, err := url.Parse(uri)
	if err != nil {
		m.Path = uri
		return
	}

	m.Scheme = strings.ToLower(u.Scheme)
	m.Host = strings.ToLower(u.Host)
	m.Path = u.Path
	if m.Path == "" && m.Host != "" {
		m.Path = "/"
	}

	if u.RawQuery == "" {
		return
	}
	values, err := url.ParseQuery(u.RawQuery)
	if err != nil {
		return
	}
	// url.Values loses declaration order; sort names for a stable description.
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		for _, v := range values[name] {
			m.QueryParams = append(m.QueryParams, Param{Name: name, Value: v})
		}
	}
}

// URI returns the constrained URI without the query string.
func (m *Matcher) URI() string {
	if m.Host == "" {
		return m.Path
	}
	scheme := m.Scheme
	if scheme == "" {
		scheme = "http"
	}
	return scheme + "://" + m.Host + m.Path
}

// String returns a one-line description used in diagnostics,
// e.g. `POST /bar?one=1 body=json({"a":1}) header[Accept]=text/plain`.
func (m *Matcher) String() string {
	if m.IsEmpty() {
		return "* (fallback)"
	}

	var sb strings.Builder
	method := m.Method
	if method == "" {
		method = "*"
	}
	sb.WriteString(strings.ToUpper(method))
	sb.WriteString(" ")

	uri := m.URI()
	if uri == "" {
		uri = "*"
	}
	sb.WriteString(uri)

	for i, p := range m.QueryParams {
		if i == 0 {
			sb.WriteString("?")
		} else {
			sb.WriteString("&")
		}
		sb.WriteString(url.QueryEscape(p.Name) + "=" + url.QueryEscape(p.Value))
	}

	if !m.Body.IsEmpty() {
		sb.WriteString(" body=")
		sb.WriteString(m.Body.String())
	}
	for _, h := range m.Headers {
		sb.WriteString(" header[" + h.Name + "]=" + h.Value)
	}
	if len(m.JSONPath) > 0 {
		paths := make([]string, 0, len(m.JSONPath))
		for p := range m.JSONPath {
			paths = append(paths, p)
		}
		sort.Strings(paths)
		sb.WriteString(" jsonPath=" + strings.Join(paths, ","))
	}
	if m.Expression != "" {
		sb.WriteString(" where=" + m.Expression)
	}

	return sb.String()
}

// compactJSON renders v as compact JSON for descriptions.
func compactJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "<invalid json>"
	}
	return string(data)
}
