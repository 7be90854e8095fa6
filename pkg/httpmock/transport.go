package httpmock

import (
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/daFish/functional-test-helpers/pkg/mock"
)

// Transport is an http.RoundTripper answering from a Registry.
// Errors from the registry are returned from RoundTrip unchanged, so
// errors.Is(err, ErrNoMatch) works on the error an http.Client returns.
type Transport struct {
	Registry *Registry
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		data, err := io.ReadAll(req.Body)
		_ = req.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("read request body: %w", err)
		}
		body = data
	}

	resp, err := t.Registry.Handle(req.Method, req.URL.String(), mock.Options{
		Body:    body,
		Headers: headerLines(req.Header),
	})
	if err != nil {
		return nil, err
	}
	resp.Request = req
	return resp, nil
}

// headerLines renders h as "Name: value" lines sorted by name.
func headerLines(h http.Header) []string {
	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	sort.Strings(names)

	var lines []string
	for _, name := range names {
		for _, v := range h[name] {
			lines = append(lines, name+": "+v)
		}
	}
	return lines
}

// Transport returns a RoundTripper answering from r.
func (r *Registry) Transport() http.RoundTripper {
	return &Transport{Registry: r}
}

// Client returns an *http.Client whose every request is answered by r.
func (r *Registry) Client() *http.Client {
	return &http.Client{Transport: r.Transport()}
}
