package httpmock

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/daFish/functional-test-helpers/internal/matching"
	"github.com/daFish/functional-test-helpers/pkg/logging"
	"github.com/daFish/functional-test-helpers/pkg/mock"
)

// DefaultNearMisses is how many near misses a NoMatchError carries.
const DefaultNearMisses = 3

// Registry holds the patterns of one test and answers requests with them.
type Registry struct {
	mu         sync.Mutex
	patterns   []*RequestPattern
	factory    ResponseFactory
	baseDir    string
	nearMisses int
	log        *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger. Matches log at debug, misses at warn.
func WithLogger(log *slog.Logger) Option {
	return func(r *Registry) {
		if log != nil {
			r.log = log
		}
	}
}

// WithResponseFactory replaces DefaultFactory.
func WithResponseFactory(f ResponseFactory) Option {
	return func(r *Registry) {
		if f != nil {
			r.factory = f
		}
	}
}

// WithBaseDir sets the directory relative response file paths resolve against.
func WithBaseDir(dir string) Option {
	return func(r *Registry) {
		r.baseDir = dir
	}
}

// WithNearMisses sets how many near misses a NoMatchError carries.
func WithNearMisses(n int) Option {
	return func(r *Registry) {
		r.nearMisses = n
	}
}

// NewRegistry returns an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		factory:    DefaultFactory{},
		nearMisses: DefaultNearMisses,
		log:        logging.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Add registers patterns in order. Registration order breaks score ties.
func (r *Registry) Add(patterns ...*RequestPattern) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range patterns {
		if p == nil {
			continue
		}
		r.patterns = append(r.patterns, p)
		r.log.Debug("request pattern added", "pattern", p.String(), "id", p.ID())
	}
}

// Patterns returns the registered patterns in registration order.
func (r *Registry) Patterns() []*RequestPattern {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*RequestPattern, len(r.patterns))
	copy(out, r.patterns)
	return out
}

// Unused returns the patterns that never matched a request.
func (r *Registry) Unused() []*RequestPattern {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*RequestPattern
	for _, p := range r.patterns {
		if p.calls.IsEmpty() {
			out = append(out, p)
		}
	}
	return out
}

// Handle answers one request given as method, URI and options.
// It returns a *NoMatchError when no pattern accepts the request and a
// *RealizationError when the winner's response cannot be built.
func (r *Registry) Handle(method, uri string, opts mock.Options) (*http.Response, error) {
	req, err := mock.NewRequest(method, uri, opts)
	if err != nil {
		return nil, err
	}
	return r.Serve(req)
}

// Serve answers an already parsed request.
func (r *Registry) Serve(req *mock.Request) (*http.Response, error) {
	pattern, response, err := r.match(req)
	if err != nil {
		return nil, err
	}

	resp := emptyResponse()
	if response != nil {
		resp, err = response.Realize(r.baseDir)
		if err != nil {
			r.log.Error("response realization failed", "pattern", pattern.String(), "error", err)
			return nil, &RealizationError{Pattern: pattern.String(), Err: err}
		}
	}

	httpResp, err := r.factory.CreateResponse(resp, req)
	if err != nil {
		return nil, &RealizationError{Pattern: pattern.String(), Err: err}
	}
	return httpResp, nil
}

// Match selects the pattern for req and records the call on it.
func (r *Registry) Match(req *mock.Request) (*RequestPattern, error) {
	pattern, _, err := r.match(req)
	return pattern, err
}

func (r *Registry) match(req *mock.Request) (*RequestPattern, *ResponseBuilder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	candidates := r.candidates()
	result := matching.Select(candidates, req)
	if !result.Matched {
		err := &NoMatchError{
			Request:    req,
			Patterns:   r.descriptions(),
			NearMisses: matching.CollectNearMisses(candidates, req, r.nearMisses),
		}
		r.log.Warn("no request pattern matched",
			"method", req.Method,
			"uri", req.URI,
			"patterns", len(r.patterns),
			"nearMisses", len(err.NearMisses),
		)
		return nil, nil, err
	}

	pattern := r.patterns[result.Index]
	response := pattern.record(req)
	r.log.Debug("request pattern matched",
		"method", req.Method,
		"uri", req.URI,
		"pattern", pattern.String(),
		"score", result.Score,
		"calls", pattern.calls.Len(),
	)
	return pattern, response, nil
}

func (r *Registry) candidates() []matching.Candidate {
	out := make([]matching.Candidate, len(r.patterns))
	for i, p := range r.patterns {
		out[i] = matching.Candidate{ID: p.id, Name: p.name, Matcher: &p.matcher}
	}
	return out
}

func (r *Registry) descriptions() []string {
	out := make([]string, len(r.patterns))
	for i, p := range r.patterns {
		out[i] = p.String()
	}
	return out
}
