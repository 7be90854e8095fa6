package httpmock

import (
	"github.com/google/uuid"

	"github.com/daFish/functional-test-helpers/pkg/mock"
)

// RequestPattern describes one expected request and the responses it gets.
//
// Builder methods record a constraint and return the same pattern, so calls
// chain. Constraints accumulate: two QueryParam calls require both
// parameters. Body constraints of different kinds replace each other, the last
// call wins; combining them is the caller's responsibility.
type RequestPattern struct {
	id        string
	name      string
	matcher   mock.Matcher
	responses []*ResponseBuilder
	served    int
	calls     CallStack
}

// NewRequest returns a pattern without constraints.
// Registered as is, it matches every request no other pattern matches.
func NewRequest() *RequestPattern {
	return &RequestPattern{id: uuid.NewString()}
}

// Name labels the pattern in diagnostics.
func (p *RequestPattern) Name(name string) *RequestPattern {
	p.name = name
	return p
}

// Method requires the HTTP method, compared case-insensitively.
func (p *RequestPattern) Method(method string) *RequestPattern {
	p.matcher.Method = method
	return p
}

// URI requires the path, and scheme and host when uri is absolute.
// A query string in uri adds one QueryParam per parameter.
func (p *RequestPattern) URI(uri string) *RequestPattern {
	p.matcher.SetURI(uri)
	return p
}

// QueryParam requires the query string to carry value for name.
func (p *RequestPattern) QueryParam(name, value string) *RequestPattern {
	p.matcher.QueryParams = append(p.matcher.QueryParams, mock.Param{Name: name, Value: value})
	return p
}

// Header requires the request header name to carry value.
func (p *RequestPattern) Header(name, value string) *RequestPattern {
	p.matcher.Headers = append(p.matcher.Headers, mock.Param{Name: name, Value: value})
	return p
}

// JSON requires a JSON body structurally equal to payload.
func (p *RequestPattern) JSON(payload any) *RequestPattern {
	p.matcher.Body = mock.Body{Kind: mock.BodyJSON, JSON: payload}
	return p
}

// RequestParam requires a form-encoded body field. The body must carry
// exactly the declared fields.
func (p *RequestPattern) RequestParam(name, value string) *RequestPattern {
	if p.matcher.Body.Kind != mock.BodyForm {
		p.matcher.Body = mock.Body{Kind: mock.BodyForm}
	}
	p.matcher.Body.Form = append(p.matcher.Body.Form, mock.Param{Name: name, Value: value})
	return p
}

// Content requires the raw body to equal content byte for byte.
func (p *RequestPattern) Content(content string) *RequestPattern {
	p.matcher.Body = mock.Body{Kind: mock.BodyContent, Content: []byte(content)}
	return p
}

// Multipart requires a multipart/form-data part. contentType and filename may
// be empty. The body must carry exactly the declared parts, in any order.
func (p *RequestPattern) Multipart(field, contentType, filename, content string) *RequestPattern {
	if p.matcher.Body.Kind != mock.BodyMultipart {
		p.matcher.Body = mock.Body{Kind: mock.BodyMultipart}
	}
	p.matcher.Body.Multipart = append(p.matcher.Body.Multipart, mock.Field{
		Name:        field,
		ContentType: contentType,
		Filename:    filename,
		Content:     content,
	})
	return p
}

// JSONPath requires the JSON body to yield expected at expr.
// An expected value of map[string]any{"exists": true} checks presence only.
func (p *RequestPattern) JSONPath(expr string, expected any) *RequestPattern {
	if p.matcher.JSONPath == nil {
		p.matcher.JSONPath = make(map[string]any)
	}
	p.matcher.JSONPath[expr] = expected
	return p
}

// Matching requires a boolean expression over the request to hold, e.g.
// `json.total > 100 && headers["X-Tenant"] == "acme"`.
func (p *RequestPattern) Matching(expression string) *RequestPattern {
	p.matcher.Expression = expression
	return p
}

// WillRespond appends a response. Matched calls get the responses in order;
// once they run out the last one repeats. A pattern without responses answers
// 200 with an empty body.
func (p *RequestPattern) WillRespond(response *ResponseBuilder) *RequestPattern {
	p.responses = append(p.responses, response)
	return p
}

// ID returns the pattern's generated identifier.
func (p *RequestPattern) ID() string {
	return p.id
}

// Label returns the name given with Name, or "".
func (p *RequestPattern) Label() string {
	return p.name
}

// Matcher returns a copy of the recorded constraints.
func (p *RequestPattern) Matcher() mock.Matcher {
	return p.matcher
}

// Responses returns the responses in the order they are served.
func (p *RequestPattern) Responses() []*ResponseBuilder {
	out := make([]*ResponseBuilder, len(p.responses))
	copy(out, p.responses)
	return out
}

// CallStack returns the requests this pattern matched so far.
func (p *RequestPattern) CallStack() *CallStack {
	return &p.calls
}

// IsFallback reports whether the pattern has no constraints.
func (p *RequestPattern) IsFallback() bool {
	return p.matcher.IsEmpty()
}

// String describes the pattern, e.g. `getBar: GET /bar?one=1`.
func (p *RequestPattern) String() string {
	if p.name == "" {
		return p.matcher.String()
	}
	return p.name + ": " + p.matcher.String()
}

// record appends r to the call stack and returns the response to realise.
func (p *RequestPattern) record(r *mock.Request) *ResponseBuilder {
	p.calls.push(r)
	if len(p.responses) == 0 {
		return nil
	}
	i := min(p.served, len(p.responses)-1)
	p.served++
	return p.responses[i]
}
