package mock

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/daFish/functional-test-helpers/pkg/util"
)

// Options is what a caller sends along with the method and URI.
// Set either Body or JSON; JSON wins when both are set.
type Options struct {
	// Body is the raw request body.
	Body []byte

	// JSON is a structured payload encoded as the request body.
	// It implies Content-Type: application/json unless a header says otherwise.
	JSON any

	// Headers are "Name: value" lines in the order they were sent.
	Headers []string
}

// Request is the parsed descriptor of one outgoing request.
// It is what gets recorded on a pattern's call stack.
type Request struct {
	// Method is the upper-cased HTTP method.
	Method string

	// URI is the URI as the caller passed it.
	URI string

	Scheme   string
	Host     string
	Path     string
	RawQuery string
	Query    url.Values

	// Header holds the parsed header lines, canonicalised.
	Header http.Header

	// Body is the raw body. For JSON options it is the encoded payload.
	Body []byte

	// MediaType is the Content-Type without parameters, lower-cased.
	MediaType string

	// JSON is the decoded body when the body is JSON, nil otherwise.
	JSON   any
	IsJSON bool

	// Form holds the decoded body for form-encoded requests, nil otherwise.
	Form url.Values

	// Multipart holds the decoded parts for multipart requests, nil otherwise.
	Multipart []Field
}

// NewRequest parses method, uri and opts into a Request.
// Only an unparsable URI or an unencodable JSON payload is an error; bodies that
// fail to decode as their declared media type are kept as raw content.
func NewRequest(method, uri string, opts Options) (*Request, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("parse uri %q: %w", uri, err)
	}

	r := &Request{
		Method:   strings.ToUpper(method),
		URI:      uri,
		Scheme:   strings.ToLower(u.Scheme),
		Host:     strings.ToLower(u.Host),
		Path:     u.Path,
		RawQuery: u.RawQuery,
		Query:    u.Query(),
		Header:   ParseHeaderLines(opts.Headers),
		Body:     opts.Body,
	}
	if r.Path == "" {
		r.Path = "/"
	}

	if opts.JSON != nil {
		data, err := json.Marshal(opts.JSON)
		if err != nil {
			return nil, fmt.Errorf("encode json payload: %w", err)
		}
		r.Body = data
		if r.Header.Get("Content-Type") == "" {
			r.Header.Set("Content-Type", MediaTypeJSON)
		}
	}

	r.decodeBody()
	return r, nil
}

// ParseHeaderLines parses "Name: value" lines into an http.Header.
// Lines without a colon are ignored.
func ParseHeaderLines(lines []string) http.Header {
	h := make(http.Header, len(lines))
	for _, line := range lines {
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		h.Add(name, strings.TrimSpace(value))
	}
	return h
}

func (r *Request) decodeBody() {
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		return
	}
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return
	}
	r.MediaType = mediaType

	switch {
	case IsJSONMediaType(mediaType):
		var v any
		if err := json.Unmarshal(r.Body, &v); err == nil {
			r.JSON = v
			r.IsJSON = true
		}
	case mediaType == MediaTypeForm:
		if form, err := url.ParseQuery(string(r.Body)); err == nil {
			r.Form = form
		}
	case mediaType == MediaTypeMultipart:
		if fields, err := parseMultipart(r.Body, params["boundary"]); err == nil {
			r.Multipart = fields
		}
	}
}

// IsJSONMediaType reports whether mediaType is application/json or a +json type.
func IsJSONMediaType(mediaType string) bool {
	return mediaType == MediaTypeJSON || strings.HasSuffix(mediaType, "+json")
}

func parseMultipart(body []byte, boundary string) ([]Field, error) {
	if boundary == "" {
		return nil, errors.New("multipart body without boundary")
	}

	reader := multipart.NewReader(bytes.NewReader(body), boundary)
	fields := []Field{}
	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			return fields, nil
		}
		if err != nil {
			return nil, err
		}
		content, err := io.ReadAll(part)
		_ = part.Close()
		if err != nil {
			return nil, err
		}
		fields = append(fields, Field{
			Name:        part.FormName(),
			ContentType: part.Header.Get("Content-Type"),
			Filename:    part.FileName(),
			Content:     string(content),
		})
	}
}

// String returns e.g. `POST /bar?one=1 (11 bytes)`.
func (r *Request) String() string {
	uri := r.Path
	if r.Host != "" {
		uri = r.Scheme + "://" + r.Host + r.Path
	}
	if r.RawQuery != "" {
		uri += "?" + r.RawQuery
	}
	if len(r.Body) == 0 {
		return r.Method + " " + uri
	}
	return fmt.Sprintf("%s %s (%d bytes)", r.Method, uri, len(r.Body))
}

// BodySummary returns the body cut to maxLen bytes for diagnostics.
func (r *Request) BodySummary(maxLen int) string {
	if len(r.Body) == 0 {
		return "(empty)"
	}
	return util.Truncate(string(r.Body), maxLen)
}
