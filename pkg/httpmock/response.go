package httpmock

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/daFish/functional-test-helpers/pkg/mock"
	"github.com/daFish/functional-test-helpers/pkg/util"
)

type bodySource int

const (
	bodyEmpty bodySource = iota
	bodyContent
	bodyJSON
	bodyFile
)

// ResponseBuilder describes a response. Nothing is encoded or read from disk
// until a request matches.
type ResponseBuilder struct {
	status  int
	header  http.Header
	source  bodySource
	content []byte
	json    any
	file    string
}

// NewResponse returns an empty 200 response.
func NewResponse() *ResponseBuilder {
	return &ResponseBuilder{status: http.StatusOK, header: make(http.Header)}
}

// Status sets the status code.
func (b *ResponseBuilder) Status(code int) *ResponseBuilder {
	b.status = code
	return b
}

// Header adds a response header. Repeated names keep every value.
func (b *ResponseBuilder) Header(name, value string) *ResponseBuilder {
	if b.header == nil {
		b.header = make(http.Header)
	}
	b.header.Add(name, value)
	return b
}

// Content sets a literal body.
func (b *ResponseBuilder) Content(content string) *ResponseBuilder {
	b.source = bodyContent
	b.content = []byte(content)
	return b
}

// JSON sets a body encoded from v when the response is realised.
// Content-Type defaults to application/json.
func (b *ResponseBuilder) JSON(v any) *ResponseBuilder {
	b.source = bodyJSON
	b.json = v
	return b
}

// File sets a body read from path when the response is realised.
// Relative paths resolve against the registry's base directory.
func (b *ResponseBuilder) File(path string) *ResponseBuilder {
	b.source = bodyFile
	b.file = path
	return b
}

// Response is a realised response, independent of any transport.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Realize materialises the response, reading the body file relative to
// baseDir if one was set.
func (b *ResponseBuilder) Realize(baseDir string) (*Response, error) {
	resp := &Response{Status: b.status, Header: b.header.Clone()}
	if resp.Status == 0 {
		resp.Status = http.StatusOK
	}
	if resp.Header == nil {
		resp.Header = make(http.Header)
	}

	switch b.source {
	case bodyContent:
		resp.Body = bytes.Clone(b.content)
	case bodyJSON:
		data, err := json.Marshal(b.json)
		if err != nil {
			return nil, fmt.Errorf("encode json body: %w", err)
		}
		resp.Body = data
		if resp.Header.Get("Content-Type") == "" {
			resp.Header.Set("Content-Type", mock.MediaTypeJSON)
		}
	case bodyFile:
		data, err := readBodyFile(b.file, baseDir)
		if err != nil {
			return nil, err
		}
		resp.Body = data
	}
	return resp, nil
}

func readBodyFile(path, baseDir string) ([]byte, error) {
	cleanPath, safe := util.SafeFilePathAllowAbsolute(path)
	if !safe {
		return nil, fmt.Errorf("unsafe body file path: %s", path)
	}
	if !filepath.IsAbs(cleanPath) && baseDir != "" {
		cleanPath = filepath.Join(baseDir, cleanPath)
	}
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("read body file: %w", err)
	}
	return data, nil
}

// String describes the response for logs, e.g. `201 file(body.json)`.
func (b *ResponseBuilder) String() string {
	status := strconv.Itoa(b.status)
	switch b.source {
	case bodyContent:
		return fmt.Sprintf("%s content(%d bytes)", status, len(b.content))
	case bodyJSON:
		return status + " json"
	case bodyFile:
		return status + " file(" + b.file + ")"
	default:
		return status
	}
}

// ResponseFactory turns a realised response into what the transport returns.
type ResponseFactory interface {
	CreateResponse(resp *Response, req *mock.Request) (*http.Response, error)
}

// ResponseFactoryFunc adapts a function to ResponseFactory.
type ResponseFactoryFunc func(resp *Response, req *mock.Request) (*http.Response, error)

// CreateResponse calls f.
func (f ResponseFactoryFunc) CreateResponse(resp *Response, req *mock.Request) (*http.Response, error) {
	return f(resp, req)
}

// DefaultFactory builds a plain HTTP/1.1 *http.Response.
type DefaultFactory struct{}

// CreateResponse implements ResponseFactory.
func (DefaultFactory) CreateResponse(resp *Response, _ *mock.Request) (*http.Response, error) {
	header := resp.Header
	if header == nil {
		header = make(http.Header)
	}
	return &http.Response{
		Status:        fmt.Sprintf("%d %s", resp.Status, http.StatusText(resp.Status)),
		StatusCode:    resp.Status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(resp.Body)),
		ContentLength: int64(len(resp.Body)),
	}, nil
}

func emptyResponse() *Response {
	return &Response{Status: http.StatusOK, Header: make(http.Header)}
}
