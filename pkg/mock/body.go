package mock

import (
	"fmt"
	"strings"

	"github.com/daFish/functional-test-helpers/pkg/util"
)

// Media types implied by the structured body kinds.
const (
	MediaTypeJSON      = "application/json"
	MediaTypeForm      = "application/x-www-form-urlencoded"
	MediaTypeMultipart = "multipart/form-data"
)

// BodyKind identifies which member of Body is in effect.
type BodyKind int

// Body kinds.
const (
	BodyNone BodyKind = iota
	BodyContent
	BodyJSON
	BodyForm
	BodyMultipart
)

// String returns the lower-case name used in descriptions and fixture files.
func (k BodyKind) String() string {
	switch k {
	case BodyContent:
		return "content"
	case BodyJSON:
		return "json"
	case BodyForm:
		return "form"
	case BodyMultipart:
		return "multipart"
	default:
		return "none"
	}
}

// Param is a single name/value pair. Declaration order is kept.
type Param struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// Field is one part of a multipart/form-data body.
// The boundary that separated it on the wire is not part of its identity.
type Field struct {
	Name        string `json:"name" yaml:"name"`
	ContentType string `json:"contentType,omitempty" yaml:"contentType,omitempty"`
	Filename    string `json:"filename,omitempty" yaml:"filename,omitempty"`
	Content     string `json:"content" yaml:"content"`
}

// Body is the expected request body, a tagged variant.
// Only the member selected by Kind is meaningful.
type Body struct {
	Kind      BodyKind
	Content   []byte
	JSON      any
	Form      []Param
	Multipart []Field
}

// IsEmpty reports whether the body is unconstrained.
func (b Body) IsEmpty() bool {
	return b.Kind == BodyNone
}

// MediaType returns the Content-Type media type the body kind implies, or "".
func (b Body) MediaType() string {
	switch b.Kind {
	case BodyJSON:
		return MediaTypeJSON
	case BodyForm:
		return MediaTypeForm
	case BodyMultipart:
		return MediaTypeMultipart
	default:
		return ""
	}
}

// String returns a short description, e.g. `form(one=1, two=2)`.
func (b Body) String() string {
	switch b.Kind {
	case BodyContent:
		return fmt.Sprintf("content(%q)", util.Truncate(string(b.Content), 60))
	case BodyJSON:
		return fmt.Sprintf("json(%s)", util.Truncate(compactJSON(b.JSON), 60))
	case BodyForm:
		parts := make([]string, 0, len(b.Form))
		for _, p := range b.Form {
			parts = append(parts, p.Name+"="+p.Value)
		}
		return "form(" + strings.Join(parts, ", ") + ")"
	case BodyMultipart:
		parts := make([]string, 0, len(b.Multipart))
		for _, f := range b.Multipart {
			parts = append(parts, f.Name)
		}
		return "multipart(" + strings.Join(parts, ", ") + ")"
	default:
		return "none"
	}
}
