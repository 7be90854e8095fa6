package httpmock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/daFish/functional-test-helpers/internal/matching"
	"github.com/daFish/functional-test-helpers/pkg/fixture"
	"github.com/daFish/functional-test-helpers/pkg/mock"
)

// patternFile is the YAML layout of a pattern fixture file:
//
//	patterns:
//	  - name: getBar
//	    method: GET
//	    uri: /bar?one=1
//	    headers: {Accept: application/json}
//	    responses:
//	      - status: 200
//	        file: bar.json
type patternFile struct {
	Patterns []patternEntry `yaml:"patterns"`
}

type patternEntry struct {
	Name        string         `yaml:"name"`
	Method      string         `yaml:"method"`
	URI         string         `yaml:"uri"`
	QueryParams params         `yaml:"queryParams"`
	Headers     params         `yaml:"headers"`
	Content     *string        `yaml:"content"`
	JSON        any            `yaml:"json"`
	Form        params         `yaml:"form"`
	Multipart   []mock.Field   `yaml:"multipart"`
	JSONPath    map[string]any `yaml:"jsonPath"`
	Matching    string         `yaml:"matching"`
	Responses   []responseSpec `yaml:"responses"`
}

type responseSpec struct {
	Status  int     `yaml:"status"`
	Headers params  `yaml:"headers"`
	Content *string `yaml:"content"`
	JSON    any     `yaml:"json"`
	File    string  `yaml:"file"`
}

// params decodes a YAML mapping keeping key order.
type params []mock.Param

func (p *params) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping", node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		*p = append(*p, mock.Param{Name: node.Content[i].Value, Value: node.Content[i+1].Value})
	}
	return nil
}

// LoadPatterns reads a YAML pattern file. Relative response file paths in it
// resolve against the registry's base directory, see FileBaseDir.
func LoadPatterns(path string) ([]*RequestPattern, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pattern file: %w", err)
	}
	return ParsePatterns(path, data)
}

// LoadPatternsGlob loads every file matching glob in path order.
// A glob matching nothing is an error.
func LoadPatternsGlob(glob string) ([]*RequestPattern, error) {
	files, err := fixture.ExpandGlob(glob)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no pattern files match %q", glob)
	}
	return LoadPatternFiles(files)
}

// LoadPatternFiles loads files in the given order.
func LoadPatternFiles(files []string) ([]*RequestPattern, error) {
	var out []*RequestPattern
	for _, f := range files {
		patterns, err := LoadPatterns(f)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", f, err)
		}
		out = append(out, patterns...)
	}
	return out, nil
}

// ParsePatterns validates and decodes a YAML pattern document.
// source names the document in errors.
func ParsePatterns(source string, data []byte) ([]*RequestPattern, error) {
	if _, err := fixture.ValidateYAML(fixture.KindPatterns, source, data); err != nil {
		return nil, err
	}

	var file patternFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode %s: %w", source, err)
	}

	out := make([]*RequestPattern, 0, len(file.Patterns))
	for i, e := range file.Patterns {
		p, err := e.build()
		if err != nil {
			return nil, fmt.Errorf("%s: pattern %d: %w", source, i, err)
		}
		out = append(out, p)
	}
	return out, nil
}

// FileBaseDir returns the directory a pattern file's relative response
// paths are written against.
func FileBaseDir(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Dir(path)
	}
	return filepath.Dir(abs)
}

func (e patternEntry) build() (*RequestPattern, error) {
	p := NewRequest().Name(e.Name).Method(e.Method)
	if e.URI != "" {
		p.URI(e.URI)
	}
	for _, q := range e.QueryParams {
		p.QueryParam(q.Name, q.Value)
	}
	for _, h := range e.Headers {
		p.Header(h.Name, h.Value)
	}

	switch {
	case e.Content != nil:
		p.Content(*e.Content)
	case e.JSON != nil:
		p.JSON(e.JSON)
	case len(e.Form) > 0:
		for _, f := range e.Form {
			p.RequestParam(f.Name, f.Value)
		}
	case len(e.Multipart) > 0:
		for _, f := range e.Multipart {
			p.Multipart(f.Name, f.ContentType, f.Filename, f.Content)
		}
	}

	if len(e.JSONPath) > 0 {
		paths := make([]string, 0, len(e.JSONPath))
		for path := range e.JSONPath {
			paths = append(paths, path)
		}
		sort.Strings(paths)
		var errs []error
		for _, path := range paths {
			if err := matching.ValidateJSONPathExpression(path); err != nil {
				errs = append(errs, err)
				continue
			}
			p.JSONPath(path, e.JSONPath[path])
		}
		if err := errors.Join(errs...); err != nil {
			return nil, err
		}
	}

	if e.Matching != "" {
		if err := matching.ValidateExpression(e.Matching); err != nil {
			return nil, err
		}
		p.Matching(e.Matching)
	}

	for _, r := range e.Responses {
		p.WillRespond(r.build())
	}
	return p, nil
}

func (s responseSpec) build() *ResponseBuilder {
	b := NewResponse()
	if s.Status != 0 {
		b.Status(s.Status)
	}
	for _, h := range s.Headers {
		b.Header(h.Name, h.Value)
	}
	switch {
	case s.Content != nil:
		b.Content(*s.Content)
	case s.JSON != nil:
		b.JSON(s.JSON)
	case s.File != "":
		b.File(s.File)
	}
	return b
}
