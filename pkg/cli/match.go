package cli

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/daFish/functional-test-helpers/pkg/cli/internal/flags"
	"github.com/daFish/functional-test-helpers/pkg/cli/internal/output"
	"github.com/daFish/functional-test-helpers/pkg/fixture"
	"github.com/daFish/functional-test-helpers/pkg/httpmock"
	"github.com/daFish/functional-test-helpers/pkg/mock"
)

// MatchOutput is the JSON form of a `fth match` result.
type MatchOutput struct {
	Pattern string            `json:"pattern"`
	Status  int               `json:"status"`
	Headers map[string]string `json:"headers,omitempty"`
	Body    string            `json:"body"`
}

type matchOptions struct {
	patterns string
	method   string
	headers  flags.StringSlice
	data     string
	dataFile string
	json     string
	asJSON   bool
}

func newMatchCmd(a *app) *cobra.Command {
	var opts matchOptions

	cmd := &cobra.Command{
		Use:   "match [flags] <uri>",
		Short: "Show which pattern answers a request",
		Long: `Load pattern fixture files and send one request through them.

Prints the winning pattern and its response. When no pattern matches, the
closest patterns are listed and fth exits with status 2.`,
		Example: `  fth match --patterns 'fixtures/**/*.yaml' /bar?one=1
  fth match --patterns api.yaml -X POST --json '{"name":"widget"}' /items
  fth match --patterns api.yaml -X POST -H 'Content-Type: application/x-www-form-urlencoded' -d 'a=b' /form`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runMatch(&opts, args[0])
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.patterns, "patterns", "p", "", "Pattern fixture file or glob (supports **)")
	f.StringVarP(&opts.method, "method", "X", http.MethodGet, "Request method")
	f.VarP(&opts.headers, "header", "H", `Request header as "Name: value" (repeatable)`)
	f.StringVarP(&opts.data, "data", "d", "", "Raw request body")
	f.StringVar(&opts.dataFile, "data-file", "", "Read the raw request body from a file")
	f.StringVar(&opts.json, "json", "", "JSON request body, sent as application/json")
	f.String("base-dir", "", "Directory for relative response files (default: the pattern file's directory)")
	f.BoolVar(&opts.asJSON, "output-json", false, "Print the result as JSON")
	_ = cmd.MarkFlagRequired("patterns")
	cmd.MarkFlagsMutuallyExclusive("data", "data-file", "json")
	return cmd
}

func (a *app) runMatch(opts *matchOptions, uri string) error {
	files, err := fixture.ExpandGlob(opts.patterns)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no pattern files match %q", opts.patterns)
	}
	patterns, err := httpmock.LoadPatternFiles(files)
	if err != nil {
		return err
	}

	baseDir := a.cfg.BaseDir
	if baseDir == "" {
		baseDir = httpmock.FileBaseDir(files[0])
	}

	registry := httpmock.NewRegistry(httpmock.WithLogger(a.log), httpmock.WithBaseDir(baseDir))
	registry.Add(patterns...)
	a.log.Debug("patterns loaded", "files", len(files), "patterns", len(patterns), "baseDir", baseDir)

	reqOpts, err := opts.requestOptions()
	if err != nil {
		return err
	}
	resp, err := registry.Handle(opts.method, uri, reqOpts)
	if err != nil {
		if errors.Is(err, httpmock.ErrNoMatch) {
			return &ExitError{Code: ExitNoMatch, Err: err}
		}
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	out := MatchOutput{
		Pattern: matchedPattern(registry),
		Status:  resp.StatusCode,
		Headers: flattenHeader(resp.Header),
		Body:    string(body),
	}
	if opts.asJSON {
		return output.JSON(a.stdout, out)
	}

	fmt.Fprintf(a.stdout, "pattern: %s\n", out.Pattern)
	fmt.Fprintf(a.stdout, "status: %d\n", out.Status)
	for _, name := range sortedKeys(out.Headers) {
		fmt.Fprintf(a.stdout, "header: %s: %s\n", name, out.Headers[name])
	}
	if out.Body != "" {
		fmt.Fprintln(a.stdout)
		fmt.Fprintln(a.stdout, out.Body)
	}
	return nil
}

func (o *matchOptions) requestOptions() (mock.Options, error) {
	opts := mock.Options{Headers: o.headers}
	switch {
	case o.json != "":
		opts.Body = []byte(o.json)
		if mock.ParseHeaderLines(o.headers).Get("Content-Type") == "" {
			opts.Headers = append(opts.Headers, "Content-Type: "+mock.MediaTypeJSON)
		}
	case o.dataFile != "":
		data, err := os.ReadFile(o.dataFile)
		if err != nil {
			return opts, fmt.Errorf("read request body: %w", err)
		}
		opts.Body = data
	case o.data != "":
		opts.Body = []byte(o.data)
	}
	return opts, nil
}

// matchedPattern returns the pattern that served the single request.
func matchedPattern(r *httpmock.Registry) string {
	for _, p := range r.Patterns() {
		if !p.CallStack().IsEmpty() {
			return p.String()
		}
	}
	return ""
}

func flattenHeader(h http.Header) map[string]string {
	if len(h) == 0 {
		return nil
	}
	out := make(map[string]string, len(h))
	for name, values := range h {
		out[name] = strings.Join(values, ", ")
	}
	return out
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
