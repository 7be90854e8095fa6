package matching

import (
	"fmt"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/daFish/functional-test-helpers/pkg/mock"
)

var (
	programsMu sync.Mutex
	programs   = map[string]*vm.Program{}
)

// MatchExpression evaluates a boolean expr-lang expression against r.
// The environment is described by ExpressionEnv.
func MatchExpression(source string, r *mock.Request) (bool, error) {
	program, err := compileExpression(source)
	if err != nil {
		return false, err
	}
	out, err := expr.Run(program, ExpressionEnv(r))
	if err != nil {
		return false, fmt.Errorf("evaluate expression %q: %w", source, err)
	}
	matched, ok := out.(bool)
	return ok && matched, nil
}

// ValidateExpression reports whether source compiles as a boolean expression.
func ValidateExpression(source string) error {
	_, err := compileExpression(source)
	return err
}

// ExpressionEnv exposes the request to expressions:
//
//	method, path, host  string
//	query, headers, form map[string]string (first value per name)
//	body                string
//	json                decoded JSON body or nil
func ExpressionEnv(r *mock.Request) map[string]any {
	return map[string]any{
		"method":  r.Method,
		"path":    r.Path,
		"host":    r.Host,
		"query":   firstValues(r.Query),
		"headers": firstValues(r.Header),
		"form":    firstValues(r.Form),
		"body":    string(r.Body),
		"json":    r.JSON,
	}
}

func compileExpression(source string) (*vm.Program, error) {
	programsMu.Lock()
	defer programsMu.Unlock()

	if p, ok := programs[source]; ok {
		return p, nil
	}
	p, err := expr.Compile(source, expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile expression %q: %w", source, err)
	}
	programs[source] = p
	return p, nil
}

func firstValues[M ~map[string][]string](values M) map[string]string {
	out := make(map[string]string, len(values))
	for k, v := range values {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}
