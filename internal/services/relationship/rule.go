package relationship

import (
	"fmt"

	"github.com/asakaida/fraudlens/internal/entities"
	"github.com/google/cel-go/cel"
)

// SuspicionRule is a compiled CEL expression evaluated against each finding.
// The expression sees a single map variable:
//
//	finding.customer (string), finding.from (string), finding.to (string),
//	finding.balance (double)
//
// Example: finding.balance > 10000.0 && finding.from != finding.to
type SuspicionRule struct {
	expression string
	program    cel.Program
}

// NewSuspicionRule compiles the expression; it must return a boolean
func NewSuspicionRule(expression string) (*SuspicionRule, error) {
	env, err := cel.NewEnv(
		cel.Variable("finding", cel.MapType(cel.StringType, cel.DynType)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	ast, issues := env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("invalid suspicion rule: %w", issues.Err())
	}

	// Check that the expression returns a boolean
	out := ast.OutputType()
	if !out.IsExactType(cel.BoolType) && !out.IsExactType(cel.DynType) {
		return nil, fmt.Errorf("suspicion rule must return boolean, got: %s", out)
	}

	program, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL program: %w", err)
	}

	rule := &SuspicionRule{expression: expression, program: program}

	// Map fields are dyn, so the result type is only known after evaluation
	if out.IsExactType(cel.DynType) {
		if _, err := rule.Matches(&entities.Finding{}); err != nil {
			return nil, fmt.Errorf("invalid suspicion rule: %w", err)
		}
	}

	return rule, nil
}

// String returns the source expression
func (r *SuspicionRule) String() string {
	return r.expression
}

// Matches evaluates the rule for one finding
func (r *SuspicionRule) Matches(f *entities.Finding) (bool, error) {
	vars := map[string]interface{}{
		"finding": map[string]interface{}{
			"customer": f.CustomerName,
			"from":     f.FromAccountID,
			"to":       f.ToAccountID,
			"balance":  f.Balance.InexactFloat64(),
		},
	}

	result, _, err := r.program.Eval(vars)
	if err != nil {
		return false, fmt.Errorf("failed to evaluate suspicion rule: %w", err)
	}

	matched, ok := result.Value().(bool)
	if !ok {
		return false, fmt.Errorf("suspicion rule did not evaluate to boolean, got: %T", result.Value())
	}

	return matched, nil
}
