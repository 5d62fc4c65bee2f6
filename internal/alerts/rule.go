// Package alerts evaluates the configurable high-cost rule against each
// prediction.
package alerts

import (
	"fmt"

	"github.com/google/cel-go/cel"
)

// DefaultExpression flags very expensive predictions and smokers with
// several chronic conditions.
const DefaultExpression = `prediction > 200000.0 || (smoker && chronic_count >= 2)`

const costLimit = 100000

// Facts are the variables visible to a rule expression.
type Facts struct {
	Prediction    float64
	Age           float64
	BMI           float64
	Smoker        bool
	ChronicCount  int
	InsuranceType string
	CoveragePct   float64
}

func (f Facts) activation() map[string]any {
	return map[string]any{
		"prediction":     f.Prediction,
		"age":            f.Age,
		"bmi":            f.BMI,
		"smoker":         f.Smoker,
		"chronic_count":  int64(f.ChronicCount),
		"insurance_type": f.InsuranceType,
		"coverage_pct":   f.CoveragePct,
	}
}

// Rule is a compiled boolean CEL expression. It is safe for concurrent use.
type Rule struct {
	expression string
	program    cel.Program
}

func NewRule(expression string) (*Rule, error) {
	env, err := cel.NewEnv(
		cel.Variable("prediction", cel.DoubleType),
		cel.Variable("age", cel.DoubleType),
		cel.Variable("bmi", cel.DoubleType),
		cel.Variable("smoker", cel.BoolType),
		cel.Variable("chronic_count", cel.IntType),
		cel.Variable("insurance_type", cel.StringType),
		cel.Variable("coverage_pct", cel.DoubleType),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	ast, issues := env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error: %w", issues.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("alert rule must evaluate to bool, got %s", ast.OutputType())
	}

	prog, err := env.Program(ast, cel.CostLimit(costLimit))
	if err != nil {
		return nil, fmt.Errorf("program creation error: %w", err)
	}
	return &Rule{expression: expression, program: prog}, nil
}

func (r *Rule) Expression() string {
	return r.expression
}

func (r *Rule) Matches(f Facts) (bool, error) {
	out, _, err := r.program.Eval(f.activation())
	if err != nil {
		return false, fmt.Errorf("evaluate alert rule: %w", err)
	}
	matched, ok := out.Value().(bool)
	return ok && matched, nil
}
