package visibility

// Evaluator decides whether a condition expression holds against the current
// form record. Conditions drive conditional requiredness ("category ==
// \"Electronics\"") and field presentation rules.
type Evaluator interface {
	Eval(rule string, ctx Context) (bool, error)
}

// Context provides inputs to an Evaluator. Values is normally the form's
// current record; Extras allows callers to inject arbitrary context such as
// user roles or feature flags.
type Context struct {
	Values map[string]any
	Extras map[string]any
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(rule string, ctx Context) (bool, error)

// Eval delegates to the underlying function.
func (fn EvaluatorFunc) Eval(rule string, ctx Context) (bool, error) {
	return fn(rule, ctx)
}
