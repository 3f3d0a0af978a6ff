// internal/guardrail/default.go
package guardrail

// NewDefaultEngine builds an engine with every stage rule family installed
// using the default content screener.
func NewDefaultEngine() *Engine {
	return NewEngineWith(DefaultScreener())
}

// NewEngineWith builds an engine with every stage rule family installed and a
// caller-supplied content screener.
func NewEngineWith(screener Screener) *Engine {
	e := NewEngine()
	RegisterInputRules(e, screener)
	RegisterProfileRules(e)
	RegisterPlanRules(e)
	RegisterProgressRules(e, screener)
	RegisterQuizRules(e)
	return e
}
