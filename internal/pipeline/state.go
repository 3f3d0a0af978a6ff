// internal/pipeline/state.go
package pipeline

// State is one position in the run state machine.
type State string

const (
	StateIntake          State = "INTAKE"
	StateProfiling       State = "PROFILING"
	StatePlanning        State = "PLANNING"
	StateAwaitProgress   State = "AWAIT_PROGRESS"
	StateScoring         State = "SCORING"
	StateConditionalGate State = "CONDITIONAL_GATE"
	StateAwaitQuiz       State = "AWAIT_QUIZ"
	StateRecommending    State = "RECOMMENDING"
	StateCompleted       State = "COMPLETED"
	StateErrored         State = "ERRORED"
	StateRemediation     State = "REMEDIATION"
)

// Terminal reports whether the machine can never advance again.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateErrored
}

// Gate reports whether the state is a human-input suspension point. A gated
// run advances only through the matching Resume call; there is no
// timeout-based auto-advance.
func (s State) Gate() bool {
	return s == StateAwaitProgress || s == StateAwaitQuiz
}
