package confirm

// Prompter presents a confirm/decline choice to the user and reports the
// decision asynchronously. Dismissing the prompt without an explicit choice
// must report false.
type Prompter interface {
	Confirm(title, message string, decision func(confirmed bool))
}

// Gate protects a running brew from being silently discarded. Any action that
// would replace or cancel an active countdown passes through here first.
type Gate struct {
	prompter Prompter
}

// New creates a Gate backed by the given prompter.
func New(prompter Prompter) *Gate {
	return &Gate{prompter: prompter}
}

// RequestCancelOrReplace resolves true immediately when no session is active,
// and otherwise defers to the user. The running session survives anything
// short of an explicit confirmation.
func (gate *Gate) RequestCancelOrReplace(sessionActive bool, decision func(confirmed bool)) {
	if !sessionActive {
		decision(true)
		return
	}
	gate.prompter.Confirm("Brewing in progress", "Abandon the tea that is already brewing?", decision)
}
