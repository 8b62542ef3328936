package cli

// Prompter asks the user for input. Implementations wrap cancellation in
// ErrPromptCancelled.
type Prompter interface {
	Select(label string, items []string, defaultValue string) (int, string, error)
	Prompt(label string, defaultValue string) (string, error)
	Confirm(label string, defaultYes bool) (bool, error)
}
