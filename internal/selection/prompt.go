package selection

import (
	"errors"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/core"
	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/devbench/devbench/internal/debug"
)

// Prompter renders a checklist and returns the names the user left checked.
// validate is consulted before the answer is accepted; a non-nil error keeps
// the prompt open, which is how an empty selection is refused.
type Prompter interface {
	MultiSelect(message string, options, defaults []string, validate func([]string) error) ([]string, error)
}

// SurveyPrompter is a Prompter backed by survey's MultiSelect
type SurveyPrompter struct {
	// PageSize limits the number of visible options (0 uses survey's default)
	PageSize int
	// Options are passed to survey.AskOne, e.g. survey.WithStdio in tests
	Options []survey.AskOpt
}

// MultiSelect implements Prompter. Ctrl-C is reported as ErrCancelled.
func (p *SurveyPrompter) MultiSelect(message string, options, defaults []string, validate func([]string) error) ([]string, error) {
	prompt := &survey.MultiSelect{
		Message:  message,
		Options:  options,
		Default:  defaults,
		PageSize: p.PageSize,
		Help:     "space toggles a target, enter confirms",
	}

	opts := append([]survey.AskOpt{}, p.Options...)
	opts = append(opts, survey.WithValidator(func(ans interface{}) error {
		return validate(answerNames(ans))
	}))

	var answers []string
	if err := survey.AskOne(prompt, &answers, opts...); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return nil, ErrCancelled
		}
		return nil, err
	}
	return answers, nil
}

// answerNames extracts option values from what survey hands a validator
func answerNames(ans interface{}) []string {
	switch v := ans.(type) {
	case []core.OptionAnswer:
		names := make([]string, len(v))
		for i, a := range v {
			names[i] = a.Value
		}
		return names
	case []string:
		return v
	default:
		return nil
	}
}

// Run shows the session's names as a checklist with the current selection
// pre-checked, then confirms the session with the user's answer. The prompt
// rejects an empty answer, so a confirmed session is never empty. A user
// abort cancels the session and returns ErrCancelled.
func Run(s *Session, p Prompter, message string) ([]string, error) {
	debug.LogSection("Target Selection")

	validate := func(names []string) error {
		next, err := reconcile(s.State(), names)
		if err != nil {
			return err
		}
		if !next.CanConfirm() {
			return ErrEmptySelection
		}
		return nil
	}

	answers, err := p.MultiSelect(message, s.State().names, s.Snapshot(), validate)
	if err != nil {
		if errors.Is(err, ErrCancelled) {
			_ = s.Cancel()
			return nil, ErrCancelled
		}
		return nil, err
	}

	if err := s.SetSelected(answers); err != nil {
		return nil, err
	}
	if err := s.Confirm(); err != nil {
		return nil, err
	}

	selected, err := s.Result()
	if err == nil {
		debug.Log("Selected targets: %v", selected)
	}
	return selected, err
}

// Auto confirms the session with its current selection, without prompting
func Auto(s *Session) ([]string, error) {
	if err := s.Confirm(); err != nil {
		return nil, err
	}
	return s.Result()
}
