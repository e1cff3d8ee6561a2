package selection

import (
	"errors"
	"testing"

	"github.com/AlecAivazis/survey/v2/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedPrompter replays answers, consulting validate for each like survey does
type scriptedPrompter struct {
	answers  [][]string
	err      error
	defaults []string
	options  []string
	refused  int
}

func (p *scriptedPrompter) MultiSelect(message string, options, defaults []string, validate func([]string) error) ([]string, error) {
	p.options = options
	p.defaults = defaults
	if p.err != nil {
		return nil, p.err
	}
	for _, answer := range p.answers {
		if err := validate(answer); err != nil {
			p.refused++
			continue
		}
		return answer, nil
	}
	return nil, errors.New("script exhausted")
}

func TestRun_ConfirmsAnswer(t *testing.T) {
	s := NewSession(abcCatalog())
	p := &scriptedPrompter{answers: [][]string{{"C", "A"}}}

	got, err := Run(s, p, "Choose targets")
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "C"}, got)
	assert.Equal(t, []string{"A", "B", "C"}, p.options)
	assert.Equal(t, []string{"A", "B", "C"}, p.defaults, "all targets start pre-checked")
	assert.Equal(t, PhaseConfirmed, s.Phase())
}

func TestRun_EmptyAnswerKeepsPromptOpen(t *testing.T) {
	s := NewSession(abcCatalog())
	p := &scriptedPrompter{answers: [][]string{{}, {"B"}}}

	got, err := Run(s, p, "Choose targets")
	require.NoError(t, err)
	assert.Equal(t, 1, p.refused)
	assert.Equal(t, []string{"B"}, got)
}

func TestRun_Cancelled(t *testing.T) {
	s := NewSession(abcCatalog())
	p := &scriptedPrompter{err: ErrCancelled}

	_, err := Run(s, p, "Choose targets")
	assert.True(t, errors.Is(err, ErrCancelled))
	assert.Equal(t, PhaseCancelled, s.Phase())
}

func TestRun_PromptFailure(t *testing.T) {
	s := NewSession(abcCatalog())
	p := &scriptedPrompter{err: errors.New("not a terminal")}

	_, err := Run(s, p, "Choose targets")
	assert.EqualError(t, err, "not a terminal")
	assert.Equal(t, PhaseOpen, s.Phase())
}

func TestRun_UsesPreselectionAsDefaults(t *testing.T) {
	s := NewSession(abcCatalog())
	require.NoError(t, Preselect(s, []string{"b"}))
	p := &scriptedPrompter{answers: [][]string{{"B"}}}

	_, err := Run(s, p, "Choose targets")
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, p.defaults)
}

func TestAuto(t *testing.T) {
	s := NewSession(abcCatalog())
	got, err := Auto(s)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, got)

	empty := NewSession(abcCatalog())
	require.NoError(t, empty.SetSelected(nil))
	_, err = Auto(empty)
	assert.True(t, errors.Is(err, ErrEmptySelection))
}

func TestAnswerNames(t *testing.T) {
	assert.Equal(t, []string{"A", "C"}, answerNames([]core.OptionAnswer{{Value: "A", Index: 0}, {Value: "C", Index: 2}}))
	assert.Equal(t, []string{"B"}, answerNames([]string{"B"}))
	assert.Nil(t, answerNames(42))
}
