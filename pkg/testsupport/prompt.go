package testsupport

import (
	"context"
	"fmt"
	"sync"

	"github.com/goliatone/go-wand/pkg/prompt"
)

// Answer is one scripted response. Text answers Input prompts; Index answers
// Select prompts. Err, when set, is returned instead.
type Answer struct {
	Text  string
	Index int
	Err   error
}

// Text is shorthand for a scripted Input answer. An empty string accepts the
// prompt default.
func Text(s string) Answer { return Answer{Text: s} }

// Choose is shorthand for a scripted Select answer.
func Choose(index int) Answer { return Answer{Index: index} }

// PromptCall records a prompt the driver was asked to show.
type PromptCall struct {
	Kind    string
	Message string
	Default string
	Options []string
}

// ScriptedDriver replays answers in order and records every prompt. It
// mimics the terminal contract: an empty Input answer yields the default and
// a validator rejection is returned as an error.
type ScriptedDriver struct {
	mu      sync.Mutex
	answers []Answer
	Calls   []PromptCall
	Infos   []string
}

var _ prompt.Driver = (*ScriptedDriver)(nil)

// NewScriptedDriver returns a driver that replays answers.
func NewScriptedDriver(answers ...Answer) *ScriptedDriver {
	return &ScriptedDriver{answers: answers}
}

func (d *ScriptedDriver) next() (Answer, error) {
	if len(d.answers) == 0 {
		return Answer{}, fmt.Errorf("testsupport: script exhausted after %d prompts", len(d.Calls))
	}
	a := d.answers[0]
	d.answers = d.answers[1:]
	return a, nil
}

// Input implements prompt.Driver.
func (d *ScriptedDriver) Input(ctx context.Context, cfg prompt.InputConfig) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	d.Calls = append(d.Calls, PromptCall{Kind: "input", Message: cfg.Message, Default: cfg.Default})
	a, err := d.next()
	if err != nil {
		return "", err
	}
	if a.Err != nil {
		return "", a.Err
	}
	value := a.Text
	if value == "" {
		value = cfg.Default
	}
	if cfg.Validator != nil {
		if err := cfg.Validator(value); err != nil {
			return "", err
		}
	}
	return value, nil
}

// Select implements prompt.Driver.
func (d *ScriptedDriver) Select(ctx context.Context, cfg prompt.SelectConfig) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	d.Calls = append(d.Calls, PromptCall{
		Kind:    "select",
		Message: cfg.Message,
		Options: append([]string(nil), cfg.Options...),
	})
	a, err := d.next()
	if err != nil {
		return 0, err
	}
	if a.Err != nil {
		return 0, a.Err
	}
	if a.Index < 0 || a.Index >= len(cfg.Options) {
		return 0, fmt.Errorf("testsupport: scripted index %d out of range (%d options)", a.Index, len(cfg.Options))
	}
	return a.Index, nil
}

// Info implements prompt.Driver.
func (d *ScriptedDriver) Info(ctx context.Context, msg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Infos = append(d.Infos, msg)
	return nil
}

// Remaining reports how many scripted answers were not consumed.
func (d *ScriptedDriver) Remaining() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.answers)
}
