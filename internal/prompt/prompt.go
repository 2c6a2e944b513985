// Package prompt asks for template data on the terminal.
package prompt

import (
	"context"
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/goliatone/go-tie/pkg/manifest"
)

// ErrAborted is returned when the user interrupts a prompt.
var ErrAborted = errors.New("prompt: aborted")

// InputConfig configures a text prompt.
type InputConfig struct {
	Message string
	Default string
	Help    string
}

// ConfirmConfig configures a yes/no prompt.
type ConfirmConfig struct {
	Message string
	Default bool
	Help    string
}

// Driver abstracts the terminal so Fill can be tested without one.
type Driver interface {
	Input(ctx context.Context, cfg InputConfig) (string, error)
	Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error)
}

// NewSurveyDriver returns a Driver backed by survey.
func NewSurveyDriver() Driver {
	return &surveyDriver{}
}

type surveyDriver struct{}

func (d *surveyDriver) Input(ctx context.Context, cfg InputConfig) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var out string
	prompt := &survey.Input{
		Message: cfg.Message,
		Help:    cfg.Help,
		Default: cfg.Default,
	}
	if err := survey.AskOne(prompt, &out); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

func (d *surveyDriver) Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	var out bool
	prompt := &survey.Confirm{
		Message: cfg.Message,
		Help:    cfg.Help,
		Default: cfg.Default,
	}
	if err := survey.AskOne(prompt, &out); err != nil {
		return false, translateSurveyErr(err)
	}
	return out, nil
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrAborted
	}
	return err
}

// Fill asks for every property missing from data. Flags of if bindings are
// confirmed, loop sequences are skipped, everything else is free text.
func Fill(ctx context.Context, driver Driver, props []manifest.Property, data map[string]any) error {
	if driver == nil {
		return errors.New("prompt: driver is nil")
	}
	for _, prop := range props {
		if _, ok := data[prop.Name]; ok {
			continue
		}
		switch prop.Kind {
		case manifest.KindLoop:
			continue
		case manifest.KindIf:
			v, err := driver.Confirm(ctx, ConfirmConfig{
				Message: fmt.Sprintf("Show %q section?", prop.Name),
			})
			if err != nil {
				return fmt.Errorf("prompt: %s: %w", prop.Name, err)
			}
			data[prop.Name] = v
		default:
			v, err := driver.Input(ctx, InputConfig{
				Message: fmt.Sprintf("%s (%s):", prop.Name, prop.Kind),
			})
			if err != nil {
				return fmt.Errorf("prompt: %s: %w", prop.Name, err)
			}
			data[prop.Name] = v
		}
	}
	return nil
}
