package prompt

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-tie/pkg/manifest"
)

type scriptedDriver struct {
	inputs   map[string]string
	confirms map[string]bool
	asked    []string
	err      error
}

func (d *scriptedDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	d.asked = append(d.asked, cfg.Message)
	if d.err != nil {
		return "", d.err
	}
	return d.inputs[cfg.Message], nil
}

func (d *scriptedDriver) Confirm(_ context.Context, cfg ConfirmConfig) (bool, error) {
	d.asked = append(d.asked, cfg.Message)
	return d.confirms[cfg.Message], nil
}

func TestFillAsksOnlyForMissingProperties(t *testing.T) {
	driver := &scriptedDriver{
		inputs:   map[string]string{"title (text):": "Hello"},
		confirms: map[string]bool{`Show "draft" section?`: true},
	}
	props := []manifest.Property{
		{Name: "title", Kind: manifest.KindText},
		{Name: "author", Kind: manifest.KindText},
		{Name: "tags", Kind: manifest.KindLoop},
		{Name: "draft", Kind: manifest.KindIf},
	}
	data := map[string]any{"author": "Ann"}

	if err := Fill(context.Background(), driver, props, data); err != nil {
		t.Fatalf("fill: %v", err)
	}

	want := map[string]any{"title": "Hello", "author": "Ann", "draft": true}
	if diff := cmp.Diff(want, data); diff != "" {
		t.Fatalf("data mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"title (text):", `Show "draft" section?`}, driver.asked); diff != "" {
		t.Fatalf("prompts mismatch (-want +got):\n%s", diff)
	}
}

func TestFillPropagatesAbort(t *testing.T) {
	driver := &scriptedDriver{err: ErrAborted}
	props := []manifest.Property{{Name: "title", Kind: manifest.KindText}}

	err := Fill(context.Background(), driver, props, map[string]any{})
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

func TestSurveyDriverHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewSurveyDriver().Input(ctx, InputConfig{Message: "x"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
}
