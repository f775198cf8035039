package fsm_test

import (
	"context"
	"errors"
	"testing"

	adapter "github.com/plenno/plenno/internal/adapter/fsm"
	"github.com/plenno/plenno/internal/domain"
)

func TestValidator_AllTransitions(t *testing.T) {
	v := adapter.New()
	ctx := context.Background()

	for _, tr := range domain.Transitions {
		dst, err := v.Apply(ctx, tr.Src, tr.Event)
		if err != nil {
			t.Errorf("Apply(%q, %q) unexpected error: %v", tr.Src, tr.Event, err)
			continue
		}
		if dst != tr.Dst {
			t.Errorf("Apply(%q, %q) = %q, want %q", tr.Src, tr.Event, dst, tr.Dst)
		}
	}
}

func TestValidator_InvalidTransition(t *testing.T) {
	v := adapter.New()
	ctx := context.Background()

	// Can't suspend a tenant still pending onboarding follow-up.
	_, err := v.Apply(ctx, domain.StatusPending, domain.EventSuspend)
	var trErr *domain.TransitionError
	if !errors.As(err, &trErr) {
		t.Fatalf("expected TransitionError, got %v", err)
	}
	if trErr.Event != domain.EventSuspend {
		t.Errorf("event = %q, want %q", trErr.Event, domain.EventSuspend)
	}
	if trErr.Current != domain.StatusPending {
		t.Errorf("current = %q, want %q", trErr.Current, domain.StatusPending)
	}
}

func TestValidator_CanceledIsTerminal(t *testing.T) {
	v := adapter.New()
	ctx := context.Background()

	for _, event := range []domain.Event{
		domain.EventActivate,
		domain.EventSuspend,
		domain.EventReactivate,
		domain.EventDeactivate,
		domain.EventCancel,
	} {
		if _, err := v.Apply(ctx, domain.StatusCanceled, event); err == nil {
			t.Errorf("Apply(canceled, %q) should fail", event)
		}
	}
}
