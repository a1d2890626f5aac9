package model

import "testing"

func TestIsSettled_OnlyActionableOrTerminal(t *testing.T) {
	settled := []string{StatusPlanReady, StatusCompleted, StatusFailed}
	for _, s := range settled {
		if !IsSettled(s) {
			t.Fatalf("expected %q to be settled", s)
		}
	}

	inFlight := []string{StatusPending, StatusGeneratingPlan, StatusRecording, "not_a_status", ""}
	for _, s := range inFlight {
		if IsSettled(s) {
			t.Fatalf("expected %q not to be settled", s)
		}
	}
}

func TestIsKnownStatus(t *testing.T) {
	for _, s := range []string{StatusPending, StatusGeneratingPlan, StatusPlanReady, StatusRecording, StatusCompleted, StatusFailed} {
		if !IsKnownStatus(s) {
			t.Fatalf("expected %q to be known", s)
		}
	}
	if IsKnownStatus("archived") {
		t.Fatal("expected unknown status to be rejected")
	}
}

func TestStatusLabel_FallsBackToRawTag(t *testing.T) {
	if got := StatusLabel(StatusGeneratingPlan); got != "generating plan" {
		t.Fatalf("unexpected label %q", got)
	}
	// Unknown server tags pass through so new server states still render.
	if got := StatusLabel("uploading"); got != "uploading" {
		t.Fatalf("unexpected label %q", got)
	}
}
