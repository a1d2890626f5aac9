package cli

import (
	"errors"
	"testing"

	"tutorial-studio/internal/api"
	"tutorial-studio/internal/config"
	"tutorial-studio/internal/model"
	"tutorial-studio/internal/session"

	tea "github.com/charmbracelet/bubbletea"
)

func testStudioModel(t *testing.T) studioModel {
	t.Helper()
	settings := config.Settings{
		ServerURL:             "http://127.0.0.1:1",
		DownloadDir:           t.TempDir(),
		PollIntervalSeconds:   1,
		RequestTimeoutSeconds: 1,
	}
	return newStudioModel(api.New(settings.ServerURL), settings)
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func asStudio(t *testing.T, m tea.Model) studioModel {
	t.Helper()
	sm, ok := m.(studioModel)
	if !ok {
		t.Fatalf("expected studioModel, got %T", m)
	}
	return sm
}

func planReadyJob(id string) model.Job {
	return model.Job{
		ID:          id,
		Status:      model.StatusPlanReady,
		Instruction: "open notepad and write hello",
		TaskPlan: &model.TaskPlan{
			Goal: "Open Notepad and write hello",
			Steps: []model.Step{
				{ID: 1, Action: model.ActionOpenApplication, Target: "notepad"},
				{ID: 2, Action: model.ActionTypeText, Target: "editor", Value: strPtr("hello")},
				{ID: 3, Action: model.ActionKeyCombination, Target: "keyboard", Value: strPtr("ctrl+s")},
			},
		},
	}
}

func strPtr(s string) *string { return &s }

func TestStudio_PlanCreatedStartsTracking(t *testing.T) {
	m := testStudioModel(t)

	next, cmd := m.Update(planCreatedMsg{jobID: "job-1", instruction: "open notepad"})
	m = asStudio(t, next)

	if m.mode != studioModeTracking {
		t.Fatalf("expected tracking mode, got %d", m.mode)
	}
	if m.sess.Phase() != session.PhasePolling {
		t.Fatalf("expected polling phase, got %v", m.sess.Phase())
	}
	if cmd == nil {
		t.Fatal("expected a poll tick to be scheduled")
	}
	job := m.sess.Job()
	if job == nil || job.ID != "job-1" || job.Status != model.StatusPending {
		t.Fatalf("expected synthesized pending job, got %+v", job)
	}
}

func TestStudio_PlanCreatedFailureStaysOnPrompt(t *testing.T) {
	m := testStudioModel(t)
	m.input.SetValue("open notepad")
	m.submitting = true

	next, _ := m.Update(planCreatedMsg{err: errors.New("connection refused")})
	m = asStudio(t, next)

	if m.mode != studioModePrompt {
		t.Fatalf("expected prompt mode, got %d", m.mode)
	}
	if m.sess.ActionErr() != "connection refused" {
		t.Fatalf("expected action error recorded, got %q", m.sess.ActionErr())
	}
	if m.input.Value() != "open notepad" {
		t.Fatal("expected instruction preserved for retry")
	}
}

func TestStudio_StaleTickSchedulesNothing(t *testing.T) {
	m := testStudioModel(t)
	next, _ := m.Update(planCreatedMsg{jobID: "job-1", instruction: "x"})
	m = asStudio(t, next)
	gen := m.sess.Generation()

	next, cmd := m.Update(studioTickMsg{gen: gen - 1})
	m = asStudio(t, next)
	if cmd != nil {
		t.Fatal("expected stale tick to be dropped without a fetch")
	}

	next, cmd = m.Update(studioTickMsg{gen: gen})
	asStudio(t, next)
	if cmd == nil {
		t.Fatal("expected current-generation tick to fetch status")
	}
}

func TestStudio_PlanReadyOpensPlanReview(t *testing.T) {
	m := testStudioModel(t)
	next, _ := m.Update(planCreatedMsg{jobID: "job-1", instruction: "x"})
	m = asStudio(t, next)
	gen := m.sess.Generation()

	next, cmd := m.Update(jobStatusMsg{gen: gen, job: planReadyJob("job-1")})
	m = asStudio(t, next)

	if cmd != nil {
		t.Fatal("expected polling to stop at plan_ready")
	}
	if m.mode != studioModePlan {
		t.Fatalf("expected plan review mode, got %d", m.mode)
	}
	if m.draft == nil || len(m.draft.Steps) != 3 {
		t.Fatalf("expected draft copied from job plan, got %+v", m.draft)
	}
	if m.planDirty {
		t.Fatal("fresh draft must not be dirty")
	}
}

func TestStudio_StaleStatusIgnored(t *testing.T) {
	m := testStudioModel(t)
	next, _ := m.Update(planCreatedMsg{jobID: "job-1", instruction: "x"})
	m = asStudio(t, next)
	gen := m.sess.Generation()

	stale := planReadyJob("job-1")
	next, _ = m.Update(jobStatusMsg{gen: gen - 1, job: stale})
	m = asStudio(t, next)

	if m.mode != studioModeTracking {
		t.Fatalf("expected stale status to leave mode alone, got %d", m.mode)
	}
	if m.sess.Job().Status != model.StatusPending {
		t.Fatalf("expected job untouched, got %q", m.sess.Job().Status)
	}
}

func TestStudio_DraftEditMarksDirtyAndBlocksExecute(t *testing.T) {
	m := testStudioModel(t)
	next, _ := m.Update(planCreatedMsg{jobID: "job-1", instruction: "x"})
	m = asStudio(t, next)
	next, _ = m.Update(jobStatusMsg{gen: m.sess.Generation(), job: planReadyJob("job-1")})
	m = asStudio(t, next)

	next, _ = m.Update(keyRune('d'))
	m = asStudio(t, next)
	if len(m.draft.Steps) != 2 || !m.planDirty {
		t.Fatalf("expected step removed and dirty flag set, got %d steps dirty=%v", len(m.draft.Steps), m.planDirty)
	}
	if m.draft.Steps[0].ID != 1 || m.draft.Steps[1].ID != 2 {
		t.Fatalf("expected steps renumbered, got %+v", m.draft.Steps)
	}
	// The job's own plan is untouched until a save round-trips.
	if len(m.sess.Job().TaskPlan.Steps) != 3 {
		t.Fatal("expected session plan unchanged by draft edits")
	}

	next, cmd := m.Update(keyRune('x'))
	m = asStudio(t, next)
	if cmd != nil || m.mode != studioModePlan {
		t.Fatal("expected execute blocked while the draft has unsaved changes")
	}
}

func TestStudio_SavedPlanWritesThrough(t *testing.T) {
	m := testStudioModel(t)
	next, _ := m.Update(planCreatedMsg{jobID: "job-1", instruction: "x"})
	m = asStudio(t, next)
	next, _ = m.Update(jobStatusMsg{gen: m.sess.Generation(), job: planReadyJob("job-1")})
	m = asStudio(t, next)

	next, _ = m.Update(keyRune('d'))
	m = asStudio(t, next)
	saved := *m.draft

	next, _ = m.Update(planSavedMsg{jobID: "job-1", plan: saved})
	m = asStudio(t, next)

	if m.planDirty {
		t.Fatal("expected dirty flag cleared after save")
	}
	if got := len(m.sess.Job().TaskPlan.Steps); got != 2 {
		t.Fatalf("expected session plan replaced by saved plan, got %d steps", got)
	}
	if m.sess.Job().Status != model.StatusPlanReady {
		t.Fatalf("expected save to leave status alone, got %q", m.sess.Job().Status)
	}
}

func TestStudio_ExecuteGoesOptimisticAndRollsBack(t *testing.T) {
	m := testStudioModel(t)
	next, _ := m.Update(planCreatedMsg{jobID: "job-1", instruction: "x"})
	m = asStudio(t, next)
	next, _ = m.Update(jobStatusMsg{gen: m.sess.Generation(), job: planReadyJob("job-1")})
	m = asStudio(t, next)

	next, cmd := m.Update(keyRune('x'))
	m = asStudio(t, next)
	if cmd == nil {
		t.Fatal("expected execute request and poll tick scheduled")
	}
	if m.mode != studioModeTracking {
		t.Fatalf("expected tracking mode, got %d", m.mode)
	}
	if m.sess.Job().Status != model.StatusRecording {
		t.Fatalf("expected optimistic recording status, got %q", m.sess.Job().Status)
	}
	gen := m.sess.Generation()

	next, _ = m.Update(jobActionMsg{kind: "execute", gen: gen, err: errors.New("HTTP 500")})
	m = asStudio(t, next)
	if m.sess.Job().Status != model.StatusPlanReady {
		t.Fatalf("expected rollback to plan_ready, got %q", m.sess.Job().Status)
	}
	if m.mode != studioModePlan {
		t.Fatalf("expected return to plan review after rollback, got %d", m.mode)
	}
	if m.sess.ActionErr() == "" {
		t.Fatal("expected action error surfaced")
	}

	// A poll armed for the failed action is now stale.
	next, cmd = m.Update(studioTickMsg{gen: gen})
	asStudio(t, next)
	if cmd != nil {
		t.Fatal("expected post-rollback tick from the dead generation to be dropped")
	}
}

func TestStudio_StartOverResetsEverything(t *testing.T) {
	m := testStudioModel(t)
	next, _ := m.Update(planCreatedMsg{jobID: "job-1", instruction: "x"})
	m = asStudio(t, next)
	next, _ = m.Update(jobStatusMsg{gen: m.sess.Generation(), job: planReadyJob("job-1")})
	m = asStudio(t, next)
	gen := m.sess.Generation()

	next, _ = m.Update(keyRune('n'))
	m = asStudio(t, next)

	if m.mode != studioModePrompt || m.sess.Job() != nil || m.draft != nil {
		t.Fatal("expected a clean prompt after starting over")
	}

	next, cmd := m.Update(studioTickMsg{gen: gen})
	asStudio(t, next)
	if cmd != nil {
		t.Fatal("expected old job's tick to be dropped after reset")
	}
}

func TestStepForm_EmptyValueBecomesNil(t *testing.T) {
	f := newStepForm(model.Step{ID: 2, Action: model.ActionClick, Target: "button", Value: strPtr("")}, 80)
	step := f.step()
	if step.Value != nil {
		t.Fatalf("expected empty value to marshal as null, got %q", *step.Value)
	}
	if step.ID != 2 || step.Action != model.ActionClick || step.Target != "button" {
		t.Fatalf("expected fields round-tripped, got %+v", step)
	}
}

func TestStepForm_CycleWrapsActionOptions(t *testing.T) {
	f := newStepForm(model.Step{ID: 1, Action: model.ActionClick, Target: "screen"}, 80)
	f.cycle(false)
	if got := f.fields[0].value; got != model.ActionMoveMouse {
		t.Fatalf("expected backward cycle to wrap to last action, got %q", got)
	}
	f.cycle(true)
	if got := f.fields[0].value; got != model.ActionClick {
		t.Fatalf("expected forward cycle back to click, got %q", got)
	}
}
