// Package session models the client side of one instruction-to-video job:
// which job is active, whether the status poll loop should be running, and
// which in-flight responses are still allowed to touch state.
//
// A Session is pure state. Callers own all I/O and timers and feed results
// back in; every feeder carries the generation it was started under, and
// results from a superseded generation are dropped. That single rule is what
// keeps a reset or replaced job from being overwritten by a stale response.
package session

import (
	"time"

	"tutorial-studio/internal/model"
)

// DefaultPollInterval is the fixed status re-fetch cadence.
const DefaultPollInterval = 2 * time.Second

type Phase int

const (
	// PhaseIdle: no active job.
	PhaseIdle Phase = iota
	// PhasePolling: a job exists and its status is not yet actionable or
	// terminal; the poll loop should be running.
	PhasePolling
	// PhaseSettled: status reached {plan_ready, completed, failed}; polling
	// stays off until execute/regenerate re-arms it.
	PhaseSettled
)

func (p Phase) String() string {
	switch p {
	case PhasePolling:
		return "polling"
	case PhaseSettled:
		return "settled"
	default:
		return "idle"
	}
}

type Session struct {
	job        *model.Job
	basis      *model.Job // pre-action snapshot while an optimistic status is showing
	phase      Phase
	generation int

	actionErr string // one-shot action failures (create/save/execute/regenerate)
	pollErr   string // latest transient poll failure, display only
}

func New() *Session {
	return &Session{phase: PhaseIdle}
}

func (s *Session) Job() *model.Job     { return s.job }
func (s *Session) Phase() Phase        { return s.phase }
func (s *Session) Generation() int     { return s.generation }
func (s *Session) ActionErr() string   { return s.actionErr }
func (s *Session) PollErr() string     { return s.pollErr }
func (s *Session) ClearActionErr()     { s.actionErr = "" }
func (s *Session) FailAction(err error) {
	if err != nil {
		s.actionErr = err.Error()
	}
}

func (s *Session) ShouldPoll() bool {
	return s.phase == PhasePolling && s.job != nil
}

// Begin discards any previous job and starts tracking a freshly created one.
// The returned generation must tag every poll started for this job.
func (s *Session) Begin(jobID, instruction string) int {
	s.generation++
	s.job = &model.Job{
		ID:          jobID,
		Status:      model.StatusPending,
		Message:     "Job accepted, waiting for the planner...",
		Instruction: instruction,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	s.basis = nil
	s.phase = PhasePolling
	s.actionErr = ""
	s.pollErr = ""
	return s.generation
}

// Reset is a hard cancellation: the active job is discarded and every
// in-flight response for it becomes stale.
func (s *Session) Reset() {
	s.generation++
	s.job = nil
	s.basis = nil
	s.phase = PhaseIdle
	s.actionErr = ""
	s.pollErr = ""
}

// ApplyStatus reconciles a status read. Responses from a superseded
// generation or for a different job id are dropped without touching state.
// The return value reports whether the poll loop should keep running.
func (s *Session) ApplyStatus(gen int, job model.Job) bool {
	if gen != s.generation {
		return false
	}
	if s.job == nil || s.job.ID != job.ID {
		return false
	}

	applied := job.Clone()
	s.job = &applied
	s.basis = nil
	s.pollErr = ""
	if model.IsSettled(applied.Status) {
		s.phase = PhaseSettled
	} else {
		s.phase = PhasePolling
	}
	return s.phase == PhasePolling
}

// ApplyPollError records a transient fetch failure. It never clears the job,
// never changes phase; the loop retries on its next interval.
func (s *Session) ApplyPollError(gen int, err error) {
	if gen != s.generation || s.job == nil || err == nil {
		return
	}
	s.pollErr = err.Error()
}

// BeginExecute optimistically moves the active job into recording and re-arms
// the poll loop. The generation advances so responses sent before the action
// cannot overwrite the optimistic value; the pre-action job is kept as the
// rollback basis in case the execute request fails.
func (s *Session) BeginExecute() (int, bool) {
	return s.beginAction(false)
}

// BeginRegenerate is BeginExecute plus clearing the stale video fields so the
// previous render is not shown while the new one is in flight.
func (s *Session) BeginRegenerate() (int, bool) {
	return s.beginAction(true)
}

func (s *Session) beginAction(clearVideo bool) (int, bool) {
	if s.job == nil {
		return 0, false
	}
	snapshot := s.job.Clone()
	s.basis = &snapshot

	optimistic := s.job.Clone()
	optimistic.Status = model.StatusRecording
	optimistic.Message = "Executing task plan..."
	optimistic.Error = ""
	if clearVideo {
		optimistic.VideoURL = ""
		optimistic.VideoFilename = ""
	}
	s.job = &optimistic

	s.generation++
	s.phase = PhasePolling
	s.actionErr = ""
	return s.generation, true
}

// RollbackAction restores the pre-action snapshot after a failed
// execute/regenerate request and records the failure. The generation advances
// again so any poll armed for the failed action goes stale.
func (s *Session) RollbackAction(err error) {
	if s.basis != nil {
		restored := s.basis.Clone()
		s.job = &restored
		s.basis = nil
	}
	s.generation++
	if s.job != nil && model.IsSettled(s.job.Status) {
		s.phase = PhaseSettled
	} else if s.job != nil {
		s.phase = PhasePolling
	}
	s.FailAction(err)
}

// ApplyPlan is the task-plan write-through: after a successful save the local
// plan is exactly the plan just submitted. Job status is never touched here.
func (s *Session) ApplyPlan(plan model.TaskPlan) bool {
	if s.job == nil {
		return false
	}
	s.job.TaskPlan = plan.Clone()
	return true
}
