package cli

import (
	"errors"
	"strconv"
	"strings"

	"tutorial-studio/internal/model"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

func (m studioModel) updatePlanBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "up", "k":
		m.planCursor = clampInt(m.planCursor-1, 0, maxInt(len(m.draft.Steps)-1, 0))
		return m, nil

	case "down", "j":
		m.planCursor = clampInt(m.planCursor+1, 0, maxInt(len(m.draft.Steps)-1, 0))
		return m, nil

	case "enter", "e":
		if len(m.draft.Steps) == 0 {
			return m, nil
		}
		m.editIndex = m.planCursor
		m.editor = newStepForm(m.draft.Steps[m.editIndex], m.width)
		m.mode = studioModeEditStep
		return m, textinput.Blink

	case "a":
		step := model.Step{Action: model.ActionClick, Target: "screen"}
		at := 0
		if len(m.draft.Steps) > 0 {
			at = m.planCursor + 1
		}
		m.draft.Steps = append(m.draft.Steps, model.Step{})
		copy(m.draft.Steps[at+1:], m.draft.Steps[at:])
		m.draft.Steps[at] = step
		renumberSteps(m.draft)
		m.planCursor = at
		m.planDirty = true
		m.editIndex = at
		m.editor = newStepForm(m.draft.Steps[at], m.width)
		m.mode = studioModeEditStep
		return m, textinput.Blink

	case "d":
		if len(m.draft.Steps) == 0 {
			return m, nil
		}
		m.draft.Steps = append(m.draft.Steps[:m.planCursor], m.draft.Steps[m.planCursor+1:]...)
		renumberSteps(m.draft)
		m.planCursor = clampInt(m.planCursor, 0, maxInt(len(m.draft.Steps)-1, 0))
		m.planDirty = true
		m.statusMessage = "step removed (unsaved)"
		return m, nil

	case "s", "ctrl+s":
		return m.savePlan()

	case "x":
		return m.beginExecute()

	case "n":
		return m.startOver()
	}
	return m, nil
}

func (m studioModel) savePlan() (tea.Model, tea.Cmd) {
	if m.saving || m.draft == nil {
		return m, nil
	}
	job := m.sess.Job()
	if job == nil {
		return m, nil
	}
	normalized := model.NormalizePlan(*m.draft)
	if problems := model.ValidatePlan(&normalized); len(problems) > 0 {
		m.statusMessage = "error: " + problems[0]
		return m, nil
	}
	m.draft = &normalized
	m.saving = true
	m.statusMessage = "saving plan..."
	return m, savePlanCmd(m.client, job.ID, normalized)
}

func (m studioModel) updateStepForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.editor == nil {
		m.mode = studioModePlan
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		m.editor = nil
		m.mode = studioModePlan
		return m, nil

	case "tab", "down":
		m.editor.next()
		return m, nil

	case "shift+tab", "up":
		m.editor.prev()
		return m, nil

	case "left", "right":
		if m.editor.current().kind == fieldSelect {
			m.editor.cycle(msg.String() == "right")
			return m, nil
		}

	case "enter":
		if m.editor.focus < len(m.editor.fields)-1 {
			m.editor.next()
			return m, nil
		}
		fallthrough

	case "ctrl+s":
		step := m.editor.step()
		if err := validateStepEdit(step); err != nil {
			m.editor.err = err.Error()
			return m, nil
		}
		m.draft.Steps[m.editIndex] = step
		renumberSteps(m.draft)
		m.planDirty = true
		m.editor = nil
		m.mode = studioModePlan
		m.statusMessage = "step updated (unsaved)"
		return m, nil
	}

	cur := m.editor.current()
	if cur.kind == fieldText {
		var cmd tea.Cmd
		m.editor.input, cmd = m.editor.input.Update(msg)
		m.editor.fields[m.editor.focus].value = m.editor.input.Value()
		return m, cmd
	}
	return m, nil
}

func validateStepEdit(step model.Step) error {
	probe := model.TaskPlan{Goal: "probe", Steps: []model.Step{step}}
	probe.Steps[0].ID = 1
	if problems := model.ValidatePlan(&probe); len(problems) > 0 {
		return errors.New(problems[0])
	}
	return nil
}

func renumberSteps(plan *model.TaskPlan) {
	for i := range plan.Steps {
		plan.Steps[i].ID = i + 1
	}
}

type fieldKind int

const (
	fieldText fieldKind = iota
	fieldSelect
)

type formField struct {
	key       string
	label     string
	kind      fieldKind
	value     string
	options   []string
	optionIdx int
}

// stepForm edits one step in place. A single textinput is rebound as the
// focus moves between text fields; select fields cycle with left/right.
type stepForm struct {
	stepID int
	fields []formField
	focus  int
	input  textinput.Model
	err    string
}

func newStepForm(step model.Step, width int) *stepForm {
	value := ""
	if step.Value != nil {
		value = *step.Value
	}
	f := &stepForm{
		stepID: step.ID,
		fields: []formField{
			{key: "action", label: "Action", kind: fieldSelect, value: step.Action, options: model.Actions()},
			{key: "target", label: "Target", kind: fieldText, value: step.Target},
			{key: "value", label: "Value", kind: fieldText, value: value},
			{key: "description", label: "Description", kind: fieldText, value: step.Description},
			{key: "expected_result", label: "Expected result", kind: fieldText, value: step.ExpectedResult},
		},
	}
	for i, opt := range f.fields[0].options {
		if opt == step.Action {
			f.fields[0].optionIdx = i
			break
		}
	}
	f.input = textinput.New()
	f.input.CharLimit = 256
	f.resize(width)
	f.bind()
	return f
}

func (f *stepForm) resize(width int) {
	f.input.Width = clampInt(width-24, 24, 96)
}

func (f *stepForm) current() formField { return f.fields[f.focus] }

func (f *stepForm) next() { f.move(1) }
func (f *stepForm) prev() { f.move(-1) }

func (f *stepForm) move(delta int) {
	f.err = ""
	f.focus = (f.focus + delta + len(f.fields)) % len(f.fields)
	f.bind()
}

func (f *stepForm) bind() {
	cur := f.fields[f.focus]
	if cur.kind == fieldText {
		f.input.SetValue(cur.value)
		f.input.CursorEnd()
		f.input.Focus()
	} else {
		f.input.Blur()
	}
}

func (f *stepForm) cycle(forward bool) {
	fld := &f.fields[f.focus]
	if len(fld.options) == 0 {
		return
	}
	delta := 1
	if !forward {
		delta = -1
	}
	fld.optionIdx = (fld.optionIdx + delta + len(fld.options)) % len(fld.options)
	fld.value = fld.options[fld.optionIdx]
}

// step assembles the edited field values back into a Step. An empty value
// becomes a nil pointer so the wire shape matches untouched plans.
func (f *stepForm) step() model.Step {
	out := model.Step{ID: f.stepID}
	for _, fld := range f.fields {
		v := strings.TrimSpace(fld.value)
		switch fld.key {
		case "action":
			out.Action = v
		case "target":
			out.Target = v
		case "value":
			if v != "" {
				val := v
				out.Value = &val
			}
		case "description":
			out.Description = v
		case "expected_result":
			out.ExpectedResult = v
		}
	}
	return out
}

func stepSummary(step model.Step) string {
	parts := []string{step.Action, step.Target}
	if step.Value != nil && strings.TrimSpace(*step.Value) != "" {
		parts = append(parts, strconv.Quote(truncateRunes(*step.Value, 32)))
	}
	return strings.Join(parts, "  ")
}
