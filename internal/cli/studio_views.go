package cli

import (
	"fmt"
	"strings"

	"tutorial-studio/internal/model"
)

func (m studioModel) View() string {
	var b strings.Builder
	b.WriteString(studioTitleStyle.Render("Tutorial Studio"))
	b.WriteString("\n\n")

	switch m.mode {
	case studioModePrompt:
		m.viewPrompt(&b)
	case studioModeTracking:
		m.viewTracking(&b)
	case studioModePlan:
		m.viewPlan(&b)
	case studioModeEditStep:
		m.viewStepForm(&b)
	}

	if m.statusMessage != "" {
		b.WriteString("\n")
		if strings.HasPrefix(m.statusMessage, "error:") {
			b.WriteString(studioErrorStyle.Render(m.statusMessage))
		} else {
			b.WriteString(studioMutedStyle.Render(m.statusMessage))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m studioModel) viewPrompt(b *strings.Builder) {
	b.WriteString("What should the tutorial show?\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	if m.submitting {
		b.WriteString(m.spin.View())
		b.WriteString(studioMutedStyle.Render(" submitting instruction..."))
		b.WriteString("\n")
	}
	if m.sess.ActionErr() != "" {
		b.WriteString(studioErrorStyle.Render("error: " + m.sess.ActionErr()))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(studioMutedStyle.Render("enter submit • esc quit"))
	b.WriteString("\n")
}

func (m studioModel) viewTracking(b *strings.Builder) {
	job := m.sess.Job()
	if job == nil {
		b.WriteString(studioMutedStyle.Render("no active job"))
		b.WriteString("\n")
		return
	}

	b.WriteString(fmt.Sprintf("Job %s\n", job.ID))
	b.WriteString(studioMutedStyle.Render(truncateRunes(job.Instruction, 76)))
	b.WriteString("\n\n")

	switch job.Status {
	case model.StatusCompleted:
		b.WriteString(studioOKStyle.Render("✓ " + model.StatusLabel(job.Status)))
		b.WriteString("\n")
		if job.VideoFilename != "" {
			b.WriteString("  " + job.VideoFilename + "\n")
		}
		if job.VideoURL != "" {
			b.WriteString(studioMutedStyle.Render("  " + m.client.MediaURL(job.VideoURL)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(studioMutedStyle.Render("g download • o show url • p view plan • r regenerate • n new • q quit"))
		b.WriteString("\n")

	case model.StatusFailed:
		b.WriteString(studioErrorStyle.Render("✗ " + model.StatusLabel(job.Status)))
		b.WriteString("\n")
		if job.Error != "" {
			b.WriteString("  " + job.Error + "\n")
		}
		b.WriteString("\n")
		b.WriteString(studioMutedStyle.Render("r retry • n new • q quit"))
		b.WriteString("\n")

	default:
		b.WriteString(m.spin.View())
		b.WriteString(" " + model.StatusLabel(job.Status))
		if job.Message != "" {
			b.WriteString(studioMutedStyle.Render("  " + job.Message))
		}
		b.WriteString("\n")
		if m.sess.PollErr() != "" {
			b.WriteString(studioErrorStyle.Render("  poll failed: " + m.sess.PollErr() + " (retrying)"))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(studioMutedStyle.Render("n cancel and start over • q quit"))
		b.WriteString("\n")
	}

	if m.sess.ActionErr() != "" {
		b.WriteString(studioErrorStyle.Render("error: " + m.sess.ActionErr()))
		b.WriteString("\n")
	}
}

func (m studioModel) viewPlan(b *strings.Builder) {
	if m.draft == nil {
		b.WriteString(studioMutedStyle.Render("no plan loaded"))
		b.WriteString("\n")
		return
	}

	var panel strings.Builder
	panel.WriteString("Goal: " + m.draft.Goal + "\n")
	if len(m.draft.Prerequisites) > 0 {
		panel.WriteString(studioMutedStyle.Render("Prerequisites: " + strings.Join(m.draft.Prerequisites, ", ")))
		panel.WriteString("\n")
	}
	if m.draft.SuccessCriteria != "" {
		panel.WriteString(studioMutedStyle.Render("Done when: " + m.draft.SuccessCriteria))
		panel.WriteString("\n")
	}
	b.WriteString(studioPanelStyle.Render(panel.String()))
	b.WriteString("\n\n")

	if len(m.draft.Steps) == 0 {
		b.WriteString(studioMutedStyle.Render("(no steps — press a to add one)"))
		b.WriteString("\n")
	}
	for i, step := range m.draft.Steps {
		line := fmt.Sprintf("%2d. %s", step.ID, stepSummary(step))
		if i == m.planCursor {
			b.WriteString(studioSelStyle.Render("▸ " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
		if i == m.planCursor && step.Description != "" {
			b.WriteString(studioMutedStyle.Render("      " + truncateRunes(step.Description, 72)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	if m.planDirty {
		b.WriteString(studioErrorStyle.Render("unsaved changes"))
		b.WriteString("\n")
	}
	if m.saving {
		b.WriteString(m.spin.View())
		b.WriteString(studioMutedStyle.Render(" saving..."))
		b.WriteString("\n")
	}
	b.WriteString(studioMutedStyle.Render("↑/↓ select • enter edit • a add • d delete • s save • x execute • n new • q quit"))
	b.WriteString("\n")
}

func (m studioModel) viewStepForm(b *strings.Builder) {
	f := m.editor
	if f == nil {
		return
	}
	b.WriteString(fmt.Sprintf("Edit step %d\n\n", f.stepID))
	for i, fld := range f.fields {
		label := fmt.Sprintf("%-16s", fld.label)
		if i == f.focus {
			b.WriteString(studioSelStyle.Render("▸ " + label))
			if fld.kind == fieldSelect {
				b.WriteString("  ◂ " + fld.value + " ▸")
			} else {
				b.WriteString("  " + f.input.View())
			}
		} else {
			b.WriteString("  " + studioMutedStyle.Render(label))
			b.WriteString("  " + fld.value)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	if f.err != "" {
		b.WriteString(studioErrorStyle.Render("error: " + f.err))
		b.WriteString("\n")
	}
	b.WriteString(studioMutedStyle.Render("tab/↑/↓ field • ←/→ choose action • ctrl+s apply • esc cancel"))
	b.WriteString("\n")
}
