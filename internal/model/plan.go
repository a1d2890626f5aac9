package model

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	ActionClick           = "click"
	ActionDoubleClick     = "double_click"
	ActionRightClick      = "right_click"
	ActionTypeText        = "type_text"
	ActionKeyPress        = "key_press"
	ActionKeyCombination  = "key_combination"
	ActionWait            = "wait"
	ActionOpenApplication = "open_application"
	ActionScroll          = "scroll"
	ActionMoveMouse       = "move_mouse"
)

// defaultWaitSeconds is substituted when a wait step carries no usable value.
const defaultWaitSeconds = "4"

var knownActions = map[string]bool{
	ActionClick:           true,
	ActionDoubleClick:     true,
	ActionRightClick:      true,
	ActionTypeText:        true,
	ActionKeyPress:        true,
	ActionKeyCombination:  true,
	ActionWait:            true,
	ActionOpenApplication: true,
	ActionScroll:          true,
	ActionMoveMouse:       true,
}

var reDigits = regexp.MustCompile(`\d+`)

func IsKnownAction(action string) bool {
	return knownActions[action]
}

// Actions lists the known step actions in a stable order, for editors.
func Actions() []string {
	return []string{
		ActionClick,
		ActionDoubleClick,
		ActionRightClick,
		ActionTypeText,
		ActionKeyPress,
		ActionKeyCombination,
		ActionWait,
		ActionOpenApplication,
		ActionScroll,
		ActionMoveMouse,
	}
}

// ValidatePlan reports the problems that would make the server reject a plan
// save. Warnings (vague targets, missing waits) are the server's business;
// only hard errors are returned.
func ValidatePlan(plan *TaskPlan) []string {
	if plan == nil {
		return []string{"plan is required"}
	}
	var problems []string
	if strings.TrimSpace(plan.Goal) == "" {
		problems = append(problems, "plan must have a goal")
	}
	if len(plan.Steps) == 0 {
		problems = append(problems, "plan must have at least one step")
	}

	seen := make(map[int]bool, len(plan.Steps))
	for i, step := range plan.Steps {
		n := i + 1
		if step.ID <= 0 {
			problems = append(problems, fmt.Sprintf("step %d: id must be positive", n))
		} else if seen[step.ID] {
			problems = append(problems, fmt.Sprintf("step %d: duplicate id %d", n, step.ID))
		}
		seen[step.ID] = true

		action := strings.TrimSpace(step.Action)
		if action == "" {
			problems = append(problems, fmt.Sprintf("step %d: missing action", n))
			continue
		}
		if !IsKnownAction(action) {
			problems = append(problems, fmt.Sprintf("step %d: unknown action %q", n, action))
		}
		if strings.TrimSpace(step.Target) == "" {
			problems = append(problems, fmt.Sprintf("step %d: missing target", n))
		}
		switch action {
		case ActionTypeText:
			if step.Value == nil || strings.TrimSpace(*step.Value) == "" {
				problems = append(problems, fmt.Sprintf("step %d: type_text requires a value", n))
			}
		case ActionWait:
			if step.Value != nil && !reDigits.MatchString(*step.Value) {
				problems = append(problems, fmt.Sprintf("step %d: wait value must be a number of seconds", n))
			}
		}
	}
	return problems
}

// NormalizePlan applies the same fix-ups the plan service applies before
// execution, so a locally edited plan round-trips cleanly: unknown actions
// become clicks, empty targets become "screen", wait values are reduced to
// their digits, and step ids are renumbered sequentially.
func NormalizePlan(plan TaskPlan) TaskPlan {
	out := *plan.Clone()
	for i := range out.Steps {
		step := &out.Steps[i]
		step.ID = i + 1
		step.Action = strings.TrimSpace(step.Action)
		if !IsKnownAction(step.Action) {
			step.Action = ActionClick
		}
		if strings.TrimSpace(step.Target) == "" {
			step.Target = "screen"
		}
		if step.Action == ActionWait {
			v := ""
			if step.Value != nil {
				v = reDigits.FindString(*step.Value)
			}
			if v == "" {
				v = defaultWaitSeconds
			}
			step.Value = &v
		}
	}
	return out
}
