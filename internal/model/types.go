package model

import "encoding/json"

// Job is the server's full status payload for one instruction-to-video
// request, replaced wholesale on every status read.
type Job struct {
	ID            string          `json:"id"`
	Status        string          `json:"status"`
	Message       string          `json:"message,omitempty"`
	Instruction   string          `json:"instruction"`
	TaskPlan      *TaskPlan       `json:"task_plan,omitempty"`
	VideoURL      string          `json:"video_url,omitempty"`
	VideoFilename string          `json:"video_filename,omitempty"`
	Results       json.RawMessage `json:"results,omitempty"`
	Error         string          `json:"error,omitempty"`
	CreatedAt     string          `json:"created_at,omitempty"`
}

// TaskPlan is the user-editable step list the execution engine will perform.
type TaskPlan struct {
	Goal                string   `json:"goal"`
	OriginalInstruction string   `json:"original_instruction,omitempty"`
	Prerequisites       []string `json:"prerequisites,omitempty"`
	Steps               []Step   `json:"steps"`
	SuccessCriteria     string   `json:"success_criteria,omitempty"`
}

type Step struct {
	ID             int     `json:"id"`
	Action         string  `json:"action"`
	Target         string  `json:"target"`
	Value          *string `json:"value"`
	Description    string  `json:"description,omitempty"`
	ExpectedResult string  `json:"expected_result,omitempty"`
}

// Tutorial is a completed job's persisted artifact, listed independently of
// any active job.
type Tutorial struct {
	ID                  string  `json:"id"`
	Goal                string  `json:"goal"`
	OriginalInstruction string  `json:"original_instruction,omitempty"`
	SuccessCriteria     string  `json:"success_criteria,omitempty"`
	StepsCount          int     `json:"steps_count,omitempty"`
	VideoURL            string  `json:"video_url,omitempty"`
	VideoFilename       string  `json:"video_filename,omitempty"`
	DownloadURL         string  `json:"download_url,omitempty"`
	FileSizeMB          float64 `json:"file_size_mb,omitempty"`
	CreatedAt           string  `json:"created_at,omitempty"`
}

func (p *TaskPlan) Clone() *TaskPlan {
	if p == nil {
		return nil
	}
	out := *p
	out.Prerequisites = append([]string(nil), p.Prerequisites...)
	out.Steps = make([]Step, len(p.Steps))
	for i, s := range p.Steps {
		out.Steps[i] = s
		if s.Value != nil {
			v := *s.Value
			out.Steps[i].Value = &v
		}
	}
	return &out
}

func (j Job) Clone() Job {
	out := j
	out.TaskPlan = j.TaskPlan.Clone()
	out.Results = append(json.RawMessage(nil), j.Results...)
	return out
}
