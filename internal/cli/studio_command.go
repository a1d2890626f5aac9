package cli

import (
	"errors"
	"flag"
	"strings"
	"time"

	"tutorial-studio/internal/api"
	"tutorial-studio/internal/config"
	"tutorial-studio/internal/model"
	"tutorial-studio/internal/session"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type studioMode int

const (
	studioModePrompt studioMode = iota
	studioModeTracking
	studioModePlan
	studioModeEditStep
)

type studioModel struct {
	client   *api.Client
	settings config.Settings
	sess     *session.Session

	mode       studioMode
	input      textinput.Model
	spin       spinner.Model
	submitting bool

	// Plan review state. draft is the locally edited copy; the session's
	// job keeps the last server-confirmed plan.
	draft      *model.TaskPlan
	planCursor int
	planDirty  bool
	saving     bool
	editor     *stepForm
	editIndex  int

	statusMessage string
	width         int
	height        int

	// pendingCmd carries a command scheduled before the program starts
	// (the --instruction fast path); Init drains it.
	pendingCmd tea.Cmd
}

type planCreatedMsg struct {
	jobID       string
	instruction string
	err         error
}

type studioTickMsg struct {
	gen int
}

type jobStatusMsg struct {
	gen int
	job model.Job
	err error
}

type planSavedMsg struct {
	jobID string
	plan  model.TaskPlan
	err   error
}

type jobActionMsg struct {
	kind string // "execute" or "regenerate"
	gen  int
	err  error
}

type studioDownloadMsg struct {
	path string
	err  error
}

var (
	studioTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	studioMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	studioErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	studioOKStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	studioPanelStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	studioSelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62")).Bold(true)
)

func runStudio(args []string) error {
	fs := flag.NewFlagSet("studio", flag.ContinueOnError)
	configPath := fs.String("config", "", "settings file path")
	instruction := fs.String("instruction", "", "submit this instruction immediately")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !stdinIsTTY() {
		return errors.New("studio requires an interactive terminal (TTY); use submit/watch for scripting")
	}

	client, settings, err := newClient(*configPath)
	if err != nil {
		return err
	}

	m := newStudioModel(client, settings)
	var firstCmd tea.Cmd
	if strings.TrimSpace(*instruction) != "" {
		m.input.SetValue(strings.TrimSpace(*instruction))
		m.submitting = true
		firstCmd = createPlanCmd(client, strings.TrimSpace(*instruction))
	}
	m.pendingCmd = firstCmd

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "tty") {
			return errors.New("studio requires an interactive terminal (TTY)")
		}
		return err
	}
	return nil
}

func newStudioModel(client *api.Client, settings config.Settings) studioModel {
	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = "Open Notepad, write Hello World and save the file"
	input.CharLimit = 512
	input.Width = 72
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = studioTitleStyle

	return studioModel{
		client:   client,
		settings: settings,
		sess:     session.New(),
		mode:     studioModePrompt,
		input:    input,
		spin:     spin,
	}
}

func (m studioModel) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.spin.Tick}
	if m.pendingCmd != nil {
		cmds = append(cmds, m.pendingCmd)
	}
	return tea.Batch(cmds...)
}

func (m studioModel) pollInterval() time.Duration {
	if m.settings.PollIntervalSeconds > 0 {
		return m.settings.PollInterval()
	}
	return session.DefaultPollInterval
}

func (m studioModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.editor != nil {
			m.editor.resize(m.width)
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case planCreatedMsg:
		return m.updatePlanCreated(msg)

	case studioTickMsg:
		if msg.gen != m.sess.Generation() || !m.sess.ShouldPoll() {
			return m, nil
		}
		return m, fetchStatusCmd(m.client, msg.gen, m.sess.Job().ID)

	case jobStatusMsg:
		return m.updateJobStatus(msg)

	case planSavedMsg:
		return m.updatePlanSaved(msg)

	case jobActionMsg:
		return m.updateJobAction(msg)

	case studioDownloadMsg:
		if msg.err != nil {
			m.statusMessage = "error: " + msg.err.Error()
			return m, nil
		}
		m.statusMessage = "saved video to " + msg.path
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch m.mode {
	case studioModePrompt:
		return m.updatePrompt(keyMsg)
	case studioModeTracking:
		return m.updateTracking(keyMsg)
	case studioModePlan:
		return m.updatePlanBrowse(keyMsg)
	case studioModeEditStep:
		return m.updateStepForm(keyMsg)
	default:
		return m, nil
	}
}

func (m studioModel) updatePlanCreated(msg planCreatedMsg) (tea.Model, tea.Cmd) {
	m.submitting = false
	if msg.err != nil {
		// No partial job: the session stays idle and the prompt keeps the
		// instruction so the user can retry.
		m.sess.FailAction(msg.err)
		return m, nil
	}
	gen := m.sess.Begin(msg.jobID, msg.instruction)
	m.mode = studioModeTracking
	m.draft = nil
	m.planDirty = false
	m.statusMessage = ""
	return m, pollTickCmd(m.pollInterval(), gen)
}

func (m studioModel) updateJobStatus(msg jobStatusMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.sess.ApplyPollError(msg.gen, msg.err)
		if msg.gen == m.sess.Generation() && m.sess.ShouldPoll() {
			return m, pollTickCmd(m.pollInterval(), msg.gen)
		}
		return m, nil
	}

	keepPolling := m.sess.ApplyStatus(msg.gen, msg.job)
	if keepPolling {
		return m, pollTickCmd(m.pollInterval(), msg.gen)
	}

	job := m.sess.Job()
	if job != nil && job.Status == model.StatusPlanReady && m.mode == studioModeTracking {
		m.mode = studioModePlan
		m.draft = job.TaskPlan.Clone()
		if m.draft == nil {
			m.draft = &model.TaskPlan{Goal: job.Instruction}
		}
		m.planCursor = 0
		m.planDirty = false
	}
	return m, nil
}

func (m studioModel) updatePlanSaved(msg planSavedMsg) (tea.Model, tea.Cmd) {
	m.saving = false
	if msg.err != nil {
		m.statusMessage = "error: " + msg.err.Error()
		return m, nil
	}
	job := m.sess.Job()
	if job == nil || job.ID != msg.jobID {
		// The job was reset or replaced while the save was in flight.
		return m, nil
	}
	m.sess.ApplyPlan(msg.plan)
	m.draft = msg.plan.Clone()
	m.planDirty = false
	m.statusMessage = "plan saved"
	return m, nil
}

func (m studioModel) updateJobAction(msg jobActionMsg) (tea.Model, tea.Cmd) {
	if msg.err == nil {
		// Ack only; the poll loop armed at action time owns progress.
		return m, nil
	}
	m.sess.RollbackAction(msg.err)
	job := m.sess.Job()
	if job != nil && job.Status == model.StatusPlanReady {
		m.mode = studioModePlan
		if m.draft == nil {
			m.draft = job.TaskPlan.Clone()
		}
	} else {
		m.mode = studioModeTracking
	}
	return m, nil
}

func (m studioModel) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "enter":
		if m.submitting {
			return m, nil
		}
		instruction := strings.TrimSpace(m.input.Value())
		if instruction == "" {
			m.sess.FailAction(errors.New("instruction is required"))
			return m, nil
		}
		m.sess.ClearActionErr()
		m.submitting = true
		return m, createPlanCmd(m.client, instruction)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m studioModel) updateTracking(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	job := m.sess.Job()
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "n":
		return m.startOver()
	case "r":
		if job != nil && (job.Status == model.StatusCompleted || job.Status == model.StatusFailed) {
			return m.beginRegenerate()
		}
	case "g":
		if job != nil && job.Status == model.StatusCompleted && job.VideoURL != "" {
			m.statusMessage = "downloading..."
			return m, studioDownloadCmd(m.client, *job, m.settings.DownloadDir)
		}
	case "o":
		if job != nil && job.VideoURL != "" {
			m.statusMessage = "video: " + m.client.MediaURL(job.VideoURL)
		}
	case "p":
		if job != nil && job.Status == model.StatusCompleted && job.TaskPlan != nil {
			// Review the plan of a finished job without re-arming anything.
			m.mode = studioModePlan
			m.draft = job.TaskPlan.Clone()
			m.planCursor = 0
			m.planDirty = false
		}
	}
	return m, nil
}

func (m studioModel) startOver() (tea.Model, tea.Cmd) {
	m.sess.Reset()
	m.mode = studioModePrompt
	m.draft = nil
	m.planDirty = false
	m.editor = nil
	m.statusMessage = ""
	m.input.SetValue("")
	m.input.Focus()
	return m, textinput.Blink
}

func (m studioModel) beginExecute() (tea.Model, tea.Cmd) {
	if m.planDirty {
		m.statusMessage = "error: unsaved plan changes; press s to save first"
		return m, nil
	}
	job := m.sess.Job()
	if job == nil {
		return m, nil
	}
	jobID := job.ID
	gen, ok := m.sess.BeginExecute()
	if !ok {
		return m, nil
	}
	m.mode = studioModeTracking
	m.statusMessage = ""
	return m, tea.Batch(
		jobActionCmd(m.client, "execute", jobID, gen),
		pollTickCmd(m.pollInterval(), gen),
	)
}

func (m studioModel) beginRegenerate() (tea.Model, tea.Cmd) {
	job := m.sess.Job()
	if job == nil {
		return m, nil
	}
	jobID := job.ID
	gen, ok := m.sess.BeginRegenerate()
	if !ok {
		return m, nil
	}
	m.mode = studioModeTracking
	m.statusMessage = ""
	return m, tea.Batch(
		jobActionCmd(m.client, "regenerate", jobID, gen),
		pollTickCmd(m.pollInterval(), gen),
	)
}

func createPlanCmd(client *api.Client, instruction string) tea.Cmd {
	return func() tea.Msg {
		jobID, err := client.GeneratePlan(instruction)
		return planCreatedMsg{jobID: jobID, instruction: instruction, err: err}
	}
}

func pollTickCmd(interval time.Duration, gen int) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return studioTickMsg{gen: gen}
	})
}

func fetchStatusCmd(client *api.Client, gen int, jobID string) tea.Cmd {
	return func() tea.Msg {
		job, err := client.JobStatus(jobID)
		return jobStatusMsg{gen: gen, job: job, err: err}
	}
}

func savePlanCmd(client *api.Client, jobID string, plan model.TaskPlan) tea.Cmd {
	return func() tea.Msg {
		echoed, err := client.SaveTaskPlan(jobID, plan)
		if err != nil {
			return planSavedMsg{jobID: jobID, err: err}
		}
		// Trust-the-request-body: what we sent is what we show; the echo is
		// only used when the server actually returned a plan.
		if len(echoed.Steps) == 0 && echoed.Goal == "" {
			echoed = plan
		}
		return planSavedMsg{jobID: jobID, plan: echoed}
	}
}

func jobActionCmd(client *api.Client, kind, jobID string, gen int) tea.Cmd {
	return func() tea.Msg {
		var err error
		if kind == "regenerate" {
			err = client.Regenerate(jobID)
		} else {
			err = client.Execute(jobID)
		}
		return jobActionMsg{kind: kind, gen: gen, err: err}
	}
}

func studioDownloadCmd(client *api.Client, job model.Job, destDir string) tea.Cmd {
	return func() tea.Msg {
		path, err := client.DownloadTutorial(model.Tutorial{
			ID:            job.ID,
			VideoFilename: job.VideoFilename,
			DownloadURL:   job.VideoURL,
		}, destDir)
		return studioDownloadMsg{path: path, err: err}
	}
}
