package cli

import (
	"flag"
	"fmt"
	"strings"

	"tutorial-studio/internal/api"
	"tutorial-studio/internal/config"
	"tutorial-studio/internal/library"
	"tutorial-studio/internal/model"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

type libraryMode int

const (
	libraryModeBrowse libraryMode = iota
	libraryModeConfirmDelete
)

type libraryModel struct {
	client   *api.Client
	settings config.Settings
	catalog  *library.Catalog

	mode     libraryMode
	cursor   int
	loading  bool
	deleting bool
	targetID string // delete confirmation target
	spin     spinner.Model

	statusMessage string
	width         int
	height        int
}

type tutorialsMsg struct {
	tutorials []model.Tutorial
	err       error
}

type tutorialDeletedMsg struct {
	id  string
	err error
}

type libraryDownloadMsg struct {
	id   string
	path string
	err  error
}

func runLibrary(args []string) error {
	fs := flag.NewFlagSet("library", flag.ContinueOnError)
	configPath := fs.String("config", "", "settings file path")
	jsonOut := fs.Bool("json", false, "print the tutorial list as JSON and exit")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, settings, err := newClient(*configPath)
	if err != nil {
		return err
	}

	if *jsonOut || !stdinIsTTY() {
		tutorials, err := client.ListTutorials()
		if err != nil {
			return err
		}
		if *jsonOut {
			return printJSON(tutorials)
		}
		for _, t := range tutorials {
			fmt.Printf("%s  %s  %s\n", t.ID, formatFileSizeMB(t.FileSizeMB), t.Goal)
		}
		return nil
	}

	m := newLibraryModel(client, settings)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func newLibraryModel(client *api.Client, settings config.Settings) libraryModel {
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = studioTitleStyle
	return libraryModel{
		client:   client,
		settings: settings,
		catalog:  library.NewCatalog(),
		loading:  true,
		spin:     spin,
	}
}

func (m libraryModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, listTutorialsCmd(m.client))
}

func (m libraryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tutorialsMsg:
		m.loading = false
		m.catalog.ApplyList(msg.tutorials, msg.err)
		m.cursor = clampInt(m.cursor, 0, maxInt(m.catalog.Len()-1, 0))
		return m, nil

	case tutorialDeletedMsg:
		m.deleting = false
		if msg.err != nil {
			m.statusMessage = "error: " + msg.err.Error()
			return m, nil
		}
		m.catalog.Remove(msg.id)
		m.cursor = clampInt(m.cursor, 0, maxInt(m.catalog.Len()-1, 0))
		m.statusMessage = "deleted " + msg.id
		return m, nil

	case libraryDownloadMsg:
		if msg.err != nil {
			m.statusMessage = "error: " + msg.err.Error()
			return m, nil
		}
		m.statusMessage = "saved " + msg.path
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if m.mode == libraryModeConfirmDelete {
		return m.updateConfirmDelete(keyMsg)
	}
	return m.updateBrowse(keyMsg)
}

func (m libraryModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit

	case "up", "k":
		m.cursor = clampInt(m.cursor-1, 0, maxInt(m.catalog.Len()-1, 0))
		return m, nil

	case "down", "j":
		m.cursor = clampInt(m.cursor+1, 0, maxInt(m.catalog.Len()-1, 0))
		return m, nil

	case "r":
		m.loading = true
		m.statusMessage = ""
		return m, listTutorialsCmd(m.client)

	case "enter":
		if t, ok := m.selected(); ok {
			m.catalog.Toggle(t.ID)
		}
		return m, nil

	case "p":
		if t, ok := m.selected(); ok {
			rel := defaultIfEmpty(t.VideoURL, t.DownloadURL)
			if rel == "" {
				m.statusMessage = "error: tutorial has no playable media"
				return m, nil
			}
			m.catalog.SetPlaying(t.ID)
			m.statusMessage = "playing: " + m.client.MediaURL(rel)
		}
		return m, nil

	case "g":
		if t, ok := m.selected(); ok {
			m.statusMessage = "downloading " + t.ID + "..."
			return m, downloadTutorialCmd(m.client, t, m.settings.DownloadDir)
		}
		return m, nil

	case "d":
		if m.deleting {
			return m, nil
		}
		if t, ok := m.selected(); ok {
			m.targetID = t.ID
			m.mode = libraryModeConfirmDelete
		}
		return m, nil
	}
	return m, nil
}

func (m libraryModel) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		id := m.targetID
		m.mode = libraryModeBrowse
		m.targetID = ""
		m.deleting = true
		m.statusMessage = "deleting " + id + "..."
		return m, deleteTutorialCmd(m.client, id)
	case "n", "N", "esc":
		m.mode = libraryModeBrowse
		m.targetID = ""
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m libraryModel) selected() (model.Tutorial, bool) {
	tutorials := m.catalog.Tutorials()
	if m.cursor < 0 || m.cursor >= len(tutorials) {
		return model.Tutorial{}, false
	}
	return tutorials[m.cursor], true
}

func (m libraryModel) View() string {
	var b strings.Builder
	b.WriteString(studioTitleStyle.Render("Tutorial Library"))
	b.WriteString("\n\n")

	if m.loading && m.catalog.Len() == 0 {
		b.WriteString(m.spin.View())
		b.WriteString(studioMutedStyle.Render(" loading tutorials..."))
		b.WriteString("\n")
		return b.String()
	}

	if m.catalog.Err() != "" {
		b.WriteString(studioErrorStyle.Render("refresh failed: " + m.catalog.Err()))
		b.WriteString("\n")
		if m.catalog.Len() > 0 {
			b.WriteString(studioMutedStyle.Render("showing last known list — press r to retry"))
		} else {
			b.WriteString(studioMutedStyle.Render("press r to retry"))
		}
		b.WriteString("\n\n")
	}

	if m.catalog.Len() == 0 && m.catalog.Err() == "" {
		b.WriteString(studioMutedStyle.Render("no finished tutorials yet"))
		b.WriteString("\n\n")
	}

	for i, t := range m.catalog.Tutorials() {
		marker := "  "
		if t.ID == m.catalog.PlayingID {
			marker = "▶ "
		}
		line := fmt.Sprintf("%s%-10s %8s  %s", marker, truncateRunes(t.ID, 10), formatFileSizeMB(t.FileSizeMB), truncateRunes(t.Goal, 56))
		if i == m.cursor {
			b.WriteString(studioSelStyle.Render(line))
		} else {
			b.WriteString(line)
		}
		b.WriteString("\n")
		if t.ID == m.catalog.ExpandedID {
			m.writeExpanded(&b, t)
		}
	}

	b.WriteString("\n")
	if m.mode == libraryModeConfirmDelete {
		b.WriteString(studioErrorStyle.Render(fmt.Sprintf("Delete tutorial %s? (y/n)", m.targetID)))
		b.WriteString("\n")
	} else {
		if m.statusMessage != "" {
			if strings.HasPrefix(m.statusMessage, "error:") {
				b.WriteString(studioErrorStyle.Render(m.statusMessage))
			} else {
				b.WriteString(studioMutedStyle.Render(m.statusMessage))
			}
			b.WriteString("\n")
		}
		b.WriteString(studioMutedStyle.Render("↑/↓ select • enter details • p play • g download • d delete • r refresh • q quit"))
		b.WriteString("\n")
	}
	return b.String()
}

func (m libraryModel) writeExpanded(b *strings.Builder, t model.Tutorial) {
	indent := "      "
	if t.OriginalInstruction != "" {
		b.WriteString(indent + studioMutedStyle.Render("instruction: "+truncateRunes(t.OriginalInstruction, 64)) + "\n")
	}
	if t.SuccessCriteria != "" {
		b.WriteString(indent + studioMutedStyle.Render("done when: "+truncateRunes(t.SuccessCriteria, 64)) + "\n")
	}
	if t.StepsCount > 0 {
		b.WriteString(indent + studioMutedStyle.Render(fmt.Sprintf("steps: %d", t.StepsCount)) + "\n")
	}
	if t.CreatedAt != "" {
		b.WriteString(indent + studioMutedStyle.Render("created: "+t.CreatedAt) + "\n")
	}
	if t.VideoURL != "" {
		b.WriteString(indent + studioMutedStyle.Render("video: "+m.client.MediaURL(t.VideoURL)) + "\n")
	}
}

func listTutorialsCmd(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		tutorials, err := client.ListTutorials()
		return tutorialsMsg{tutorials: tutorials, err: err}
	}
}

func deleteTutorialCmd(client *api.Client, id string) tea.Cmd {
	return func() tea.Msg {
		return tutorialDeletedMsg{id: id, err: client.DeleteTutorial(id)}
	}
}

func downloadTutorialCmd(client *api.Client, t model.Tutorial, destDir string) tea.Cmd {
	return func() tea.Msg {
		path, err := client.DownloadTutorial(t, destDir)
		return libraryDownloadMsg{id: t.ID, path: path, err: err}
	}
}
