package cli

import (
	"errors"
	"testing"

	"tutorial-studio/internal/api"
	"tutorial-studio/internal/config"
	"tutorial-studio/internal/model"

	tea "github.com/charmbracelet/bubbletea"
)

func testLibraryModel(t *testing.T) libraryModel {
	t.Helper()
	settings := config.Settings{
		ServerURL:   "http://127.0.0.1:1",
		DownloadDir: t.TempDir(),
	}
	return newLibraryModel(api.New(settings.ServerURL), settings)
}

func asLibrary(t *testing.T, m tea.Model) libraryModel {
	t.Helper()
	lm, ok := m.(libraryModel)
	if !ok {
		t.Fatalf("expected libraryModel, got %T", m)
	}
	return lm
}

func libraryFixtures() []model.Tutorial {
	return []model.Tutorial{
		{ID: "t1", Goal: "Notepad hello world", VideoURL: "/media/t1.mp4", FileSizeMB: 1.2},
		{ID: "t2", Goal: "Eclipse java project", VideoURL: "/media/t2.mp4", FileSizeMB: 8.4},
		{ID: "t3", Goal: "Browser search", VideoURL: "/media/t3.mp4", FileSizeMB: 2.1},
	}
}

func TestLibrary_ListPopulatesCatalog(t *testing.T) {
	m := testLibraryModel(t)

	next, _ := m.Update(tutorialsMsg{tutorials: libraryFixtures()})
	m = asLibrary(t, next)

	if m.loading {
		t.Fatal("expected loading cleared")
	}
	if m.catalog.Len() != 3 {
		t.Fatalf("expected 3 tutorials, got %d", m.catalog.Len())
	}
}

func TestLibrary_ListFailureKeepsPreviousEntries(t *testing.T) {
	m := testLibraryModel(t)
	next, _ := m.Update(tutorialsMsg{tutorials: libraryFixtures()})
	m = asLibrary(t, next)

	next, _ = m.Update(tutorialsMsg{err: errors.New("connection refused")})
	m = asLibrary(t, next)

	if m.catalog.Len() != 3 {
		t.Fatalf("expected previous list preserved, got %d", m.catalog.Len())
	}
	if m.catalog.Err() == "" {
		t.Fatal("expected refresh error recorded for the retry banner")
	}
}

func TestLibrary_DeleteWaitsForConfirmation(t *testing.T) {
	m := testLibraryModel(t)
	next, _ := m.Update(tutorialsMsg{tutorials: libraryFixtures()})
	m = asLibrary(t, next)
	next, _ = m.Update(keyRune('j'))
	m = asLibrary(t, next)

	next, cmd := m.Update(keyRune('d'))
	m = asLibrary(t, next)
	if cmd != nil {
		t.Fatal("expected no request before confirmation")
	}
	if m.mode != libraryModeConfirmDelete || m.targetID != "t2" {
		t.Fatalf("expected confirmation for t2, got mode=%d target=%q", m.mode, m.targetID)
	}

	next, _ = m.Update(keyRune('n'))
	m = asLibrary(t, next)
	if m.mode != libraryModeBrowse || m.targetID != "" {
		t.Fatal("expected decline to return to browsing")
	}
	if m.catalog.Len() != 3 {
		t.Fatal("expected nothing removed on decline")
	}
}

func TestLibrary_DeleteRemovesOnlyAfterServerConfirms(t *testing.T) {
	m := testLibraryModel(t)
	next, _ := m.Update(tutorialsMsg{tutorials: libraryFixtures()})
	m = asLibrary(t, next)
	next, _ = m.Update(keyRune('j'))
	m = asLibrary(t, next)
	next, _ = m.Update(keyRune('d'))
	m = asLibrary(t, next)

	next, cmd := m.Update(keyRune('y'))
	m = asLibrary(t, next)
	if cmd == nil {
		t.Fatal("expected delete request issued on confirm")
	}
	if !m.deleting {
		t.Fatal("expected deleting latch set")
	}
	if m.catalog.Len() != 3 {
		t.Fatal("expected entry kept until the server confirms")
	}

	next, _ = m.Update(tutorialDeletedMsg{id: "t2"})
	m = asLibrary(t, next)
	if m.deleting {
		t.Fatal("expected deleting latch released")
	}
	if m.catalog.Len() != 2 {
		t.Fatalf("expected entry removed, got %d", m.catalog.Len())
	}
	got := m.catalog.Tutorials()
	if got[0].ID != "t1" || got[1].ID != "t3" {
		t.Fatalf("expected order preserved, got %+v", got)
	}
}

func TestLibrary_DeleteFailureKeepsEntry(t *testing.T) {
	m := testLibraryModel(t)
	next, _ := m.Update(tutorialsMsg{tutorials: libraryFixtures()})
	m = asLibrary(t, next)
	next, _ = m.Update(keyRune('d'))
	m = asLibrary(t, next)
	next, _ = m.Update(keyRune('y'))
	m = asLibrary(t, next)

	next, _ = m.Update(tutorialDeletedMsg{id: "t1", err: errors.New("HTTP 500")})
	m = asLibrary(t, next)

	if m.catalog.Len() != 3 {
		t.Fatal("expected entry kept after failed delete")
	}
	if m.statusMessage == "" {
		t.Fatal("expected failure surfaced in the status line")
	}
}

func TestLibrary_SecondDeleteBlockedWhileInFlight(t *testing.T) {
	m := testLibraryModel(t)
	next, _ := m.Update(tutorialsMsg{tutorials: libraryFixtures()})
	m = asLibrary(t, next)
	next, _ = m.Update(keyRune('d'))
	m = asLibrary(t, next)
	next, _ = m.Update(keyRune('y'))
	m = asLibrary(t, next)

	next, _ = m.Update(keyRune('d'))
	m = asLibrary(t, next)
	if m.mode != libraryModeBrowse {
		t.Fatal("expected delete key ignored while a delete is in flight")
	}
}

func TestLibrary_ExpandToggleAndCursorClamp(t *testing.T) {
	m := testLibraryModel(t)
	next, _ := m.Update(tutorialsMsg{tutorials: libraryFixtures()})
	m = asLibrary(t, next)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = asLibrary(t, next)
	if m.catalog.ExpandedID != "t1" {
		t.Fatalf("expected t1 expanded, got %q", m.catalog.ExpandedID)
	}

	next, _ = m.Update(keyRune('k'))
	m = asLibrary(t, next)
	if m.cursor != 0 {
		t.Fatalf("expected cursor clamped at top, got %d", m.cursor)
	}

	next, _ = m.Update(tutorialsMsg{tutorials: libraryFixtures()[:1]})
	m = asLibrary(t, next)
	if m.cursor != 0 {
		t.Fatalf("expected cursor clamped to shrunk list, got %d", m.cursor)
	}
}
