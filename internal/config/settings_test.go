package config

import (
	"path/filepath"
	"testing"
)

func TestEnsureSettings_CreatesDefaultsOnFirstUse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")

	file, created, err := EnsureSettings(path)
	if err != nil {
		t.Fatalf("ensure failed: %v", err)
	}
	if !created {
		t.Fatal("expected settings file to be created")
	}
	if file.Settings.ServerURL != DefaultServerURL {
		t.Fatalf("unexpected default server URL %q", file.Settings.ServerURL)
	}
	if file.Settings.PollIntervalSeconds != DefaultPollIntervalSeconds {
		t.Fatalf("unexpected default poll interval %d", file.Settings.PollIntervalSeconds)
	}

	_, created, err = EnsureSettings(path)
	if err != nil {
		t.Fatalf("second ensure failed: %v", err)
	}
	if created {
		t.Fatal("expected existing settings file to be reused")
	}
}

func TestUpdateSettings_NormalizesAndPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")

	res, err := UpdateSettings(UpdateSettingsOptions{
		ConfigPath: path,
		Settings: Settings{
			ServerURL:           "http://studio.example:9000/",
			PollIntervalSeconds: 0, // invalid, falls back to default
		},
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if res.Settings.ServerURL != "http://studio.example:9000" {
		t.Fatalf("expected trailing slash trimmed, got %q", res.Settings.ServerURL)
	}
	if res.Settings.PollIntervalSeconds != DefaultPollIntervalSeconds {
		t.Fatalf("expected poll interval clamped to default, got %d", res.Settings.PollIntervalSeconds)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.ServerURL != "http://studio.example:9000" {
		t.Fatalf("expected persisted server URL, got %q", loaded.ServerURL)
	}
}

func TestLoad_EnvOverridesServerURL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	t.Setenv(EnvServerURL, "http://override.example:8001")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.ServerURL != "http://override.example:8001" {
		t.Fatalf("expected env override, got %q", loaded.ServerURL)
	}

	// The file keeps its own value.
	file, _, err := EnsureSettings(path)
	if err != nil {
		t.Fatalf("ensure failed: %v", err)
	}
	if file.Settings.ServerURL != DefaultServerURL {
		t.Fatalf("expected file untouched by env override, got %q", file.Settings.ServerURL)
	}
}
