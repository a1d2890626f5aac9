package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"tutorial-studio/internal/store"

	"github.com/joho/godotenv"
)

const (
	DefaultSettingsPath = "config/settings.json"
	settingsSchema      = 1

	DefaultServerURL             = "http://localhost:8000"
	DefaultDownloadDir           = "downloads"
	DefaultPollIntervalSeconds   = 2
	DefaultRequestTimeoutSeconds = 30

	// Environment overrides; the file on disk is never rewritten by these.
	EnvServerURL    = "TUTORIAL_STUDIO_SERVER"
	EnvSettingsPath = "TUTORIAL_STUDIO_CONFIG"
)

type Settings struct {
	ServerURL             string `json:"server_url"`
	DownloadDir           string `json:"download_dir,omitempty"`
	PollIntervalSeconds   int    `json:"poll_interval_seconds,omitempty"`
	RequestTimeoutSeconds int    `json:"request_timeout_seconds,omitempty"`
}

type SettingsFile struct {
	SchemaVersion int      `json:"schema_version"`
	UpdatedAt     string   `json:"updated_at"`
	Settings      Settings `json:"settings"`
}

type UpdateSettingsOptions struct {
	ConfigPath string
	Settings   Settings
}

type UpdateSettingsResult struct {
	ConfigPath string   `json:"config_path"`
	Settings   Settings `json:"settings"`
}

func defaultSettings() Settings {
	return Settings{
		ServerURL:             DefaultServerURL,
		DownloadDir:           DefaultDownloadDir,
		PollIntervalSeconds:   DefaultPollIntervalSeconds,
		RequestTimeoutSeconds: DefaultRequestTimeoutSeconds,
	}
}

func normalizeSettings(raw Settings) Settings {
	norm := raw
	norm.ServerURL = strings.TrimRight(strings.TrimSpace(norm.ServerURL), "/")
	if norm.ServerURL == "" {
		norm.ServerURL = DefaultServerURL
	}
	norm.DownloadDir = strings.TrimSpace(norm.DownloadDir)
	if norm.DownloadDir == "" {
		norm.DownloadDir = DefaultDownloadDir
	}
	if norm.PollIntervalSeconds < 1 {
		norm.PollIntervalSeconds = DefaultPollIntervalSeconds
	}
	if norm.RequestTimeoutSeconds < 1 {
		norm.RequestTimeoutSeconds = DefaultRequestTimeoutSeconds
	}
	return norm
}

func (s Settings) PollInterval() time.Duration {
	return time.Duration(s.PollIntervalSeconds) * time.Second
}

func (s Settings) RequestTimeout() time.Duration {
	return time.Duration(s.RequestTimeoutSeconds) * time.Second
}

// NormalizePath resolves the settings file location: explicit flag first,
// then the environment, then the default.
func NormalizePath(path string) string {
	p := strings.TrimSpace(path)
	if p != "" {
		return p
	}
	if env := strings.TrimSpace(os.Getenv(EnvSettingsPath)); env != "" {
		return env
	}
	return DefaultSettingsPath
}

// EnsureSettings loads the settings file, creating it with defaults on first
// use. The bool reports whether the file was created.
func EnsureSettings(configPath string) (SettingsFile, bool, error) {
	path := NormalizePath(configPath)
	file, err := loadSettingsFile(path)
	if err == nil {
		return file, false, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return SettingsFile{}, false, err
	}

	file = SettingsFile{
		SchemaVersion: settingsSchema,
		UpdatedAt:     time.Now().UTC().Format(time.RFC3339),
		Settings:      defaultSettings(),
	}
	if err := saveSettingsFile(path, file); err != nil {
		return SettingsFile{}, false, err
	}
	return file, true, nil
}

// Load returns the effective settings: file contents (created on demand)
// with .env and environment overrides applied.
func Load(configPath string) (Settings, error) {
	_ = godotenv.Load()

	file, _, err := EnsureSettings(configPath)
	if err != nil {
		return Settings{}, err
	}
	settings := file.Settings
	if server := strings.TrimSpace(os.Getenv(EnvServerURL)); server != "" {
		settings.ServerURL = server
	}
	return normalizeSettings(settings), nil
}

func UpdateSettings(opts UpdateSettingsOptions) (UpdateSettingsResult, error) {
	path := NormalizePath(opts.ConfigPath)
	file, _, err := EnsureSettings(path)
	if err != nil {
		return UpdateSettingsResult{}, err
	}
	file.Settings = normalizeSettings(opts.Settings)
	file.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	if err := saveSettingsFile(path, file); err != nil {
		return UpdateSettingsResult{}, err
	}
	return UpdateSettingsResult{
		ConfigPath: path,
		Settings:   file.Settings,
	}, nil
}

func loadSettingsFile(path string) (SettingsFile, error) {
	var file SettingsFile
	if err := store.ReadJSON(path, &file); err != nil {
		return SettingsFile{}, err
	}
	if file.SchemaVersion == 0 {
		file.SchemaVersion = settingsSchema
	}
	file.Settings = normalizeSettings(file.Settings)
	return file, nil
}

func saveSettingsFile(path string, file SettingsFile) error {
	file.SchemaVersion = settingsSchema
	if strings.TrimSpace(file.UpdatedAt) == "" {
		file.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	file.Settings = normalizeSettings(file.Settings)
	if err := store.WriteJSON(path, file); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
