package cli

import (
	"flag"
	"fmt"

	"tutorial-studio/internal/config"
)

func runSettings(args []string) error {
	fs := flag.NewFlagSet("settings", flag.ContinueOnError)
	configPath := fs.String("config", "", "settings file path")
	server := fs.String("server", "", "set the server base URL")
	downloadDir := fs.String("download-dir", "", "set the download directory")
	pollInterval := fs.Int("poll-interval", 0, "set the status poll interval in seconds")
	timeout := fs.Int("timeout", 0, "set the per-request timeout in seconds")
	jsonOut := fs.Bool("json", false, "print the effective settings as JSON")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	changed := *server != "" || *downloadDir != "" || *pollInterval > 0 || *timeout > 0
	if changed {
		file, _, err := config.EnsureSettings(*configPath)
		if err != nil {
			return err
		}
		next := file.Settings
		if *server != "" {
			next.ServerURL = *server
		}
		if *downloadDir != "" {
			next.DownloadDir = *downloadDir
		}
		if *pollInterval > 0 {
			next.PollIntervalSeconds = *pollInterval
		}
		if *timeout > 0 {
			next.RequestTimeoutSeconds = *timeout
		}
		result, err := config.UpdateSettings(config.UpdateSettingsOptions{
			ConfigPath: *configPath,
			Settings:   next,
		})
		if err != nil {
			return err
		}
		if *jsonOut {
			return printJSON(result)
		}
		fmt.Println("updated " + result.ConfigPath)
		printSettings(result.Settings)
		return nil
	}

	settings, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *jsonOut {
		return printJSON(settings)
	}
	fmt.Println("settings file: " + config.NormalizePath(*configPath))
	printSettings(settings)
	return nil
}

func printSettings(s config.Settings) {
	fmt.Printf("server:        %s\n", s.ServerURL)
	fmt.Printf("download dir:  %s\n", s.DownloadDir)
	fmt.Printf("poll interval: %ds\n", s.PollIntervalSeconds)
	fmt.Printf("timeout:       %ds\n", s.RequestTimeoutSeconds)
}
