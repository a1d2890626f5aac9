package cli

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"tutorial-studio/internal/config"
)

type doctorCheck struct {
	Name   string `json:"name"`
	OK     bool   `json:"ok"`
	Detail string `json:"detail,omitempty"`
}

// runDoctor verifies the three things every other command depends on: a
// readable settings file, a reachable server, and a writable download dir.
func runDoctor(args []string) error {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	configPath := fs.String("config", "", "settings file path")
	jsonOut := fs.Bool("json", false, "print check results as JSON")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	var checks []doctorCheck

	settings, err := config.Load(*configPath)
	if err != nil {
		checks = append(checks, doctorCheck{
			Name:   "settings",
			Detail: err.Error(),
		})
		return reportDoctor(checks, *jsonOut)
	}
	checks = append(checks, doctorCheck{
		Name:   "settings",
		OK:     true,
		Detail: config.NormalizePath(*configPath),
	})

	client, _, err := newClient(*configPath)
	if err != nil {
		checks = append(checks, doctorCheck{Name: "server", Detail: err.Error()})
	} else if _, err := client.ListTutorials(); err != nil {
		checks = append(checks, doctorCheck{
			Name:   "server",
			Detail: fmt.Sprintf("%s unreachable: %v", settings.ServerURL, err),
		})
	} else {
		checks = append(checks, doctorCheck{Name: "server", OK: true, Detail: settings.ServerURL})
	}

	checks = append(checks, checkDownloadDir(settings.DownloadDir))
	return reportDoctor(checks, *jsonOut)
}

func checkDownloadDir(dir string) doctorCheck {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return doctorCheck{Name: "download dir", Detail: err.Error()}
	}
	probe := filepath.Join(dir, ".tstudio-doctor-probe")
	if err := os.WriteFile(probe, []byte("ok"), 0o644); err != nil {
		return doctorCheck{Name: "download dir", Detail: "not writable: " + err.Error()}
	}
	_ = os.Remove(probe)
	return doctorCheck{Name: "download dir", OK: true, Detail: dir}
}

func reportDoctor(checks []doctorCheck, jsonOut bool) error {
	if jsonOut {
		if err := printJSON(checks); err != nil {
			return err
		}
	} else {
		for _, c := range checks {
			mark := "ok  "
			if !c.OK {
				mark = "FAIL"
			}
			fmt.Printf("[%s] %-13s %s\n", mark, c.Name, c.Detail)
		}
	}
	for _, c := range checks {
		if !c.OK {
			return errors.New("one or more checks failed")
		}
	}
	return nil
}
