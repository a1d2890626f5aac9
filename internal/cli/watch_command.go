package cli

import (
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"

	"tutorial-studio/internal/model"
	"tutorial-studio/internal/session"
)

// runWatch drives the same poll engine the studio TUI uses, without a
// terminal UI: one status line per observed change, exit when the job
// settles. Exit status is non-zero when the job failed.
func runWatch(args []string) error {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	configPath := fs.String("config", "", "settings file path")
	jobID := fs.String("job", "", "job id")
	jsonOut := fs.Bool("json", false, "print the final status payload as JSON")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*jobID) == "" {
		return errors.New("--job is required")
	}

	client, settings, err := newClient(*configPath)
	if err != nil {
		return err
	}

	sess := session.New()
	gen := sess.Begin(*jobID, "")

	interval := settings.PollInterval()
	if interval <= 0 {
		interval = session.DefaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastLine := ""
	for sess.ShouldPoll() {
		job, err := client.JobStatus(*jobID)
		if err != nil {
			sess.ApplyPollError(gen, err)
			fmt.Printf("poll failed: %v (retrying)\n", err)
			<-ticker.C
			continue
		}
		sess.ApplyStatus(gen, job)

		line := model.StatusLabel(job.Status)
		if job.Message != "" {
			line += "  " + job.Message
		}
		if line != lastLine {
			fmt.Println(line)
			lastLine = line
		}
		if !sess.ShouldPoll() {
			break
		}
		<-ticker.C
	}

	job := sess.Job()
	if job == nil {
		return errors.New("job tracking ended without a status")
	}
	if *jsonOut {
		if err := printJSON(job); err != nil {
			return err
		}
	} else {
		printJobLine(*job)
	}
	if job.Status == model.StatusFailed {
		return fmt.Errorf("job %s failed", job.ID)
	}
	return nil
}
