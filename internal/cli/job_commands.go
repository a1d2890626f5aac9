package cli

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"tutorial-studio/internal/model"
)

func runSubmit(args []string) error {
	fs := flag.NewFlagSet("submit", flag.ContinueOnError)
	configPath := fs.String("config", "", "settings file path")
	instruction := fs.String("instruction", "", "what the tutorial should show")
	jsonOut := fs.Bool("json", false, "print the created job as JSON")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}
	text := strings.TrimSpace(*instruction)
	if text == "" && fs.NArg() > 0 {
		text = strings.TrimSpace(strings.Join(fs.Args(), " "))
	}
	if text == "" {
		return errors.New("an instruction is required (--instruction \"...\")")
	}

	client, _, err := newClient(*configPath)
	if err != nil {
		return err
	}
	jobID, err := client.GeneratePlan(text)
	if err != nil {
		return err
	}
	if *jsonOut {
		return printJSON(map[string]string{"job_id": jobID, "instruction": text})
	}
	fmt.Println(jobID)
	return nil
}

func runStatus(args []string) error {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	configPath := fs.String("config", "", "settings file path")
	jobID := fs.String("job", "", "job id")
	jsonOut := fs.Bool("json", false, "print the full status payload as JSON")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*jobID) == "" {
		return errors.New("--job is required")
	}

	client, _, err := newClient(*configPath)
	if err != nil {
		return err
	}
	job, err := client.JobStatus(*jobID)
	if err != nil {
		return err
	}
	if *jsonOut {
		return printJSON(job)
	}
	printJobLine(job)
	return nil
}

func runPlan(args []string) error {
	fs := flag.NewFlagSet("plan", flag.ContinueOnError)
	configPath := fs.String("config", "", "settings file path")
	jobID := fs.String("job", "", "job id")
	jsonOut := fs.Bool("json", false, "print the task plan as JSON")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*jobID) == "" {
		return errors.New("--job is required")
	}

	client, _, err := newClient(*configPath)
	if err != nil {
		return err
	}
	job, err := client.JobStatus(*jobID)
	if err != nil {
		return err
	}
	if job.TaskPlan == nil {
		return fmt.Errorf("job %s has no task plan yet (status: %s)", job.ID, model.StatusLabel(job.Status))
	}
	if *jsonOut {
		return printJSON(job.TaskPlan)
	}
	fmt.Println("Goal: " + job.TaskPlan.Goal)
	if job.TaskPlan.SuccessCriteria != "" {
		fmt.Println("Done when: " + job.TaskPlan.SuccessCriteria)
	}
	for _, step := range job.TaskPlan.Steps {
		fmt.Printf("%3d. %s\n", step.ID, stepSummary(step))
	}
	return nil
}

func runExecute(args []string) error {
	return runJobAction("execute", args)
}

func runRegenerate(args []string) error {
	return runJobAction("regenerate", args)
}

func runJobAction(kind string, args []string) error {
	fs := flag.NewFlagSet(kind, flag.ContinueOnError)
	configPath := fs.String("config", "", "settings file path")
	jobID := fs.String("job", "", "job id")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*jobID) == "" {
		return errors.New("--job is required")
	}

	client, _, err := newClient(*configPath)
	if err != nil {
		return err
	}
	if kind == "regenerate" {
		err = client.Regenerate(*jobID)
	} else {
		err = client.Execute(*jobID)
	}
	if err != nil {
		return err
	}
	fmt.Printf("%s started for job %s; follow it with: tutorial-studio watch --job %s\n", kind, *jobID, *jobID)
	return nil
}

func printJobLine(job model.Job) {
	fmt.Printf("%s  %s", job.ID, model.StatusLabel(job.Status))
	if job.Message != "" {
		fmt.Printf("  %s", job.Message)
	}
	fmt.Println()
	switch job.Status {
	case model.StatusCompleted:
		if job.VideoFilename != "" {
			fmt.Println("video: " + job.VideoFilename)
		}
		if job.VideoURL != "" {
			fmt.Println("url:   " + job.VideoURL)
		}
	case model.StatusFailed:
		if job.Error != "" {
			fmt.Println("error: " + job.Error)
		}
	}
}
