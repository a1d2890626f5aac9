package cli

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"tutorial-studio/internal/api"
	"tutorial-studio/internal/model"
)

func runDelete(args []string) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	configPath := fs.String("config", "", "settings file path")
	id := fs.String("id", "", "tutorial id")
	yes := fs.Bool("yes", false, "skip the confirmation prompt")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*id) == "" {
		return errors.New("--id is required")
	}

	client, _, err := newClient(*configPath)
	if err != nil {
		return err
	}

	if !*yes {
		confirmed, err := promptConfirm(fmt.Sprintf("Delete tutorial %s? This removes its video on the server. [y/N] ", *id))
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("aborted")
			return nil
		}
	}

	if err := client.DeleteTutorial(*id); err != nil {
		return err
	}
	fmt.Printf("deleted %s\n", *id)
	return nil
}

func runDownload(args []string) error {
	fs := flag.NewFlagSet("download", flag.ContinueOnError)
	configPath := fs.String("config", "", "settings file path")
	id := fs.String("id", "", "tutorial id")
	dest := fs.String("dest", "", "destination directory (default: configured download dir)")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*id) == "" {
		return errors.New("--id is required")
	}

	client, settings, err := newClient(*configPath)
	if err != nil {
		return err
	}

	tutorial, err := findTutorial(client, *id)
	if err != nil {
		return err
	}

	destDir := defaultIfEmpty(*dest, settings.DownloadDir)
	path, err := client.DownloadTutorial(tutorial, destDir)
	if err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}

func findTutorial(client *api.Client, id string) (model.Tutorial, error) {
	tutorials, err := client.ListTutorials()
	if err != nil {
		return model.Tutorial{}, err
	}
	for _, t := range tutorials {
		if t.ID == id {
			return t, nil
		}
	}
	return model.Tutorial{}, fmt.Errorf("tutorial %s not found", id)
}
