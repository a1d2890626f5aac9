package cli

import "fmt"

func Run(args []string) error {
	if len(args) == 0 {
		printRootUsage()
		return nil
	}

	var err error
	switch args[0] {
	case "studio":
		err = runStudio(args[1:])
	case "submit":
		err = runSubmit(args[1:])
	case "status":
		err = runStatus(args[1:])
	case "watch":
		err = runWatch(args[1:])
	case "plan":
		err = runPlan(args[1:])
	case "execute":
		err = runExecute(args[1:])
	case "regenerate":
		err = runRegenerate(args[1:])
	case "library":
		err = runLibrary(args[1:])
	case "delete":
		err = runDelete(args[1:])
	case "download":
		err = runDownload(args[1:])
	case "settings":
		err = runSettings(args[1:])
	case "doctor":
		err = runDoctor(args[1:])
	case "help", "-h", "--help":
		printRootUsage()
		return nil
	default:
		printRootUsage()
		return fmt.Errorf("unknown command %q", args[0])
	}

	return err
}

func printRootUsage() {
	fmt.Println("tutorial-studio: instruction-to-video tutorial client")
	fmt.Println()
	fmt.Println("Quick Start:")
	fmt.Println("  tutorial-studio settings --server http://localhost:8000")
	fmt.Println("  tutorial-studio studio")
	fmt.Println("  tutorial-studio library")
	fmt.Println()
	fmt.Println("Interactive Commands:")
	fmt.Println("  studio     full lifecycle: instruction -> plan review -> execute -> video")
	fmt.Println("  library    browse, play, download, and delete finished tutorials")
	fmt.Println()
	fmt.Println("Job Commands:")
	fmt.Println("  submit     create a job from an instruction and print its id")
	fmt.Println("  status     read a job's current status once")
	fmt.Println("  watch      poll a job until it settles, printing status lines")
	fmt.Println("  plan       print a job's current task plan")
	fmt.Println("  execute    start executing a job's approved plan")
	fmt.Println("  regenerate re-run a completed or failed job")
	fmt.Println()
	fmt.Println("Library Commands:")
	fmt.Println("  delete     delete a tutorial (asks for confirmation)")
	fmt.Println("  download   download a tutorial's video to disk")
	fmt.Println()
	fmt.Println("Setup Commands:")
	fmt.Println("  settings   show/update server URL and client defaults")
	fmt.Println("  doctor     check config, server reachability, and download dir")
	fmt.Println()
	fmt.Println("Notes:")
	fmt.Println("  - Use --json on non-interactive commands for machine-readable output")
	fmt.Println("  - Server URL can be overridden with TUTORIAL_STUDIO_SERVER")
}
