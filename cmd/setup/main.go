package main

import (
	"flag"
	"fmt"
	"os"

	"codeberg.org/codewithacp/server/internal/setup"
	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	path := flag.String("env", ".env", "path of the env file to write")
	flag.Parse()

	wizard := setup.NewWizard(*path, setup.EnvExists(*path))

	if _, err := tea.NewProgram(wizard).Run(); err != nil {
		fmt.Printf("error running setup: %v\n", err)
		os.Exit(1)
	}

	if wizard.Cancelled() {
		fmt.Println("setup cancelled.")
		return
	}

	if err := wizard.Err(); err != nil {
		fmt.Printf("setup failed: %v\n", err)
		os.Exit(1)
	}

	steps, err := setup.RenderNextSteps("dark", 80)
	if err != nil {
		fmt.Printf("environment written to %s\n", *path)
		return
	}

	fmt.Print(steps)
}
