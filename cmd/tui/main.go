package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tasknest/tasknest/cmd/tui/client"
	"github.com/tasknest/tasknest/cmd/tui/ui"
)

func main() {
	baseURL := os.Getenv("TASKNEST_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	api := client.New(baseURL)

	p := tea.NewProgram(
		ui.NewModel(api),
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
