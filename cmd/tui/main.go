package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"problem-tracker/internal/client"
	"problem-tracker/internal/tui"
)

func main() {
	server := flag.String("server", "http://localhost:8080", "tracker server base URL")
	timeout := flag.Duration("timeout", 10*time.Second, "HTTP request timeout")
	flag.Parse()

	m := tui.New(client.New(*server, *timeout), nil)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
