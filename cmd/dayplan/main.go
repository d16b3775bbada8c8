package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/sandeepkv93/dayplan/internal/app"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	reminderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	doneStyle     = lipgloss.NewStyle().Faint(true).Strikethrough(true)
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	planner, err := app.Open(app.WithLogger(logger))
	if err != nil {
		fmt.Fprintf(os.Stderr, "dayplan failed: %v\n", err)
		os.Exit(1)
	}
	defer planner.Close()

	ctx := context.Background()
	for _, task := range planner.StartupReminderSweep(ctx) {
		fmt.Println(reminderStyle.Render(fmt.Sprintf("! %s at %s", task.Title, task.ReminderTime.Format("15:04"))))
	}

	today, err := planner.Tasks.TodayTasks(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dayplan failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(headerStyle.Render("Today"))
	if len(today) == 0 {
		fmt.Println("  nothing due")
		return
	}
	for _, task := range today {
		line := fmt.Sprintf("  [%d] %s (%s)", task.ID, task.Title, task.DueDate.Format("15:04"))
		if task.IsCompleted {
			line = doneStyle.Render(line)
		}
		fmt.Println(line)
	}
}
