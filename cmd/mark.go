package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-attendance/internal/model"
)

var markCmd = &cobra.Command{
	Use:   "mark <login|lunch|tea|logout>",
	Short: "Mark an attendance event for today",
	Long: `Mark an attendance event. Each event can be marked once per day, inside its
window (see "att windows"). Today's state is refreshed from the API first.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"login", "lunch", "tea", "logout"},
	RunE:      runMark,
}

func runMark(cmd *cobra.Command, args []string) error {
	var event model.EventType
	if len(args) == 1 {
		event = parseEvent(args[0])
	}

	a := loadApp()
	ctx := context.Background()
	m := a.marker(ctx)

	if _, err := m.Refresh(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	res, err := m.Mark(ctx, event)
	if err != nil {
		if event == "" {
			fmt.Fprintln(os.Stderr, userMessage(err))
			fmt.Fprintln(os.Stderr, "Usage: att mark <login|lunch|tea|logout>")
			os.Exit(1)
		}
		failPending(err, event)
	}

	fmt.Println(res.Message)
	fmt.Printf("Marked %s at %s.\n", res.Event, a.now().Format("15:04"))
	return nil
}
