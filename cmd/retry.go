package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var retryCmd = &cobra.Command{
	Use:   "retry <login|lunch|tea|logout>",
	Short: "Resubmit a pending attendance mark",
	Long: `Resubmit an event whose earlier submission failed. The event must still be
inside its window; the original idempotency key is reused so the server does
not record it twice.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"login", "lunch", "tea", "logout"},
	RunE:      runRetry,
}

func runRetry(cmd *cobra.Command, args []string) error {
	event := parseEvent(args[0])

	a := loadApp()
	ctx := context.Background()

	res, err := a.marker(ctx).Retry(ctx, event)
	if err != nil {
		failPending(err, event)
	}

	fmt.Println(res.Message)
	fmt.Printf("Marked %s at %s.\n", res.Event, a.now().Format("15:04"))
	return nil
}
