package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-attendance/internal/attendance"
	"github.com/Tiliavir/trivial-attendance/internal/model"
	"github.com/Tiliavir/trivial-attendance/internal/timecalc"
)

var statusOffline bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show today's attendance marks",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

var windowsCmd = &cobra.Command{
	Use:   "windows",
	Short: "Show when each attendance event can be marked",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		printWindows(os.Stdout)
	},
}

func init() {
	statusCmd.Flags().BoolVar(&statusOffline, "offline", false, "Use local state only, without asking the API")
}

func runStatus(cmd *cobra.Command, args []string) error {
	a := loadApp()
	ctx := context.Background()
	m := a.marker(ctx)

	var (
		state model.DailyState
		err   error
	)
	if statusOffline {
		state, err = m.Today()
	} else {
		state, err = m.Refresh(ctx)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	now := a.now()
	fmt.Printf("Today %s, %s\n", state.Date, now.Format("15:04"))
	printStatus(os.Stdout, state, now)
	return nil
}

func printStatus(w io.Writer, state model.DailyState, now time.Time) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, r := range attendance.Rules() {
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", r.Title, r.Span(), availability(r, state, now))
	}
	_ = tw.Flush()
}

// availability describes what the user can do with an event right now.
func availability(r attendance.Rule, state model.DailyState, now time.Time) string {
	switch state.On(now).Status(r.Event) {
	case model.StatusConfirmed:
		return "✓ marked"
	case model.StatusPending:
		return fmt.Sprintf("… pending (att retry %s)", r.Event)
	}
	minute := timecalc.MinuteOfDay(now)
	switch {
	case r.Contains(minute):
		return fmt.Sprintf("open until %s (att mark %s)", timecalc.ClockLabel(r.End), r.Event)
	case minute < r.Start:
		return "opens at " + timecalc.ClockLabel(r.Start)
	}
	return "missed"
}

func printWindows(w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "EVENT\tWINDOW\tFROM\tTO")
	for _, r := range attendance.Rules() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Event, r.Span(), timecalc.Clock24(r.Start), timecalc.Clock24(r.End))
	}
	_ = tw.Flush()
}
