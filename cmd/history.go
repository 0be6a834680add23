package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-attendance/internal/model"
	"github.com/Tiliavir/trivial-attendance/internal/storage"
	"github.com/Tiliavir/trivial-attendance/internal/timecalc"
)

var (
	historyToday bool
	historyWeek  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List locally recorded attendance marks",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().BoolVar(&historyToday, "today", false, "Show today's marks (default)")
	historyCmd.Flags().BoolVar(&historyWeek, "week", false, "Show this week's marks")
	historyCmd.MarkFlagsMutuallyExclusive("today", "week")
}

func runHistory(cmd *cobra.Command, args []string) error {
	a := loadApp()
	now := a.now()

	from, to := historyRange(historyToday, historyWeek, now)
	days, err := storage.LoadRange(a.base, from, to)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	printHistory(days)
	return nil
}

// historyRange picks the days to list. The flags are mutually exclusive.
func historyRange(today, week bool, now time.Time) (time.Time, time.Time) {
	switch {
	case week && !today:
		return timecalc.WeekRange(now)
	default:
		// Default to today (covers --today and the bare command).
		return timecalc.StartOfDay(now), timecalc.EndOfDay(now)
	}
}

// printHistory prints one line per recorded day.
func printHistory(days []model.DailyState) {
	if len(days) == 0 {
		fmt.Println("No attendance recorded.")
		return
	}
	for _, d := range days {
		fmt.Println(dayLine(d))
	}
}

// dayLine renders a day as "2026-02-27  login ✓  lunch …  tea ·  logout ·".
func dayLine(d model.DailyState) string {
	parts := []string{d.Date}
	for _, e := range model.EventTypes {
		sym := "·"
		switch d.Status(e) {
		case model.StatusConfirmed:
			sym = "✓"
		case model.StatusPending:
			sym = "…"
		}
		parts = append(parts, fmt.Sprintf("%s %s", e, sym))
	}
	return strings.Join(parts, "  ")
}
