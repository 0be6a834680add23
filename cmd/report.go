package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-attendance/internal/attendance"
	"github.com/Tiliavir/trivial-attendance/internal/model"
	"github.com/Tiliavir/trivial-attendance/internal/storage"
	"github.com/Tiliavir/trivial-attendance/internal/timecalc"
)

var reportFormat string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show this week's attendance per event type",
	Args:  cobra.NoArgs,
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportFormat, "format", "md", "Output format: md, csv, json")
}

// weekReport counts confirmed and pending marks per event type.
type weekReport struct {
	Week      string                  `json:"week"`
	Days      int                     `json:"days_recorded"`
	Confirmed map[model.EventType]int `json:"confirmed"`
	Pending   map[model.EventType]int `json:"pending"`
}

func buildReport(label string, days []model.DailyState) weekReport {
	r := weekReport{
		Week:      label,
		Days:      len(days),
		Confirmed: map[model.EventType]int{},
		Pending:   map[model.EventType]int{},
	}
	for _, e := range model.EventTypes {
		r.Confirmed[e] = 0
		r.Pending[e] = 0
	}
	for _, d := range days {
		for _, e := range model.EventTypes {
			switch d.Status(e) {
			case model.StatusConfirmed:
				r.Confirmed[e]++
			case model.StatusPending:
				r.Pending[e]++
			}
		}
	}
	return r
}

func runReport(cmd *cobra.Command, args []string) error {
	a := loadApp()
	now := a.now()

	from, to := timecalc.WeekRange(now)
	days, err := storage.LoadRange(a.base, from, to)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	r := buildReport(timecalc.ISOWeekLabel(now), days)

	switch reportFormat {
	case "csv":
		fmt.Println("event,confirmed,pending")
		for _, e := range model.EventTypes {
			fmt.Printf("%s,%d,%d\n", e, r.Confirmed[e], r.Pending[e])
		}
	case "json":
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			fmt.Fprintln(os.Stderr, "error encoding JSON:", err)
			os.Exit(2)
		}
		fmt.Println(string(data))
	default: // md
		fmt.Printf("Week %s (%d days recorded)\n", r.Week, r.Days)
		fmt.Println("--------------------------------")
		for _, rule := range attendance.Rules() {
			line := fmt.Sprintf("%-20s%d", rule.Title, r.Confirmed[rule.Event])
			if p := r.Pending[rule.Event]; p > 0 {
				line += fmt.Sprintf(" (+%d pending)", p)
			}
			fmt.Println(line)
		}
	}

	return nil
}
