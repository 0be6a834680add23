package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-attendance/internal/model"
	"github.com/Tiliavir/trivial-attendance/internal/storage"
	"github.com/Tiliavir/trivial-attendance/internal/timecalc"
)

var exportFormat string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export this week's attendance marks to stdout",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Output format: csv, json, md")
}

// exportRow is one marked event on one day.
type exportRow struct {
	Date      string          `json:"date"`
	Event     model.EventType `json:"event"`
	Status    string          `json:"status"`
	MarkedAt  string          `json:"marked_at"`
	RequestID string          `json:"request_id"`
}

func runExport(cmd *cobra.Command, args []string) error {
	a := loadApp()
	from, to := timecalc.WeekRange(a.now())

	days, err := storage.LoadRange(a.base, from, to)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	switch exportFormat {
	case "json":
		data, err := json.MarshalIndent(exportRows(days), "", "  ")
		if err != nil {
			fmt.Fprintln(os.Stderr, "error encoding JSON:", err)
			os.Exit(2)
		}
		fmt.Println(string(data))
	case "md":
		printHistory(days)
	default: // csv
		printCSV(exportRows(days))
	}

	return nil
}

// exportRows flattens days into marked events, in day and event order.
func exportRows(days []model.DailyState) []exportRow {
	rows := []exportRow{}
	for _, d := range days {
		for _, e := range model.EventTypes {
			m := d.Marks[e]
			if m.Status == model.StatusUnmarked {
				continue
			}
			at := ""
			if m.UpdatedAt != nil {
				at = m.UpdatedAt.Format(time.RFC3339)
			}
			rows = append(rows, exportRow{
				Date:      d.Date,
				Event:     e,
				Status:    m.Status.String(),
				MarkedAt:  at,
				RequestID: m.Key,
			})
		}
	}
	return rows
}

func printCSV(rows []exportRow) {
	fmt.Println("date,event,status,marked_at,request_id")
	for _, r := range rows {
		fmt.Printf("%s,%s,%s,%s,%s\n",
			csvEscape(r.Date),
			csvEscape(string(r.Event)),
			csvEscape(r.Status),
			csvEscape(r.MarkedAt),
			csvEscape(r.RequestID),
		)
	}
}

// csvEscape wraps a field in quotes if it contains a comma, quote, or newline.
func csvEscape(s string) string {
	needsQuote := false
	for _, c := range s {
		if c == ',' || c == '"' || c == '\n' || c == '\r' {
			needsQuote = true
			break
		}
	}
	if !needsQuote {
		return s
	}
	// Escape internal double quotes by doubling them.
	escaped := ""
	for _, c := range s {
		if c == '"' {
			escaped += "\""
		}
		escaped += string(c)
	}
	return `"` + escaped + `"`
}
