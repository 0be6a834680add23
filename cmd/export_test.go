package cmd

import (
	"testing"
	"time"

	"github.com/Tiliavir/trivial-attendance/internal/model"
)

func TestCsvEscape(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"plain", "plain"},
		{"with space", "with space"},
		{"with,comma", `"with,comma"`},
		{`with"quote`, `"with""quote"`},
		{"with\nnewline", "\"with\nnewline\""},
		{"with\rreturn", "\"with\rreturn\""},
		{"", ""},
	}
	for _, tt := range tests {
		got := csvEscape(tt.input)
		if got != tt.want {
			t.Errorf("csvEscape(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestExportRowsSkipsUnmarked(t *testing.T) {
	at := time.Date(2026, 2, 27, 9, 5, 0, 0, time.UTC)
	d := model.NewDailyState(at)
	d.MarkPending(model.EventLogin, "k1", at)
	d.Confirm(model.EventLogin, at)
	d.MarkPending(model.EventTea, "k2", at)

	rows := exportRows([]model.DailyState{d})
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0].Event != model.EventLogin || rows[0].Status != "confirmed" || rows[0].RequestID != "k1" {
		t.Errorf("rows[0] = %+v", rows[0])
	}
	if rows[1].Event != model.EventTea || rows[1].Status != "pending" {
		t.Errorf("rows[1] = %+v", rows[1])
	}
	if rows[0].MarkedAt != "2026-02-27T09:05:00Z" {
		t.Errorf("MarkedAt = %q", rows[0].MarkedAt)
	}
}
