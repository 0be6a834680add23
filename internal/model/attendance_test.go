package model_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/Tiliavir/trivial-attendance/internal/model"
)

func TestDailyStateOnRollsOver(t *testing.T) {
	yesterday := time.Date(2026, 2, 26, 9, 10, 0, 0, time.UTC)
	today := time.Date(2026, 2, 27, 8, 0, 0, 0, time.UTC)

	s := model.NewDailyState(yesterday)
	s.Confirm(model.EventLogin, yesterday)
	if !s.Marked(model.EventLogin) {
		t.Fatal("expected login marked on its own day")
	}

	rolled := s.On(today)
	if rolled.Marked(model.EventLogin) {
		t.Error("login still marked after the date advanced")
	}
	if rolled.Date != "2026-02-27" {
		t.Errorf("rolled date = %q, want %q", rolled.Date, "2026-02-27")
	}
}

func TestDailyStateNeverLowers(t *testing.T) {
	now := time.Date(2026, 2, 27, 9, 10, 0, 0, time.UTC)
	s := model.NewDailyState(now)

	s.MarkPending(model.EventLunch, "k1", now)
	if got := s.Status(model.EventLunch); got != model.StatusPending {
		t.Fatalf("status = %v, want pending", got)
	}
	s.Confirm(model.EventLunch, now)
	s.MarkPending(model.EventLunch, "k2", now)
	if got := s.Status(model.EventLunch); got != model.StatusConfirmed {
		t.Errorf("status = %v, want confirmed", got)
	}
	if got := s.Marks[model.EventLunch].Key; got != "k1" {
		t.Errorf("key = %q, want %q", got, "k1")
	}
}

func TestDailyStateMerge(t *testing.T) {
	now := time.Date(2026, 2, 27, 9, 10, 0, 0, time.UTC)

	local := model.NewDailyState(now)
	local.MarkPending(model.EventTea, "tea-key", now)
	local.Confirm(model.EventLogin, now)

	remote := model.NewDailyState(now)
	remote.Confirm(model.EventLunch, now)

	local.Merge(remote)

	want := map[model.EventType]model.MarkStatus{
		model.EventLogin:  model.StatusConfirmed,
		model.EventLunch:  model.StatusConfirmed,
		model.EventTea:    model.StatusPending,
		model.EventLogout: model.StatusUnmarked,
	}
	for e, st := range want {
		if got := local.Status(e); got != st {
			t.Errorf("Status(%s) = %v, want %v", e, got, st)
		}
	}
}

func TestRemoteStatusWithoutLogout(t *testing.T) {
	var rs model.RemoteStatus
	if err := json.Unmarshal([]byte(`{"loginMarked":true,"lunchMarked":false,"teaMarked":true}`), &rs); err != nil {
		t.Fatal(err)
	}
	if !rs.Marked(model.EventLogin) || rs.Marked(model.EventLunch) || !rs.Marked(model.EventTea) || rs.Marked(model.EventLogout) {
		t.Errorf("unexpected flags: %+v", rs)
	}
}

func TestUserIDNumberOrString(t *testing.T) {
	var users []model.User
	data := `[{"id":42,"name":"A","email":"a@x"},{"id":"u-7","name":"B","email":"b@x"}]`
	if err := json.Unmarshal([]byte(data), &users); err != nil {
		t.Fatal(err)
	}
	if users[0].ID != "42" || users[1].ID != "u-7" {
		t.Errorf("ids = %q, %q", users[0].ID, users[1].ID)
	}
}
