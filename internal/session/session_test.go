package session

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"SeasonSchedule/internal/schedule"
)

func sprintWeekend() schedule.Event {
	return schedule.Event{
		Year:         2021,
		RoundNumber:  10,
		EventName:    "British Grand Prix",
		EventFormat:  "sprint_qualifying",
		Session1:     schedule.SessionPractice1,
		Session1Date: time.Date(2021, 7, 16, 13, 30, 0, 0, time.UTC),
		Session2:     schedule.SessionQualifying,
		Session3:     schedule.SessionPractice2,
		Session4:     schedule.SessionSprintQualifying,
		Session4Date: time.Date(2021, 7, 17, 15, 30, 0, 0, time.UTC),
		Session5:     schedule.SessionRace,
	}
}

func TestFactory_Construct(t *testing.T) {
	ev := sprintWeekend()
	h, err := ev.Sprint(NewFactory())
	if err != nil {
		t.Fatalf("Sprint: %v", err)
	}
	s := h.(*Session)
	if s.Number != 4 || !s.IsSprint() || !s.Date.Equal(ev.Session4Date) {
		t.Errorf("unexpected session %+v", s)
	}
	if !strings.Contains(s.String(), "British Grand Prix - Sprint Qualifying") {
		t.Errorf("String() = %q", s.String())
	}

	q, err := ev.Session("qualifying", NewFactory())
	if err != nil {
		t.Fatalf("Session: %v", err)
	}
	if q.(*Session).Number != 2 {
		t.Errorf("qualifying slot = %d", q.(*Session).Number)
	}
}

func TestFactory_Construct_Unknown(t *testing.T) {
	if _, err := NewFactory().Construct(sprintWeekend(), "Practice 3"); !errors.Is(err, schedule.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestSession_MarshalJSON(t *testing.T) {
	h, err := sprintWeekend().Qualifying(NewFactory())
	if err != nil {
		t.Fatalf("Qualifying: %v", err)
	}
	b, err := json.Marshal(h)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var out map[string]interface{}
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if out["session_name"] != "Qualifying" || out["date"] != nil || out["session_number"] != float64(2) {
		t.Errorf("payload = %s", b)
	}
}
