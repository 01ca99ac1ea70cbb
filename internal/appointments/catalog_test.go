package appointments

import (
	"testing"
	"time"
)

func TestTypeByID(t *testing.T) {
	typ, ok := TypeByID("cleaning")
	if !ok {
		t.Fatal("expected cleaning type to exist")
	}
	if typ.Name != "Teeth Cleaning" || typ.Duration != "45 min" || typ.Price != "$90" {
		t.Fatalf("unexpected catalog entry: %+v", typ)
	}

	if _, ok := TypeByID("massage"); ok {
		t.Fatal("unknown type must not resolve")
	}
}

func TestUpcomingDatesStartTomorrow(t *testing.T) {
	now := time.Date(2025, 6, 9, 15, 0, 0, 0, time.UTC)
	dates := UpcomingDates(now, 5)
	if len(dates) != 5 {
		t.Fatalf("expected 5 dates, got %d", len(dates))
	}
	if dates[0] != "2025-06-10" {
		t.Errorf("expected first date tomorrow, got %s", dates[0])
	}
	if dates[4] != "2025-06-14" {
		t.Errorf("expected last date 2025-06-14, got %s", dates[4])
	}
}

func TestSlotLabelsShape(t *testing.T) {
	slots := SlotLabels()
	if len(slots) != 12 {
		t.Fatalf("expected 12 slots, got %d", len(slots))
	}
	if slots[0] != "09:00" || slots[len(slots)-1] != "16:30" {
		t.Fatalf("unexpected slot bounds: %s..%s", slots[0], slots[len(slots)-1])
	}
	for _, s := range slots {
		if s >= "12:00" && s < "14:00" {
			t.Errorf("slot %s falls inside the lunch break", s)
		}
	}
}
