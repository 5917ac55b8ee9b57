package scheduling

import (
	"context"
	"fmt"
	"time"
)

// SlotGenerator derives a day's candidate slots from business hours, the
// wall clock, and the ledger's reservations.
type SlotGenerator struct {
	ledger *Ledger
	loc    *time.Location
	now    func() time.Time
}

// NewSlotGenerator creates a generator reading availability from the given
// ledger. A nil location falls back to the local time zone.
func NewSlotGenerator(ledger *Ledger, loc *time.Location) *SlotGenerator {
	if loc == nil {
		loc = time.Local
	}
	return &SlotGenerator{ledger: ledger, loc: loc, now: time.Now}
}

// Generate returns the ordered candidate slots for the date, each annotated
// with availability. Dates before today yield an empty sequence, not an
// error. durationMinutes must come from the appointment-type catalog;
// candidate starts step by it, back to back, so alignment depends on the
// duration requested.
func (g *SlotGenerator) Generate(ctx context.Context, dateStr string, durationMinutes int) ([]TimeSlot, error) {
	day, err := time.ParseInLocation(dateLayout, dateStr, g.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: use YYYY-MM-DD", ErrInvalidInput)
	}

	now := g.now().In(g.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, g.loc)
	if day.Before(today) {
		return []TimeSlot{}, nil
	}

	start := BusinessHours.Start.On(day)
	end := BusinessHours.End.On(day)

	// On the current day the first candidate moves up to the next
	// quarter-hour boundary; before opening it stays at opening time.
	if day.Equal(today) {
		if next := nextQuarterHour(now); next.After(start) {
			start = next
		}
	}

	duration := time.Duration(durationMinutes) * time.Minute
	slots := make([]TimeSlot, 0)
	for cur := start; !cur.Add(duration).After(end); cur = cur.Add(duration) {
		slotEnd := cur.Add(duration)
		slots = append(slots, TimeSlot{
			StartTime: cur.Format(clockLayout),
			EndTime:   slotEnd.Format(clockLayout),
			Available: g.ledger.RangeFree(ctx, cur, slotEnd),
		})
	}

	return slots, nil
}

// nextQuarterHour rounds t up to the next 15-minute boundary. A time already
// on a boundary is kept, with seconds dropped.
func nextQuarterHour(t time.Time) time.Time {
	t = t.Truncate(time.Minute)
	if rem := t.Minute() % 15; rem != 0 {
		return t.Add(time.Duration(15-rem) * time.Minute)
	}
	return t
}
