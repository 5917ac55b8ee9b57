package scheduling

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// Errors signalled by the scheduling core. Handlers translate these to
// transport status codes; the core itself never logs or retries.
var (
	ErrInvalidAppointmentType = errors.New("invalid appointment type")
	ErrInvalidInput           = errors.New("invalid date or time format")
	ErrPastDateTime           = errors.New("cannot book appointments in the past")
	ErrSlotUnavailable        = errors.New("the selected time slot is no longer available")
)

// Booking is the record returned by a successful reservation.
type Booking struct {
	ID               string
	ConfirmationCode string
	Start            time.Time
	End              time.Time
	DurationMinutes  int
	Patient          PatientInfo
	AppointmentType  string
	Reason           *string
}

// occupancy marks one granule as reserved by a booking.
type occupancy struct {
	start           time.Time
	bookingID       string
	patient         PatientInfo
	appointmentType string
	reason          *string
}

// Ledger is the authoritative in-memory store of reserved granules. A granule
// key is present exactly when some booking's [start, start+duration) range
// covers it. The zero value is not usable; construct with NewLedger.
type Ledger struct {
	mu       sync.RWMutex
	granules map[string]occupancy
	now      func() time.Time
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		granules: make(map[string]occupancy),
		now:      time.Now,
	}
}

// granuleKey identifies a granule by its start timestamp.
func granuleKey(t time.Time) string {
	return t.Format(dateTimeLayout)
}

// RangeFree reports whether no reserved granule intersects [start, end).
// Arbitrary starts are permitted; the test does not assume granule alignment.
func (l *Ledger) RangeFree(_ context.Context, start, end time.Time) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.rangeFreeLocked(start, end)
}

// rangeFreeLocked intersects [start, end) with every occupied granule
// interval [g, g+granuleLength). Callers must hold at least the read lock.
func (l *Ledger) rangeFreeLocked(start, end time.Time) bool {
	for _, occ := range l.granules {
		if occ.start.Before(end) && occ.start.Add(granuleLength).After(start) {
			return false
		}
	}
	return true
}

// Reserve books [start, start+durationMinutes) for the patient. The
// availability check and the granule writes happen under one critical
// section, so of two overlapping reservations at most one succeeds and a
// partially written batch is never observable.
func (l *Ledger) Reserve(_ context.Context, start time.Time, durationMinutes int, patient PatientInfo, appointmentType string, reason *string) (*Booking, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if start.Before(now) {
		return nil, ErrPastDateTime
	}

	end := start.Add(time.Duration(durationMinutes) * time.Minute)
	if !l.rangeFreeLocked(start, end) {
		return nil, ErrSlotUnavailable
	}

	booking := &Booking{
		ID:               newBookingID(now),
		ConfirmationCode: newConfirmationCode(),
		Start:            start,
		End:              end,
		DurationMinutes:  durationMinutes,
		Patient:          patient,
		AppointmentType:  appointmentType,
		Reason:           reason,
	}

	for g := start; g.Before(end); g = g.Add(granuleLength) {
		l.granules[granuleKey(g)] = occupancy{
			start:           g,
			bookingID:       booking.ID,
			patient:         patient,
			appointmentType: appointmentType,
			reason:          reason,
		}
	}

	return booking, nil
}

// Reset clears every reservation. It exists for test isolation; nothing in
// the serving path calls it.
func (l *Ledger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.granules = make(map[string]occupancy)
}

// newBookingID generates a date-stamped booking identifier. The 4-digit
// suffix is random and not checked against existing bookings.
func newBookingID(now time.Time) string {
	return fmt.Sprintf("APPT-%s-%d", now.Format("20060102"), 1000+rand.Intn(9000))
}

const confirmationAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// newConfirmationCode generates the 6-character code handed to the patient,
// independent of the booking identifier.
func newConfirmationCode() string {
	b := make([]byte, 6)
	for i := range b {
		b[i] = confirmationAlphabet[rand.Intn(len(confirmationAlphabet))]
	}
	return string(b)
}
