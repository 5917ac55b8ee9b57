package scheduling

import (
	"fmt"
	"time"
)

// Wire layouts shared by the scheduling API. Dates travel as YYYY-MM-DD and
// clock times as 24-hour HH:MM; granule keys combine the two.
const (
	dateLayout     = "2006-01-02"
	clockLayout    = "15:04"
	dateTimeLayout = "2006-01-02 15:04"
)

// granuleLength is the atomic unit of booking-time resolution. Every
// occupancy record in the ledger covers exactly one granule, and every
// catalog duration is a multiple of it.
const granuleLength = 15 * time.Minute

// AppointmentTypes maps each bookable appointment type to its duration in
// minutes. The catalog is fixed for the lifetime of the process.
var AppointmentTypes = map[string]int{
	"consultation": 30,
	"followup":     15,
	"physical":     45,
	"specialist":   60,
}

// appointmentTypeOrder fixes the listing order for error messages and the
// catalog endpoint.
var appointmentTypeOrder = []string{"consultation", "followup", "physical", "specialist"}

// AppointmentTypeNames returns the catalog's type names in listing order.
func AppointmentTypeNames() []string {
	names := make([]string, len(appointmentTypeOrder))
	copy(names, appointmentTypeOrder)
	return names
}

// Clock is a time of day without a date.
type Clock struct {
	Hour   int
	Minute int
}

// On anchors the clock time to the given day.
func (c Clock) On(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), c.Hour, c.Minute, 0, 0, day.Location())
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// BusinessHours bound the bookable portion of every day. Slots never start
// before Start and never end after End.
var BusinessHours = struct {
	Start Clock
	End   Clock
}{
	Start: Clock{Hour: 9},
	End:   Clock{Hour: 17},
}

// TimeSlot is a candidate bookable window, derived on demand and never stored.
type TimeSlot struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Available bool   `json:"available"`
}

// PatientInfo is the patient snapshot captured with a booking.
type PatientInfo struct {
	Name  string `json:"name" validate:"required,min=1,max=100"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required,min=10,max=20"`
}

// BookingRequest is the body of a booking call.
type BookingRequest struct {
	AppointmentType string      `json:"appointment_type" validate:"required"`
	Date            string      `json:"date" validate:"required"`
	StartTime       string      `json:"start_time" validate:"required"`
	Patient         PatientInfo `json:"patient"`
	Reason          *string     `json:"reason"`
}

// BookingDetails echoes the full booking back to the caller.
type BookingDetails struct {
	Patient         PatientInfo `json:"patient"`
	AppointmentType string      `json:"appointment_type"`
	Date            string      `json:"date"`
	StartTime       string      `json:"start_time"`
	EndTime         string      `json:"end_time"`
	DurationMinutes int         `json:"duration_minutes"`
	Reason          *string     `json:"reason"`
}

// BookingResponse confirms a successful booking.
type BookingResponse struct {
	BookingID        string         `json:"booking_id"`
	Status           string         `json:"status"`
	ConfirmationCode string         `json:"confirmation_code"`
	Details          BookingDetails `json:"details"`
}

// AvailabilityResponse lists one day's slots for one appointment type.
type AvailabilityResponse struct {
	Date           string     `json:"date"`
	AvailableSlots []TimeSlot `json:"available_slots"`
}
