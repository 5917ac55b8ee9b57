package scheduling

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Service validates requests against the appointment-type catalog and
// orchestrates the slot generator and the booking ledger. It holds no state
// of its own; the ledger is owned by the composition root and injected.
type Service struct {
	ledger *Ledger
	slots  *SlotGenerator
	loc    *time.Location
}

// NewService creates a Service around the given ledger. A nil location falls
// back to the local time zone; the location is fixed for the service's
// lifetime and never inferred per request.
func NewService(ledger *Ledger, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		ledger: ledger,
		slots:  NewSlotGenerator(ledger, loc),
		loc:    loc,
	}
}

// Availability returns the slot listing for one date and appointment type.
func (s *Service) Availability(ctx context.Context, date, appointmentType string) (*AvailabilityResponse, error) {
	duration, ok := AppointmentTypes[appointmentType]
	if !ok {
		return nil, fmt.Errorf("%w: must be one of %s", ErrInvalidAppointmentType, strings.Join(AppointmentTypeNames(), ", "))
	}

	slots, err := s.slots.Generate(ctx, date, duration)
	if err != nil {
		return nil, err
	}

	return &AvailabilityResponse{Date: date, AvailableSlots: slots}, nil
}

// Book reserves the requested window and echoes the confirmed details.
func (s *Service) Book(ctx context.Context, req BookingRequest) (*BookingResponse, error) {
	duration, ok := AppointmentTypes[req.AppointmentType]
	if !ok {
		return nil, fmt.Errorf("%w: must be one of %s", ErrInvalidAppointmentType, strings.Join(AppointmentTypeNames(), ", "))
	}

	start, err := time.ParseInLocation(dateTimeLayout, req.Date+" "+req.StartTime, s.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: use YYYY-MM-DD and HH:MM", ErrInvalidInput)
	}

	booking, err := s.ledger.Reserve(ctx, start, duration, req.Patient, req.AppointmentType, req.Reason)
	if err != nil {
		return nil, err
	}

	return &BookingResponse{
		BookingID:        booking.ID,
		Status:           "confirmed",
		ConfirmationCode: booking.ConfirmationCode,
		Details: BookingDetails{
			Patient:         booking.Patient,
			AppointmentType: booking.AppointmentType,
			Date:            req.Date,
			StartTime:       req.StartTime,
			EndTime:         booking.End.Format(clockLayout),
			DurationMinutes: booking.DurationMinutes,
			Reason:          booking.Reason,
		},
	}, nil
}

// Catalog returns a copy of the appointment-type catalog.
func (s *Service) Catalog() map[string]int {
	types := make(map[string]int, len(AppointmentTypes))
	for name, minutes := range AppointmentTypes {
		types[name] = minutes
	}
	return types
}

// Hours returns the clinic's opening and closing times.
func (s *Service) Hours() (start, end string) {
	return BusinessHours.Start.String(), BusinessHours.End.String()
}
