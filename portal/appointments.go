// Package portal holds thin resource clients for the portal backend. They
// ride on the authenticated fetcher, so expired access tokens are renewed
// transparently.
package portal

import (
	"context"
	"strconv"

	"github.com/utpal03/portalkit/auth"
	"github.com/utpal03/portalkit/errors"
)

const (
	endpointBookAppointment    = "/appointments/book"
	endpointDoctorAppointments = "/appointments/doctor"
)

// Appointment is one booked slot.
type Appointment struct {
	ID          int64  `json:"id"`
	DoctorID    int64  `json:"doctorId"`
	PatientID   int64  `json:"patientId"`
	PatientName string `json:"patientName,omitempty"`
	Date        string `json:"date"`
	Slot        string `json:"slot"`
	Reason      string `json:"reason,omitempty"`
	Status      string `json:"status"`
}

// BookingRequest is the payload for booking a slot.
type BookingRequest struct {
	DoctorID int64  `json:"doctorId"`
	Date     string `json:"date"`
	Slot     string `json:"slot"`
	Reason   string `json:"reason,omitempty"`
}

// Appointments accesses the appointment resources.
type Appointments struct {
	fetcher *auth.Fetcher
}

// NewAppointments creates an appointment client over an authenticated
// fetcher.
func NewAppointments(fetcher *auth.Fetcher) *Appointments {
	return &Appointments{fetcher: fetcher}
}

// Book books an appointment slot for the signed-in patient.
func (a *Appointments) Book(ctx context.Context, req BookingRequest) (*Appointment, error) {
	var out Appointment
	resp, err := a.fetcher.Post(ctx, endpointBookAppointment, req, auth.WithResponse(&out))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		return nil, errors.New(errors.KindInternal, resp.StatusCode, "booking rejected")
	}

	return &out, nil
}

// ForDoctor lists the appointments booked with a doctor.
func (a *Appointments) ForDoctor(ctx context.Context, doctorID int64) ([]Appointment, error) {
	var out []Appointment
	resp, err := a.fetcher.Get(ctx,
		endpointDoctorAppointments+"/"+strconv.FormatInt(doctorID, 10),
		auth.WithResponse(&out),
	)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		return nil, errors.New(errors.KindInternal, resp.StatusCode, "appointment listing rejected")
	}

	return out, nil
}
