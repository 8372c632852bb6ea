package devserver

import "time"

// User is a registered doctor or patient account.
type User struct {
	ID           int64  `gorm:"primaryKey"`
	Username     string `gorm:"uniqueIndex;size:64"`
	Email        string `gorm:"uniqueIndex;size:255"`
	PasswordHash string `gorm:"size:255"`
	Name         string `gorm:"size:120"`
	PhoneNumber  string `gorm:"size:20"`
	Role         string `gorm:"index;size:16"`

	// Patient profile.
	Age        int
	BloodGroup string `gorm:"size:8"`

	// Doctor profile.
	Department       string `gorm:"size:80"`
	LicenseNumber    string `gorm:"size:64"`
	ConsultationFees string `gorm:"size:32"`
	AvailableDays    string `gorm:"size:255"` // JSON array of day names
	ProfileImage     string `gorm:"size:255"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// RefreshToken is an opaque long-lived credential. Access tokens are
// stateless JWTs; only refresh tokens are tracked server-side so logout
// and expiry sweeps can revoke them.
type RefreshToken struct {
	ID        int64  `gorm:"primaryKey"`
	Token     string `gorm:"uniqueIndex;size:64"`
	UserID    int64  `gorm:"index"`
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Appointment is one booked slot. The json tags are the wire shape the
// front-end consumes.
type Appointment struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	DoctorID    int64     `gorm:"index" json:"doctorId"`
	PatientID   int64     `gorm:"index" json:"patientId"`
	PatientName string    `gorm:"size:120" json:"patientName,omitempty"`
	Date        string    `gorm:"size:16" json:"date"`
	Slot        string    `gorm:"size:16" json:"slot"`
	Reason      string    `gorm:"size:255" json:"reason,omitempty"`
	Status      string    `gorm:"size:16" json:"status"`
	CreatedAt   time.Time `json:"-"`
}
