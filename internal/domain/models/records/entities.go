package records

import (
	"errors"
	"time"

	"clearview/internal/config"
	"clearview/internal/domain/models"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// TestimonialSource records where a testimonial came from
type TestimonialSource string

const (
	SourceManual   TestimonialSource = "manual"
	SourceGoogle   TestimonialSource = "google"
	SourceFacebook TestimonialSource = "facebook"
)

// Testimonial is a customer quote; only active, non-deleted ones are public
type Testimonial struct {
	SoftDelete
	AuthorName string            `json:"author_name" db:"author_name"`
	Content    string            `json:"content" db:"content"`
	Rating     int               `json:"rating" db:"rating"`
	Source     TestimonialSource `json:"source" db:"source"`
}

func (t *Testimonial) Normalize() {
	models.TrimAll(&t.AuthorName, &t.Content)
	if t.Source == "" {
		t.Source = SourceManual
	}
}

func (t *Testimonial) Validate() error {
	return validation.ValidateStruct(t,
		validation.Field(&t.AuthorName, validation.Required, models.NotBlank, validation.Length(1, config.MaxPersonNameLength)),
		validation.Field(&t.Content, validation.Required, models.NotBlank, validation.Length(1, config.MaxNotesLength)),
		validation.Field(&t.Rating, validation.Required, validation.Min(1), validation.Max(5)),
		validation.Field(&t.Source, validation.In(SourceManual, SourceGoogle, SourceFacebook)),
	)
}

// Customer is a customer record kept by the shop
type Customer struct {
	SoftDelete
	Name  string  `json:"name" db:"name"`
	Email string  `json:"email" db:"email"`
	Phone *string `json:"phone,omitempty" db:"phone"`
	Notes string  `json:"notes" db:"notes"`
}

func (c *Customer) Normalize() {
	models.TrimAll(&c.Name, &c.Email, c.Phone, &c.Notes)
	if c.Phone != nil && *c.Phone == "" {
		c.Phone = nil
	}
}

func (c *Customer) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Name, validation.Required, models.NotBlank, validation.Length(1, config.MaxPersonNameLength)),
		validation.Field(&c.Email, validation.Required, is.EmailFormat),
		validation.Field(&c.Phone, validation.Length(0, config.MaxPhoneLength)),
		validation.Field(&c.Notes, validation.Length(0, config.MaxNotesLength)),
	)
}

// AppointmentStatus tracks a booking through the shop's workflow
type AppointmentStatus string

const (
	AppointmentPending   AppointmentStatus = "pending"
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

// Appointment is a booking request submitted through the site
type Appointment struct {
	SoftDelete
	CustomerName string            `json:"customer_name" db:"customer_name"`
	Email        string            `json:"email" db:"email"`
	Phone        *string           `json:"phone,omitempty" db:"phone"`
	ServiceName  string            `json:"service_name" db:"service_name"`
	ScheduledAt  time.Time         `json:"scheduled_at" db:"scheduled_at"`
	Notes        string            `json:"notes" db:"notes"`
	Status       AppointmentStatus `json:"status" db:"status"`
}

func (a *Appointment) Normalize() {
	models.TrimAll(&a.CustomerName, &a.Email, a.Phone, &a.ServiceName, &a.Notes)
	if a.Phone != nil && *a.Phone == "" {
		a.Phone = nil
	}
	if a.Status == "" {
		a.Status = AppointmentPending
	}
}

func (a *Appointment) Validate() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.CustomerName, validation.Required, models.NotBlank, validation.Length(1, config.MaxPersonNameLength)),
		validation.Field(&a.Email, validation.Required, is.EmailFormat),
		validation.Field(&a.Phone, validation.Length(0, config.MaxPhoneLength)),
		validation.Field(&a.ServiceName, validation.Required, models.NotBlank, validation.Length(1, config.MaxTitleLength)),
		validation.Field(&a.ScheduledAt, validation.By(func(value interface{}) error {
			if ts, ok := value.(time.Time); !ok || ts.IsZero() {
				return errors.New("is required")
			}
			return nil
		})),
		validation.Field(&a.Notes, validation.Length(0, config.MaxNotesLength)),
		validation.Field(&a.Status, validation.In(AppointmentPending, AppointmentConfirmed, AppointmentCompleted, AppointmentCancelled)),
	)
}
