package content

import (
	"clearview/internal/config"
	"clearview/internal/domain/models"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// FAQ is a question/answer pair on the FAQ page
type FAQ struct {
	Ordering
	Question string `json:"question" db:"question"`
	Answer   string `json:"answer" db:"answer"`
}

func (f *FAQ) Normalize() { models.TrimAll(&f.Question, &f.Answer) }

func (f *FAQ) Validate() error {
	return validation.ValidateStruct(f,
		validation.Field(&f.Question, validation.Required, models.NotBlank, validation.Length(1, config.MaxQuestionLength)),
		validation.Field(&f.Answer, validation.Required, models.NotBlank, validation.Length(1, config.MaxAnswerLength)),
	)
}

// AboutSection is one block of the about page
type AboutSection struct {
	Ordering
	Title    string  `json:"title" db:"title"`
	Content  string  `json:"content" db:"content"`
	ImageURL *string `json:"image_url,omitempty" db:"image_url"`
}

func (a *AboutSection) Normalize() {
	models.TrimAll(&a.Title, &a.Content, a.ImageURL)
	if a.ImageURL != nil && *a.ImageURL == "" {
		a.ImageURL = nil
	}
}

func (a *AboutSection) Validate() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.Title, validation.Required, models.NotBlank, validation.Length(1, config.MaxTitleLength)),
		validation.Field(&a.Content, validation.Required, models.NotBlank, validation.Length(1, config.MaxBodyLength)),
		validation.Field(&a.ImageURL, is.URL),
	)
}

// HomeValue is a value proposition tile on the home page
type HomeValue struct {
	Ordering
	Title       string  `json:"title" db:"title"`
	Description string  `json:"description" db:"description"`
	Icon        *string `json:"icon,omitempty" db:"icon"`
}

func (h *HomeValue) Normalize() {
	models.TrimAll(&h.Title, &h.Description, h.Icon)
	if h.Icon != nil && *h.Icon == "" {
		h.Icon = nil
	}
}

func (h *HomeValue) Validate() error {
	return validation.ValidateStruct(h,
		validation.Field(&h.Title, validation.Required, models.NotBlank, validation.Length(1, config.MaxTitleLength)),
		validation.Field(&h.Description, validation.Required, models.NotBlank, validation.Length(1, config.MaxDescriptionLength)),
		validation.Field(&h.Icon, validation.Length(0, config.MaxIconLength)),
	)
}

// Service is a bookable service (eye exam, lens fitting, ...)
type Service struct {
	Ordering
	Name            string `json:"name" db:"name"`
	Description     string `json:"description" db:"description"`
	PriceCents      *int   `json:"price_cents,omitempty" db:"price_cents"`
	DurationMinutes *int   `json:"duration_minutes,omitempty" db:"duration_minutes"`
}

func (s *Service) Normalize() { models.TrimAll(&s.Name, &s.Description) }

func (s *Service) Validate() error {
	return validation.ValidateStruct(s,
		validation.Field(&s.Name, validation.Required, models.NotBlank, validation.Length(1, config.MaxTitleLength)),
		validation.Field(&s.Description, validation.Required, models.NotBlank, validation.Length(1, config.MaxAnswerLength)),
		validation.Field(&s.PriceCents, validation.Min(0)),
		validation.Field(&s.DurationMinutes, validation.Min(0)),
	)
}
