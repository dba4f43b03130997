package tables

import (
	"clearview/internal/domain/models/content"
	"clearview/internal/domain/models/records"
)

// Base table names, before the environment prefix
const (
	FAQs          = "faqs"
	AboutSections = "about_sections"
	HomeValues    = "home_values"
	Services      = "services"
	Testimonials  = "testimonials"
	Customers     = "customers"
	Appointments  = "appointments"
)

// OrderedBases lists ordered tables in creation order
var OrderedBases = []string{FAQs, AboutSections, HomeValues, Services}

// RecordBases lists soft-delete tables in creation order
var RecordBases = []string{Testimonials, Customers, Appointments}

var FAQTable = Ordered[*content.FAQ]{
	Collection: content.CollectionFAQs,
	Base:       FAQs,
	Mode:       content.RemoveHard,
	Columns: []Column{
		{"question", Text},
		{"answer", Text},
	},
	New:     func() *content.FAQ { return &content.FAQ{} },
	Values:  func(f *content.FAQ) []any { return []any{f.Question, f.Answer} },
	Targets: func(f *content.FAQ) []any { return []any{&f.Question, &f.Answer} },
}

var AboutSectionTable = Ordered[*content.AboutSection]{
	Collection: content.CollectionAboutSections,
	Base:       AboutSections,
	Mode:       content.RemoveHard,
	Columns: []Column{
		{"title", Text},
		{"content", Text},
		{"image_url", NullText},
	},
	New:     func() *content.AboutSection { return &content.AboutSection{} },
	Values:  func(a *content.AboutSection) []any { return []any{a.Title, a.Content, a.ImageURL} },
	Targets: func(a *content.AboutSection) []any { return []any{&a.Title, &a.Content, &a.ImageURL} },
}

var HomeValueTable = Ordered[*content.HomeValue]{
	Collection: content.CollectionHomeValues,
	Base:       HomeValues,
	Mode:       content.RemoveHard,
	Columns: []Column{
		{"title", Text},
		{"description", Text},
		{"icon", NullText},
	},
	New:     func() *content.HomeValue { return &content.HomeValue{} },
	Values:  func(h *content.HomeValue) []any { return []any{h.Title, h.Description, h.Icon} },
	Targets: func(h *content.HomeValue) []any { return []any{&h.Title, &h.Description, &h.Icon} },
}

// ServiceTable soft-removes so a discontinued service can come back
var ServiceTable = Ordered[*content.Service]{
	Collection: content.CollectionServices,
	Base:       Services,
	Mode:       content.RemoveSoft,
	Columns: []Column{
		{"name", Text},
		{"description", Text},
		{"price_cents", NullInt},
		{"duration_minutes", NullInt},
	},
	New: func() *content.Service { return &content.Service{} },
	Values: func(s *content.Service) []any {
		return []any{s.Name, s.Description, s.PriceCents, s.DurationMinutes}
	},
	Targets: func(s *content.Service) []any {
		return []any{&s.Name, &s.Description, &s.PriceCents, &s.DurationMinutes}
	},
}

var TestimonialTable = Record[*records.Testimonial]{
	Kind:          records.KindTestimonials,
	Base:          Testimonials,
	HasActiveFlag: true,
	Columns: []Column{
		{"author_name", Text},
		{"content", Text},
		{"rating", Int},
		{"source", Text},
	},
	New: func() *records.Testimonial { return &records.Testimonial{} },
	Values: func(t *records.Testimonial) []any {
		return []any{t.AuthorName, t.Content, t.Rating, string(t.Source)}
	},
	Targets: func(t *records.Testimonial) []any {
		return []any{&t.AuthorName, &t.Content, &t.Rating, &t.Source}
	},
}

var CustomerTable = Record[*records.Customer]{
	Kind: records.KindCustomers,
	Base: Customers,
	Columns: []Column{
		{"name", Text},
		{"email", Text},
		{"phone", NullText},
		{"notes", Text},
	},
	New:     func() *records.Customer { return &records.Customer{} },
	Values:  func(c *records.Customer) []any { return []any{c.Name, c.Email, c.Phone, c.Notes} },
	Targets: func(c *records.Customer) []any { return []any{&c.Name, &c.Email, &c.Phone, &c.Notes} },
}

var AppointmentTable = Record[*records.Appointment]{
	Kind: records.KindAppointments,
	Base: Appointments,
	Columns: []Column{
		{"customer_name", Text},
		{"email", Text},
		{"phone", NullText},
		{"service_name", Text},
		{"scheduled_at", Timestamp},
		{"notes", Text},
		{"status", Text},
	},
	New: func() *records.Appointment { return &records.Appointment{} },
	Values: func(a *records.Appointment) []any {
		return []any{a.CustomerName, a.Email, a.Phone, a.ServiceName, a.ScheduledAt, a.Notes, string(a.Status)}
	},
	Targets: func(a *records.Appointment) []any {
		return []any{&a.CustomerName, &a.Email, &a.Phone, &a.ServiceName, &a.ScheduledAt, &a.Notes, &a.Status}
	},
}

// Schema is the shape of one table, enough to render DDL
type Schema struct {
	Base    string
	Ordered bool
	Columns []Column
}

// Schemas returns every table in creation order
func Schemas() []Schema {
	return []Schema{
		{FAQs, true, FAQTable.Columns},
		{AboutSections, true, AboutSectionTable.Columns},
		{HomeValues, true, HomeValueTable.Columns},
		{Services, true, ServiceTable.Columns},
		{Testimonials, false, TestimonialTable.Columns},
		{Customers, false, CustomerTable.Columns},
		{Appointments, false, AppointmentTable.Columns},
	}
}
