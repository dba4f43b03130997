package config

const (
	// MaxTitleLength bounds titles and names shown as list headings
	// (about sections, home values, services).
	MaxTitleLength = 200

	// MaxQuestionLength is the maximum length for an FAQ question.
	MaxQuestionLength = 500

	// MaxAnswerLength is the maximum length for an FAQ answer.
	MaxAnswerLength = 5000

	// MaxBodyLength bounds long-form CMS text (about section content).
	MaxBodyLength = 10000

	// MaxDescriptionLength bounds short descriptions (home values).
	MaxDescriptionLength = 2000

	// MaxIconLength is the maximum length for an icon identifier.
	MaxIconLength = 100

	// MaxPersonNameLength bounds customer and testimonial author names.
	MaxPersonNameLength = 120

	// MaxPhoneLength is generous enough for international formats with extensions.
	MaxPhoneLength = 40

	// MaxNotesLength bounds free-text notes and testimonial content.
	MaxNotesLength = 2000

	// MaxCollectionItems caps the live items of one ordered collection,
	// which is also the longest id list a reorder accepts.
	MaxCollectionItems = 1000
)
