package mail

import (
	"github.com/ARUMANDESU/validation"
	"github.com/ARUMANDESU/validation/is"
)

// Payload is a transactional mail with a plain text part and an optional HTML alternative.
type Payload struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

func (p Payload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.To, validation.Required, is.EmailFormat),
		validation.Field(&p.Subject, validation.Required),
		validation.Field(&p.Text, validation.Required),
	)
}

// Receipt identifies an accepted mail. MessageID is empty when delivery was skipped.
type Receipt struct {
	MessageID string
	Skipped   bool
}
