package validationx

import (
	"github.com/ARUMANDESU/validation"
	"github.com/ARUMANDESU/validation/is"
)

var (
	EmailRules = []validation.Rule{
		validation.Required,
		validation.Length(3, 255),
		is.EmailFormat,
	}
	UsernameRules = []validation.Rule{
		validation.Required,
		validation.RuneLength(3, 30),
		IsUsername,
	}
	NameRules = []validation.Rule{
		validation.Required,
		validation.RuneLength(2, 100),
	}
	PasswordRules = []validation.Rule{
		validation.Required,
		validation.RuneLength(8, 0),
		PasswordBytes,
	}
	DateOfBirthRules = []validation.Rule{
		validation.Required,
		IsDate,
	}
)
