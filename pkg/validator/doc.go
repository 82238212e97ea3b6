// Package validator provides rule-based validation for signature forms.
//
// Rules are small closures paired with a ValidationError that carries a
// default Spanish message and a translation key:
//
//	err := validator.Apply(
//		validator.RequiredString("email", email, "El email es obligatorio"),
//		validator.ValidEmail("email", email),
//	)
//	if errs := validator.ExtractValidationErrors(err); errs != nil {
//		errs.Translate(translator.TranslateMessage)
//	}
//
// Validate checks one raw value by field kind and never fails on any input.
// ValidateForm checks a whole signature.Data and reports whether it may be
// composed: the full name, at least one filled position, every filled
// position and the email must pass. Optional fields are reported but never
// block. A non-institutional email domain is reported as a warning.
package validator
