package signature

import (
	"fmt"
	"strings"
)

// Field identifies a scalar signature field that can be set by name.
type Field string

// Settable fields.
const (
	FieldFullName           Field = "full_name"
	FieldEmail              Field = "email"
	FieldPhone              Field = "phone"
	FieldORCID              Field = "orcid"
	FieldWebsite            Field = "website"
	FieldLinkedIn           Field = "linkedin"
	FieldGoogleScholar      Field = "google_scholar"
	FieldAdditionalLink     Field = "additional_link"
	FieldAdditionalLinkText Field = "additional_link_text"
	FieldCiaraMember        Field = "ciara_member"
)

// Fields lists every settable field in form order.
var Fields = []Field{
	FieldFullName,
	FieldEmail,
	FieldPhone,
	FieldORCID,
	FieldWebsite,
	FieldLinkedIn,
	FieldGoogleScholar,
	FieldAdditionalLink,
	FieldAdditionalLinkText,
	FieldCiaraMember,
}

// ParseField resolves a field name. Hyphens are accepted in place of underscores.
func ParseField(name string) (Field, error) {
	f := Field(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_"))
	for _, known := range Fields {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, name)
}

// String returns the field name.
func (f Field) String() string {
	return string(f)
}
