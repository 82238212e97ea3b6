package signature

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/disc-ucn/firma/pkg/sanitizer"
)

// MaxPositions is the maximum number of position slots a signature holds.
const MaxPositions = 3

// Input caps applied while typing. Validation limits are stricter.
const (
	FullNameInputCap = 70
	PositionInputCap = 90
	TextInputCap     = 200
)

// Social holds the optional academic and professional profile links.
type Social struct {
	LinkedIn      Optional `json:"linkedin"       yaml:"linkedin,omitempty"`
	GoogleScholar Optional `json:"google_scholar" yaml:"google_scholar,omitempty"`
}

// Data is the structured record a signature is composed from.
// Operations never mutate the receiver; they return an updated copy.
type Data struct {
	Social             Social   `json:"social"               yaml:"social,omitempty"`
	FullName           string   `json:"full_name"            yaml:"full_name"`
	Email              string   `json:"email"                yaml:"email"`
	Phone              Optional `json:"phone"                yaml:"phone,omitempty"`
	ORCID              Optional `json:"orcid"                yaml:"orcid,omitempty"`
	Website            Optional `json:"website"              yaml:"website,omitempty"`
	AdditionalLink     Optional `json:"additional_link"      yaml:"additional_link,omitempty"`
	AdditionalLinkText Optional `json:"additional_link_text" yaml:"additional_link_text,omitempty"`
	Positions          []string `json:"positions"            yaml:"positions"`
	CiaraMember        bool     `json:"ciara_member"         yaml:"ciara_member,omitempty"`
}

// Empty returns a blank record with a single empty position slot.
func Empty() Data {
	return Data{Positions: []string{""}}
}

// Clone returns a deep copy of d. A record without slots gets one blank slot.
func (d Data) Clone() Data {
	c := d
	if len(d.Positions) == 0 {
		c.Positions = []string{""}
	} else {
		c.Positions = slices.Clone(d.Positions)
	}
	return c
}

// Reset returns the empty record.
func (d Data) Reset() Data {
	return Empty()
}

// SetField returns a copy of d with the given field set to v.
// Markup is stripped and the text normalized before the input caps apply.
func (d Data) SetField(f Field, v string) (Data, error) {
	c := d.Clone()
	v = sanitizer.Field(v)
	switch f {
	case FieldFullName:
		c.FullName = truncate(v, FullNameInputCap)
	case FieldEmail:
		c.Email = truncate(v, TextInputCap)
	case FieldPhone:
		c.Phone = Some(truncate(v, TextInputCap))
	case FieldORCID:
		c.ORCID = Some(truncate(v, TextInputCap))
	case FieldWebsite:
		c.Website = Some(truncate(v, TextInputCap))
	case FieldLinkedIn:
		c.Social.LinkedIn = Some(truncate(v, TextInputCap))
	case FieldGoogleScholar:
		c.Social.GoogleScholar = Some(truncate(v, TextInputCap))
	case FieldAdditionalLink:
		c.AdditionalLink = Some(truncate(v, TextInputCap))
	case FieldAdditionalLinkText:
		c.AdditionalLinkText = Some(truncate(v, TextInputCap))
	case FieldCiaraMember:
		c.CiaraMember = parseBool(v)
	default:
		return d, fmt.Errorf("%w: %q", ErrUnknownField, string(f))
	}
	return c, nil
}

// SetPosition returns a copy of d with slot i set to v.
func (d Data) SetPosition(i int, v string) (Data, error) {
	if i < 0 || i >= len(d.Positions) {
		return d, fmt.Errorf("%w: %d", ErrIndexOutOfRange, i)
	}
	c := d.Clone()
	c.Positions[i] = truncate(sanitizer.Field(v), PositionInputCap)
	return c, nil
}

// Normalize runs every value of d through the same cleaning as SetField
// and SetPosition. Records decoded from files use it before composing.
func (d Data) Normalize() Data {
	c := d.Clone()
	c.FullName = truncate(sanitizer.Field(c.FullName), FullNameInputCap)
	c.Email = truncate(sanitizer.Field(c.Email), TextInputCap)
	for _, o := range []*Optional{
		&c.Phone, &c.ORCID, &c.Website, &c.AdditionalLink, &c.AdditionalLinkText,
		&c.Social.LinkedIn, &c.Social.GoogleScholar,
	} {
		*o = Some(truncate(sanitizer.Field(o.Value), TextInputCap))
	}
	for i, p := range c.Positions {
		c.Positions[i] = truncate(sanitizer.Field(p), PositionInputCap)
	}
	return c
}

// AddPosition returns a copy of d with a blank slot appended.
func (d Data) AddPosition() (Data, error) {
	if len(d.Positions) >= MaxPositions {
		return d, ErrTooManyPositions
	}
	c := d.Clone()
	c.Positions = append(c.Positions, "")
	return c, nil
}

// RemovePosition returns a copy of d without slot i.
// Remaining slots keep their relative order.
func (d Data) RemovePosition(i int) (Data, error) {
	if i < 0 || i >= len(d.Positions) {
		return d, fmt.Errorf("%w: %d", ErrIndexOutOfRange, i)
	}
	if len(d.Positions) <= 1 {
		return d, ErrLastPosition
	}
	c := d.Clone()
	c.Positions = slices.Delete(c.Positions, i, i+1)
	return c, nil
}

// FilledPositions returns the non-blank positions in display order.
func (d Data) FilledPositions() []string {
	out := make([]string, 0, len(d.Positions))
	for _, p := range d.Positions {
		if strings.TrimSpace(p) != "" {
			out = append(out, strings.TrimSpace(p))
		}
	}
	return out
}

func (d Data) HasLinkedIn() bool       { return d.Social.LinkedIn.Present() }
func (d Data) HasScholar() bool        { return d.Social.GoogleScholar.Present() }
func (d Data) HasORCID() bool          { return d.ORCID.Present() }
func (d Data) HasWebsite() bool        { return d.Website.Present() }
func (d Data) HasPhone() bool          { return d.Phone.Present() }
func (d Data) HasAdditionalLink() bool { return d.AdditionalLink.Present() }
func (d Data) IsCiaraMember() bool     { return d.CiaraMember }

// HasSocialRow reports whether any icon of the social row would be shown.
func (d Data) HasSocialRow() bool {
	return d.HasScholar() || d.HasLinkedIn() || d.HasORCID() || d.HasWebsite() || d.IsCiaraMember()
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	r := []rune(s)
	return string(r[:limit])
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "true", "1", "yes", "si", "sí":
		return true
	default:
		return false
	}
}
