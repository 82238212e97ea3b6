package composer

import (
	"context"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/disc-ucn/firma/pkg/logosize"
	"github.com/disc-ucn/firma/pkg/signature"
)

// Signature returns a component rendering d as a table-based signature with a
// logo of logoSize pixels. A non-positive logoSize uses the analytic size for
// d's filled positions.
//
// The component renders a private copy of d taken when Signature is called.
func Signature(d signature.Data, logoSize int) templ.Component {
	d = d.Clone()
	size := LogoSize(d, logoSize)
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		b := &builder{w: w}
		b.signature(d, size)
		return b.err
	})
}

// Compose renders d to an HTML string. The output is deterministic.
func Compose(d signature.Data, logoSize int) string {
	var sb strings.Builder
	// strings.Builder never fails
	_ = Signature(d, logoSize).Render(context.Background(), &sb)
	return sb.String()
}

// LogoSize resolves the logo size used for d.
// Requested sizes are clamped; non-positive ones fall back to the analytic size.
func LogoSize(d signature.Data, requested int) int {
	if requested <= 0 {
		return logosize.ForPositions(len(d.FilledPositions()))
	}
	return min(max(requested, logosize.MinAnalytic), logosize.MaxMeasured)
}

type icon struct {
	href string
	src  string
	alt  string
}

// icons returns the social row entries present in d, in display order.
// The CIARA badge has no href.
func icons(d signature.Data) []icon {
	var out []icon
	if u, ok := linkable(d.Social.GoogleScholar); ok {
		out = append(out, icon{href: u, src: ScholarIconURL, alt: "Google Scholar"})
	}
	if u, ok := linkable(d.Social.LinkedIn); ok {
		out = append(out, icon{href: u, src: LinkedInIcon, alt: "LinkedIn"})
	}
	if u, ok := linkable(d.ORCID); ok {
		out = append(out, icon{href: u, src: ORCIDIconURL, alt: "ORCID"})
	}
	if u, ok := linkable(d.Website); ok {
		out = append(out, icon{href: u, src: WebsiteIconURL, alt: "Sitio Web"})
	}
	if d.IsCiaraMember() {
		out = append(out, icon{src: CiaraBadgeURL, alt: "CIARA UCN"})
	}
	return out
}

// linkable returns the trimmed URL when o holds an absolute http(s) URL.
// Anything else is left out of the signature rather than emitted as a relative link.
func linkable(o signature.Optional) (string, bool) {
	if !o.Present() {
		return "", false
	}
	raw := strings.TrimSpace(o.Value)
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", false
	}
	if strings.ContainsAny(raw, " \t\n\"<>") {
		return "", false
	}
	return raw, true
}

type builder struct {
	w   io.Writer
	err error
}

func (b *builder) raw(parts ...string) {
	for _, p := range parts {
		if b.err != nil {
			return
		}
		_, b.err = io.WriteString(b.w, p)
	}
}

func esc(s string) string {
	return templ.EscapeString(s)
}

func href(u string) string {
	return esc(string(templ.URL(u)))
}

func px(n int) string {
	return strconv.Itoa(n)
}

func (b *builder) row(style, content string) {
	b.raw(`<tr><td style="`, style, `">`, content, "</td></tr>\n")
}

func (b *builder) signature(d signature.Data, size int) {
	b.raw(`<table cellpadding="0" cellspacing="0" border="0" role="presentation" style="`, styleTable, `">`, "\n<tr>\n")

	s := px(size)
	b.raw(`<td style="`, styleLogoCell, `">`,
		`<img src="`, LogoURL, `" alt="`, esc(LogoAlt), `" width="`, s, `" height="`, s,
		`" style="width: `, s, `px; height: `, s, `px; display: block; border: 0;" />`,
		"</td>\n")

	b.raw(`<td style="`, styleTextCell, `">`, "\n")
	b.raw(`<table cellpadding="0" cellspacing="0" border="0" role="presentation" style="`, styleTable, `">`, "\n")
	b.content(d)
	b.raw("</table>\n</td>\n</tr>\n</table>")
}

func (b *builder) content(d signature.Data) {
	if name := strings.TrimSpace(d.FullName); name != "" {
		b.row(styleName, esc(name))
	}
	for _, p := range d.FilledPositions() {
		b.row(stylePosition, esc(p))
	}

	b.row(styleInstitute, esc(Department))
	b.row(styleInstitute, `<img src="`+SmallLogoURL+`" alt="`+SmallLogoAlt+`" width="`+px(smallLogoSize)+
		`" height="`+px(smallLogoSize)+`" style="`+styleSmallLogo+`" />`+esc(University))
	b.row(styleInstitute, esc(Address))

	if d.HasPhone() {
		b.row(styleContact, esc(strings.TrimSpace(d.Phone.Value)))
	}
	if email := strings.TrimSpace(d.Email); email != "" {
		b.row(styleContact, `<a href="`+href("mailto:"+email)+`" style="`+styleAnchor+`">`+esc(email)+`</a>`)
	}
	if u, ok := linkable(d.AdditionalLink); ok {
		label := u
		if d.AdditionalLinkText.Present() {
			label = strings.TrimSpace(d.AdditionalLinkText.Value)
		}
		b.row(styleContact, `<a href="`+href(u)+`" target="_blank" rel="noopener noreferrer" title="`+esc(u)+
			`" style="`+styleAnchor+`">`+esc(label)+`</a>`)
	}

	if entries := icons(d); len(entries) > 0 {
		var sb strings.Builder
		for _, ic := range entries {
			img := `<img src="` + ic.src + `" alt="` + esc(ic.alt) + `" width="` + px(iconSize) +
				`" height="` + px(iconSize) + `" style="` + styleIcon + `" />`
			if ic.href == "" {
				sb.WriteString(`<span title="` + esc(ic.alt) + `" style="` + styleIconLink + `">` + img + `</span>`)
				continue
			}
			sb.WriteString(`<a href="` + href(ic.href) + `" target="_blank" rel="noopener noreferrer" title="` +
				esc(ic.href) + `" style="` + styleIconLink + `">` + img + `</a>`)
		}
		b.row(styleSocialRow, sb.String())
	}

	b.row(styleRuleCell, `<hr style="`+styleRule+`" />`)
}
