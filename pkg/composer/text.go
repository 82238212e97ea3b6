package composer

import (
	"strings"

	"github.com/disc-ucn/firma/pkg/signature"
)

// PlainText renders d as the text form of the signature, one line per visible row.
func PlainText(d signature.Data) string {
	var lines []string
	add := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			lines = append(lines, s)
		}
	}

	add(d.FullName)
	for _, p := range d.FilledPositions() {
		add(p)
	}
	add(Department)
	add(University)
	add(Address)
	if d.HasPhone() {
		add(d.Phone.Value)
	}
	add(d.Email)
	if u, ok := linkable(d.AdditionalLink); ok {
		if d.AdditionalLinkText.Present() {
			add(strings.TrimSpace(d.AdditionalLinkText.Value) + ": " + u)
		} else {
			add(u)
		}
	}
	for _, ic := range icons(d) {
		if ic.href != "" {
			add(ic.alt + ": " + ic.href)
		}
	}
	return strings.Join(lines, "\n")
}
