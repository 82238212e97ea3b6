package sanitizer

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// PlainText derives the text counterpart of an HTML fragment.
//
// Block boundaries (rows, paragraphs, divs, line breaks, rules) become line
// breaks and whitespace inside a line collapses to one space. Script and style
// content is dropped. An anchor with no visible text contributes its href, so
// icon-only links survive in the text form.
func PlainText(fragment string) string {
	z := html.NewTokenizer(strings.NewReader(fragment))

	var (
		lines    []string
		cur      strings.Builder
		skip     int
		hrefs    []string
		anchored []bool
	)

	flush := func() {
		line := strings.Join(strings.Fields(cur.String()), " ")
		if line != "" {
			lines = append(lines, line)
		}
		cur.Reset()
	}
	write := func(s string) {
		if skip > 0 {
			return
		}
		if strings.TrimSpace(s) != "" && len(anchored) > 0 {
			anchored[len(anchored)-1] = true
		}
		cur.WriteString(s)
	}

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if z.Err() != io.EOF {
				return ""
			}
			flush()
			return strings.Join(lines, "\n")
		case html.TextToken:
			write(string(z.Text()))
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			switch tok.DataAtom {
			case atom.Script, atom.Style:
				if tt == html.StartTagToken {
					skip++
				}
			case atom.A:
				hrefs = append(hrefs, attr(tok, "href"))
				anchored = append(anchored, false)
			case atom.Td, atom.Th:
				write(" ")
			default:
				if isBlock(tok.DataAtom) {
					flush()
				}
			}
		case html.EndTagToken:
			tok := z.Token()
			switch tok.DataAtom {
			case atom.Script, atom.Style:
				if skip > 0 {
					skip--
				}
			case atom.A:
				if n := len(hrefs); n > 0 {
					href, seen := hrefs[n-1], anchored[n-1]
					hrefs, anchored = hrefs[:n-1], anchored[:n-1]
					if !seen && href != "" && skip == 0 {
						flush()
						cur.WriteString(strings.TrimPrefix(href, "mailto:"))
						flush()
					}
				}
			case atom.Td, atom.Th:
				write(" ")
			default:
				if isBlock(tok.DataAtom) {
					flush()
				}
			}
		}
	}
}

func isBlock(a atom.Atom) bool {
	switch a {
	case atom.Br, atom.Hr, atom.Tr, atom.Table, atom.Div, atom.P, atom.Li,
		atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		return true
	}
	return false
}

func attr(tok html.Token, name string) string {
	for _, a := range tok.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}
