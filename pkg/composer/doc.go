// Package composer renders signature data into an HTML fragment that pastes
// cleanly into mail clients.
//
// Mail clients drop <style> blocks and most layout CSS, so the fragment is
// built from nested tables and every visual property is an inline style.
// Images reference absolute hosted URLs and sizes are given both as
// attributes and inline.
//
// Layout, top to bottom in the text column: name, filled positions, the
// department, university and address lines, phone, email, an optional
// additional link, the social icon row and a closing rule. Rows for absent
// values are omitted; the social row disappears when it would be empty.
//
//	html := composer.Compose(data, logosize.ForPositions(len(data.FilledPositions())))
//	if composer.HasErrors(composer.Lint(html)) { ... }
package composer
