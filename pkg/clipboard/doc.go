// Package clipboard publishes composed signatures to a clipboard in HTML and
// plain-text form.
//
// Writers are small: Writer places text, MultiWriter places an HTML and a
// text representation in one entry. Memory is an in-process clipboard used by
// the editor server and tests; System pipes text into the platform clipboard
// utility.
//
//	pub := clipboard.NewPublisher(clipboard.NewMemory(), clipboard.WithLogger(log))
//	if !pub.Publish(ctx, html) {
//		// show the retry notice
//	}
//
// Publish reports failure as a boolean and never propagates writer errors or
// panics. It keeps no timing state; the caller owns any confirmation window.
//
// A Pool serves many owners, such as editor sessions, from one writer. Each
// owner gets its own single-flight Publisher:
//
//	pool := clipboard.NewPool(clipboard.NewMemory())
//	pool.Publish(ctx, sessionID, html)
package clipboard
