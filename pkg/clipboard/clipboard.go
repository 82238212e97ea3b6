package clipboard

import "context"

// Payload carries the two representations of one clipboard entry.
type Payload struct {
	HTML string
	Text string
}

// Writer writes plain text to a clipboard.
type Writer interface {
	WriteText(ctx context.Context, text string) error
}

// MultiWriter is a Writer that can also place several formats in one entry.
// Publisher discovers this capability with a type assertion. A WriteMulti
// returning errors.ErrUnsupported makes the publisher fall back to WriteText.
type MultiWriter interface {
	Writer
	WriteMulti(ctx context.Context, p Payload) error
}

// Recorder receives the outcome of every publish attempt.
type Recorder interface {
	ObserveCopy(result string)
}

// Publish outcomes passed to Recorder.
const (
	ResultMulti    = "multi"
	ResultFallback = "fallback"
	ResultFailed   = "failed"
	ResultBusy     = "busy"
	ResultEmpty    = "empty"
)
