package views

import "embed"

// Assets holds the stylesheet and script under static/.
//
//go:embed static
var Assets embed.FS
