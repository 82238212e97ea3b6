package clipboard

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// command is one clipboard utility invocation that reads the content on stdin.
type command struct {
	name string
	args []string
}

// System writes plain text to the operating system clipboard by piping it
// into the first available utility: pbcopy on macOS, clip.exe on Windows,
// and wl-copy, xclip or xsel elsewhere.
type System struct {
	cmd command
}

// NewSystem locates a clipboard utility. Returns ErrNoBackend if none is installed.
func NewSystem() (*System, error) {
	for _, c := range candidates(runtime.GOOS, os.Getenv("WAYLAND_DISPLAY") != "") {
		if _, err := exec.LookPath(c.name); err == nil {
			return &System{cmd: c}, nil
		}
	}
	return nil, ErrNoBackend
}

// Name returns the utility in use.
func (s *System) Name() string {
	return s.cmd.name
}

// WriteText implements Writer.
func (s *System) WriteText(ctx context.Context, text string) error {
	c := exec.CommandContext(ctx, s.cmd.name, s.cmd.args...)
	c.Stdin = strings.NewReader(text)
	var stderr bytes.Buffer
	c.Stderr = &stderr
	if err := c.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("clipboard: %s: %w: %s", s.cmd.name, err, msg)
		}
		return fmt.Errorf("clipboard: %s: %w", s.cmd.name, err)
	}
	return nil
}

func candidates(goos string, wayland bool) []command {
	switch goos {
	case "darwin":
		return []command{{name: "pbcopy"}}
	case "windows":
		return []command{{name: "clip.exe"}}
	}
	cmds := []command{
		{name: "xclip", args: []string{"-selection", "clipboard"}},
		{name: "xsel", args: []string{"--clipboard", "--input"}},
	}
	if wayland {
		cmds = append([]command{{name: "wl-copy"}}, cmds...)
	}
	return cmds
}
