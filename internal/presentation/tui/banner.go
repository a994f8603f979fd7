package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the orxa banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.NewOutput(w).Profile
	lines := []struct {
		text  string
		color string
	}{
		{"   ___  _ ____  ____ _ ", "#818cf8"},
		{"  / _ \\| '__\\ \\/ / _` |", "#a78bfa"},
		{" | (_) | |   >  < (_| |", "#c084fc"},
		{"  \\___/|_|  /_/\\_\\__,_|", "#e879f9"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
