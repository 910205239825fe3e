package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the ASCII art banner, shaded from cyan to violet.
func PrintBanner(w io.Writer) {
	out := termenv.NewOutput(w)
	lines := []struct{ text, color string }{
		{` _                                       `, "#22d3ee"},
		{`| |_ _ __ __ ___   _____ _ __   __ _ _ __  `, "#38bdf8"},
		{`| __| '__/ _' \ \ / / __| '_ \ / _' | '_ \ `, "#60a5fa"},
		{`| |_| | | (_| |\ V /\__ \ |_) | (_| | | | |`, "#818cf8"},
		{` \__|_|  \__,_| \_/ |___/ .__/ \__,_|_| |_|`, "#a78bfa"},
		{`                        |_|                `, "#c084fc"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w)
}
