package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the ASCII art banner for interleave.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	// Using a subtle gradient-like color scheme (Indigo/Violet)
	lines := []struct{ text, color string }{
		{" _       _            _                     ", "#818cf8"},
		{"(_)_ __ | |_ ___ _ __| | ___  __ ___   _____ ", "#a78bfa"},
		{"| | '_ \\| __/ _ \\ '__| |/ _ \\/ _` \\ \\ / / _ \\", "#c084fc"},
		{"| | | | | ||  __/ |  | |  __/ (_| |\\ V /  __/", "#e879f9"},
		{"|_|_| |_|\\__\\___|_|  |_|\\___|\\__,_| \\_/ \\___|", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
