package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// PrintBanner writes the dagview banner with the version.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"     _                      _               ", "#818cf8"},
		{"  __| | __ _  __ ___   __(_) _____      __", "#a78bfa"},
		{" / _` |/ _` |/ _` \\ \\ / /| |/ _ \\ \\ /\\ / /", "#c084fc"},
		{"| (_| | (_| | (_| |\\ V / | |  __/\\ V  V / ", "#e879f9"},
		{" \\__,_|\\__,_|\\__, | \\_/  |_|\\___| \\_/\\_/  ", "#f472b6"},
		{"             |___/                         ", "#fb7185"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	if v := strings.TrimSpace(version); v != "" {
		fmt.Fprintln(w, termenv.String("  live topology dashboard "+v).Faint())
	}
	fmt.Fprintln(w)
}
