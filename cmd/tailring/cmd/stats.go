package cmd

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/muesli/termenv"

	"github.com/tinovyatkin/tailring/internal/config"
	"github.com/tinovyatkin/tailring/internal/tail"
)

// printStats writes a one-line summary of st to w.
func printStats(w io.Writer, st tail.Stats, settings config.Settings) error {
	r := lipgloss.NewRenderer(w)
	switch {
	case !config.ColorEnabled(settings.Color):
		r.SetColorProfile(termenv.Ascii)
	case settings.Color == config.ColorOn:
		r.SetColorProfile(termenv.ANSI)
	}

	label := r.NewStyle().Bold(true)
	size := r.NewStyle().Foreground(lipgloss.Color("6"))

	line := fmt.Sprintf("%s %s of %s written (max %s, %s granularity)",
		label.Render("retained"),
		size.Render(humanize.IBytes(uint64(st.Retained))),
		size.Render(humanize.IBytes(uint64(st.Written))),
		humanize.IBytes(uint64(settings.MaxSize)),
		settings.Granularity,
	)
	if st.Discarding {
		line += "; " + r.NewStyle().Faint(true).Render("discarding a truncated line")
	}
	_, err := fmt.Fprintln(w, line)
	return err
}
