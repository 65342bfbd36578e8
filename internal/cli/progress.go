package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/tutu-network/jokebox/internal/domain"
)

// ─── Progress Bar ───────────────────────────────────────────────────────────
// Terminal bars for the stats view.
// Shows: [=========>....................]  30% │ 30 / 100 jokes

const barWidth = 30 // Characters for the progress bar

// renderBar draws frac (0..1) as a fixed-width bar.
func renderBar(frac float64) string {
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}

	filled := int(frac * float64(barWidth))
	empty := barWidth - filled

	switch {
	case filled == barWidth:
		return "[" + strings.Repeat("=", filled) + "]"
	case filled > 0:
		return "[" + strings.Repeat("=", filled-1) + ">" + strings.Repeat(".", empty) + "]"
	default:
		return "[" + strings.Repeat(".", barWidth) + "]"
	}
}

// writeActivity draws one horizontal bar per day, scaled to the busiest day.
func writeActivity(w io.Writer, days []domain.DayActivity) {
	peak := 0
	for _, d := range days {
		peak = max(peak, d.Count)
	}
	for _, d := range days {
		width := 0
		if peak > 0 {
			width = d.Count * barWidth / peak
		}
		if d.Count > 0 && width == 0 {
			width = 1
		}
		fmt.Fprintf(w, "  %s %-*s %d\n", d.Day, barWidth, strings.Repeat("#", width), d.Count)
	}
}
