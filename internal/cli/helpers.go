package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/tutu-network/jokebox/internal/domain"
)

// newLineScanner creates a line scanner from a reader.
func newLineScanner(r io.Reader) *bufio.Scanner {
	return bufio.NewScanner(r)
}

// printJoke writes a joke as setup, then punchline.
func printJoke(w io.Writer, j domain.Joke) {
	fmt.Fprintf(w, "#%d (%s)\n  %s\n  %s\n", j.ID, j.Type, j.Setup, j.Punchline)
}

// printUnlocked announces newly unlocked achievements.
func printUnlocked(w io.Writer, unlocked []domain.Achievement) {
	for _, a := range unlocked {
		fmt.Fprintf(w, "%s Achievement unlocked: %s (%s)\n", a.Emoji, a.Title, a.Description)
	}
}

// truncate shortens s to n runes for table columns.
func truncate(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n-1]) + "…"
}
