package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tutu-network/jokebox/internal/domain"
)

func init() {
	rootCmd.AddCommand(deckCmd)
}

var deckCmd = &cobra.Command{
	Use:   "deck",
	Short: "Swipe through a deck of jokes",
	Long: `Deal a few jokes and swipe through them one by one.

  r, right   add the joke to favorites and move on
  l, left    move on
  q, quit    stop

Either swipe counts the joke as read.`,
	RunE: runDeck,
}

func runDeck(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	sess, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	out := cmd.OutOrStdout()

	if cards, err := sess.DealDeck(ctx); err != nil {
		if len(cards) == 0 {
			return fmt.Errorf("deal deck: %w", err)
		}
		fmt.Fprintf(out, "Some cards could not be dealt: %v\n", err)
	}

	in := newLineScanner(cmd.InOrStdin())
	for {
		card, ok, err := sess.TopCard(ctx)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "The deck is empty.")
			return nil
		}
		printJoke(out, card.Joke)
		fmt.Fprint(out, "[l]eft / [r]ight / [q]uit > ")

		if !in.Scan() {
			fmt.Fprintln(out)
			return in.Err()
		}
		answer := strings.ToLower(strings.TrimSpace(in.Text()))

		var dir domain.SwipeDirection
		switch answer {
		case "q", "quit":
			return nil
		case "r", "right":
			dir = domain.SwipeRight
		case "l", "left":
			dir = domain.SwipeLeft
		default:
			fmt.Fprintf(out, "Unknown answer %q.\n", answer)
			continue
		}

		res, err := sess.Swipe(ctx, dir)
		if errors.Is(err, domain.ErrDeckEmpty) {
			continue
		}
		if err != nil {
			return err
		}
		if res.Favorited {
			fmt.Fprintf(out, "Saved joke #%d.\n", res.Card.Joke.ID)
		}
		printUnlocked(out, res.Unlocked)
		fmt.Fprintln(out)
	}
}
