package cli

import (
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tutu-network/jokebox/internal/domain"
)

func init() {
	favAddCmd.Flags().BoolVar(&favFetch, "fetch", false, "Fetch a new joke and favorite it")
	favAddCmd.Flags().IntVar(&favJoke.ID, "id", 0, "Joke id")
	favAddCmd.Flags().StringVar(&favJoke.Type, "type", "general", "Joke type")
	favAddCmd.Flags().StringVar(&favJoke.Setup, "setup", "", "Joke setup")
	favAddCmd.Flags().StringVar(&favJoke.Punchline, "punchline", "", "Joke punchline")

	favCmd.AddCommand(favAddCmd, favRmCmd, favLsCmd)
	rootCmd.AddCommand(favCmd)
}

var (
	favFetch bool
	favJoke  domain.Joke
)

var favCmd = &cobra.Command{
	Use:     "fav",
	Aliases: []string{"favorites"},
	Short:   "Manage favorite jokes",
}

var favAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a joke to favorites",
	Example: `  jokebox fav add --fetch
  jokebox fav add --id 42 --setup "Why..." --punchline "Because..."`,
	RunE: runFavAdd,
}

func runFavAdd(cmd *cobra.Command, args []string) error {
	joke := favJoke
	if !favFetch && (joke.Setup == "" || joke.Punchline == "") {
		return errors.New("pass --fetch, or --setup and --punchline")
	}

	ctx := cmd.Context()
	sess, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	out := cmd.OutOrStdout()
	if favFetch {
		joke, _, err = sess.FetchJoke(ctx)
		if err != nil {
			return fmt.Errorf("fetch joke: %w", err)
		}
		printJoke(out, joke)
	}

	added, unlocked, err := sess.AddFavorite(ctx, joke)
	if err != nil {
		return err
	}
	if !added {
		fmt.Fprintf(out, "Joke #%d is already a favorite.\n", joke.ID)
		return nil
	}
	fmt.Fprintf(out, "Added joke #%d to favorites.\n", joke.ID)
	printUnlocked(out, unlocked)
	return nil
}

var favRmCmd = &cobra.Command{
	Use:     "rm ID",
	Aliases: []string{"remove"},
	Short:   "Remove a joke from favorites",
	Args:    cobra.ExactArgs(1),
	RunE:    runFavRm,
}

func runFavRm(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("joke id %q is not a number", args[0])
	}

	ctx := cmd.Context()
	sess, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	removed, err := sess.RemoveFavorite(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("joke #%d is not a favorite", id)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed joke #%d from favorites.\n", id)
	return nil
}

var favLsCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List favorite jokes",
	RunE:    runFavLs,
}

func runFavLs(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	sess, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	state, err := sess.State(ctx)
	if err != nil {
		return err
	}
	favorites := state.FavoriteJokes
	out := cmd.OutOrStdout()
	if len(favorites) == 0 {
		fmt.Fprintln(out, "No favorites yet. Run 'jokebox fav add --fetch' to get started.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tSETUP\tPUNCHLINE")
	for _, j := range favorites {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", j.ID, j.Type, truncate(j.Setup, 40), truncate(j.Punchline, 40))
	}
	return w.Flush()
}
