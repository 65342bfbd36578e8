package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func init() {
	fetchCmd.Flags().IntVarP(&fetchCount, "count", "n", 1, "Number of jokes to fetch")
	fetchCmd.Flags().BoolVar(&fetchRead, "read", false, "Count each fetched joke as read")
	rootCmd.AddCommand(fetchCmd, readCmd, recentCmd)
}

var (
	fetchCount int
	fetchRead  bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch a fresh joke",
	Long: `Fetch a joke from the configured endpoint and print it.

Fetching alone does not move your read count; pass --read (or run
'jokebox read' afterwards) once you have read it.`,
	RunE: runFetch,
}

func runFetch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	sess, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	out := cmd.OutOrStdout()
	for i := 0; i < max(1, fetchCount); i++ {
		joke, isFavorite, err := sess.FetchJoke(ctx)
		if err != nil {
			return fmt.Errorf("fetch joke: %w", err)
		}
		printJoke(out, joke)
		if isFavorite {
			fmt.Fprintln(out, "  (in your favorites)")
		}
		if fetchRead {
			res, err := sess.Read(ctx)
			if err != nil {
				return err
			}
			printUnlocked(out, res.Unlocked)
		}
	}
	return nil
}

var readCmd = &cobra.Command{
	Use:   "read",
	Short: "Count one joke as read",
	RunE:  runRead,
}

func runRead(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	sess, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	res, err := sess.Read(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Jokes read: %d  Streak: %d day(s)\n", res.JokesRead, res.CurrentStreak)
	printUnlocked(out, res.Unlocked)
	return nil
}

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Show the last jokes fetched",
	Long: `Recent jokes are kept in memory only, so this is mostly useful
while 'jokebox serve' runs: the list comes from the serving engine.`,
	RunE: runRecent,
}

func runRecent(cmd *cobra.Command, args []string) error {
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

	out := cmd.OutOrStdout()
	if len(state.RecentJokes) == 0 {
		fmt.Fprintln(out, "No jokes fetched yet.")
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tSETUP")
	for _, j := range state.RecentJokes {
		fmt.Fprintf(w, "%d\t%s\t%s\n", j.ID, j.Type, truncate(j.Setup, 60))
	}
	return w.Flush()
}
