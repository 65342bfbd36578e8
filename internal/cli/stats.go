package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tutu-network/jokebox/internal/domain"
)

func init() {
	rootCmd.AddCommand(statsCmd, achievementsCmd)
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show reading stats and the last seven days",
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	sess, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	s, err := sess.Summary(ctx)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Jokes read      %d\n", s.JokesRead)
	fmt.Fprintf(out, "Goal            %s %3.0f%% | %d / %d jokes\n",
		renderBar(s.GoalProgress), s.GoalProgress*100, s.JokesRead, domain.ReadGoal)
	fmt.Fprintf(out, "Current streak  %d day(s)\n", s.CurrentStreak)
	fmt.Fprintf(out, "Favorites       %d\n", s.Favorites)
	fmt.Fprintf(out, "Achievements    %d / %d\n", s.UnlockedCount, s.TotalAchievements)
	fmt.Fprintf(out, "Member since    %s\n", s.MemberSince.Local().Format("2006-01-02"))
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Last 7 days")
	writeActivity(out, s.LastSevenDays)
	return nil
}

var achievementsCmd = &cobra.Command{
	Use:   "achievements",
	Short: "List achievements",
	RunE:  runAchievements,
}

func runAchievements(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	sess, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	achievements, err := sess.Achievements(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\tTITLE\tDESCRIPTION\tUNLOCKED")
	for _, a := range achievements {
		unlocked := "-"
		if a.IsUnlocked && a.UnlockedDate != nil {
			unlocked = a.UnlockedDate.Local().Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", a.Emoji, a.Title, a.Description, unlocked)
	}
	return w.Flush()
}
