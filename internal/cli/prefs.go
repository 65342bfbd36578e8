package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tutu-network/jokebox/internal/app/engagement"
	"github.com/tutu-network/jokebox/internal/domain"
)

func init() {
	prefsCmd.AddCommand(prefsGetCmd, prefsSetCmd)
	rootCmd.AddCommand(prefsCmd)
}

var prefsCmd = &cobra.Command{
	Use:     "prefs",
	Aliases: []string{"preferences"},
	Short:   "Show or change presentation preferences",
}

var prefsGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show preferences",
	RunE:  runPrefsGet,
}

func runPrefsGet(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	sess, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	prefs, err := sess.Preferences(ctx)
	if err != nil {
		return err
	}
	return writePrefs(cmd, prefs)
}

var prefsSetCmd = &cobra.Command{
	Use:   "set NAME VALUE",
	Short: "Change one preference",
	Long: fmt.Sprintf(`Change one preference.

Names: %s
Themes: %s
Flags take true or false.`, strings.Join(engagement.PreferenceNames, ", "), themeList()),
	Example: `  jokebox prefs set theme dark_glow
  jokebox prefs set large_text true`,
	Args: cobra.ExactArgs(2),
	RunE: runPrefsSet,
}

func runPrefsSet(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	sess, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	prefs, err := sess.SetPreference(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	return writePrefs(cmd, prefs)
}

func writePrefs(cmd *cobra.Command, p domain.Preferences) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tVALUE")
	fmt.Fprintf(w, "theme\t%s\n", p.Theme)
	fmt.Fprintf(w, "sound\t%t\n", p.SoundEnabled)
	fmt.Fprintf(w, "large_text\t%t\n", p.LargeText)
	fmt.Fprintf(w, "high_contrast\t%t\n", p.HighContrast)
	fmt.Fprintf(w, "voice\t%t\n", p.VoiceEnabled)
	return w.Flush()
}

func themeList() string {
	names := make([]string, 0, len(domain.Themes()))
	for _, t := range domain.Themes() {
		names = append(names, string(t))
	}
	return strings.Join(names, ", ")
}
