package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mquinones/prepterm/internal/quality"
)

// reviewCmd runs the explanation quality gate over the whole bank and
// reports which questions would fall back to kit content.
var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Report questions whose explanations fail the quality gate",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		records, err := st.QuestionsForReview(cmd.Context())
		if err != nil {
			return err
		}

		verbose, _ := cmd.Flags().GetBool("verbose")
		var flagged int
		for _, r := range records {
			result := quality.Evaluate(r.Explanation, r.CourseSlug, r.ErrorCommon, r.Verification)
			if result.Valid {
				continue
			}
			flagged++
			fmt.Printf("%s / %s / %s\n", r.CourseName, r.UnitName, r.TopicName)
			fmt.Printf("  %s  (%s)\n", truncate(r.Prompt, 70), r.ID)
			if verbose {
				for _, issue := range result.Issues {
					fmt.Println("    -", issue)
				}
			}
		}

		fmt.Printf("\n%d of %d questions need review\n", flagged, len(records))
		return nil
	},
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func init() {
	reviewCmd.Flags().BoolP("verbose", "v", false, "List each question's issues")
}
