package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mquinones/prepterm/internal/app"
)

// practiceCmd starts the TUI like the bare root command, but also accepts
// a course/unit/topic slug path to jump straight into that topic.
var practiceCmd = &cobra.Command{
	Use:   "practice [course/unit/topic]",
	Short: "Start a practice session, optionally jumping straight to a topic",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return runApp(cmd)
		}

		parts := strings.Split(args[0], "/")
		if len(parts) != 3 {
			return fmt.Errorf("topic must be given as course/unit/topic slugs, got %q", args[0])
		}

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		topicID, err := st.TopicIDBySlugs(ctx, parts[0], parts[1], parts[2])
		if err != nil {
			return fmt.Errorf("resolve topic %q: %w", args[0], err)
		}
		info, err := st.TopicContext(ctx, topicID)
		if err != nil {
			return fmt.Errorf("load topic %q: %w", args[0], err)
		}
		return app.RunTopic(st, topicID, info.Topic.Name)
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear attempt history and mastery scores",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.ResetProgress(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Progress cleared. The question bank was kept.")
		return nil
	},
}
