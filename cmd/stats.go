package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mquinones/prepterm/internal/mastery"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show per-topic practice statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		stats, err := st.TopicStats(cmd.Context())
		if err != nil {
			return err
		}
		if len(stats) == 0 {
			fmt.Println("No topics yet. Import questions first.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TOPIC\tATTEMPTS\tCORRECT\tACCURACY\tAVG TIME\tMASTERY")
		for _, s := range stats {
			fmt.Fprintf(w, "%s\t%d\t%d\t%.0f%%\t%.1fs\t%s\n",
				s.TopicName, s.Total, s.Correct,
				s.Accuracy*100,
				float64(s.AvgTimeMs)/1000,
				mastery.Label(s.MasteryScore))
		}
		return w.Flush()
	},
}
