package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mquinones/prepterm/internal/importer"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import questions or learning kits",
}

var importQuestionsCmd = &cobra.Command{
	Use:   "questions <file>",
	Short: "Import questions from an .xlsx or .csv file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		config := importer.DefaultQuestionConfig(args[0])
		if sheet, _ := cmd.Flags().GetString("sheet"); sheet != "" {
			config.SheetName = sheet
		}

		result, err := importer.ImportQuestions(cmd.Context(), st, config)
		if err != nil {
			return err
		}
		printImportResult(result)
		return nil
	},
}

var importKitsCmd = &cobra.Command{
	Use:   "kits <file>",
	Short: "Import learning kits from a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		result, err := importer.ImportKits(cmd.Context(), st, args[0])
		if err != nil {
			return err
		}
		printImportResult(result)
		return nil
	},
}

func printImportResult(result *importer.Result) {
	fmt.Printf("Processed %d, imported %d, skipped %d\n",
		result.TotalProcessed, result.Created, result.Skipped)
	for _, e := range result.Errors {
		fmt.Println("  -", e)
	}
}

func init() {
	importQuestionsCmd.Flags().String("sheet", "", "Sheet name to read (default Sheet1)")

	importCmd.AddCommand(importQuestionsCmd)
	importCmd.AddCommand(importKitsCmd)
}
