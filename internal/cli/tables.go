package cli

import (
	"github.com/spf13/cobra"

	"github.com/0x6d61/mustwatch/internal/catalog"
	"github.com/0x6d61/mustwatch/internal/report"
)

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List the tables served by the API",
	RunE:  runTables,
}

func init() {
	rootCmd.AddCommand(tablesCmd)
	tablesCmd.Flags().StringP("format", "f", "text", "Output format (text, json)")
	tablesCmd.Flags().Bool("messages", false, "Include response messages (text format)")
}

func runTables(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	messages, _ := cmd.Flags().GetBool("messages")

	r, err := report.New(format)
	if err != nil {
		return err
	}
	if tr, ok := r.(*report.TextReporter); ok {
		tr.Messages = messages
	}
	return r.Generate(cmd.Context(), catalog.Default(), cmd.OutOrStdout())
}
