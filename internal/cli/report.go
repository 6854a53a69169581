package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/clearsight-ai/reportforge/internal/service"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func registerGenerateFlags(flags *pflag.FlagSet) {
	flags.StringArray("competitor-file", nil, "Competitor text file to analyze (repeatable)")
	flags.Int("top-k", 0, "Number of grounding passages to retrieve")
}

// ReportCmd returns the report command
func ReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report <keyword>",
		Short: "Generate a structured report for a keyword",
		Long:  "Generate a grounded report outline for the keyword and print it as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  runReport,
	}

	registerGenerateFlags(cmd.Flags())

	return cmd
}

// GapsCmd returns the gaps command
func GapsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gaps <keyword>",
		Short: "Analyze content gaps for a keyword",
		Long:  "List topics competitors cover that the corpus does not, printed as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  runGaps,
	}

	registerGenerateFlags(cmd.Flags())

	return cmd
}

func generateInput(cmd *cobra.Command, keyword string) (service.GenerateReportInput, error) {
	files, _ := cmd.Flags().GetStringArray("competitor-file")
	topK, _ := cmd.Flags().GetInt("top-k")

	var texts []string
	for _, path := range files {
		text, err := os.ReadFile(path)
		if err != nil {
			return service.GenerateReportInput{}, fmt.Errorf("failed to read competitor file %s: %w", path, err)
		}
		texts = append(texts, string(text))
	}

	return service.GenerateReportInput{
		Keyword:         keyword,
		CompetitorTexts: texts,
		TopK:            topK,
	}, nil
}

func runReport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	app, err := BuildApp(ctx)
	if err != nil {
		return err
	}

	if app.Worker != nil {
		go app.Worker.Start(ctx)
		defer app.Worker.Stop()
	}

	input, err := generateInput(cmd, args[0])
	if err != nil {
		return err
	}

	report, err := app.Service.GenerateReport(ctx, input)
	if err != nil {
		return err
	}

	return printJSON(report)
}

func runGaps(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	app, err := BuildApp(ctx)
	if err != nil {
		return err
	}

	input, err := generateInput(cmd, args[0])
	if err != nil {
		return err
	}

	gaps, err := app.Service.AnalyzeGaps(ctx, input)
	if err != nil {
		return err
	}

	return printJSON(map[string]interface{}{"gaps": gaps})
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
