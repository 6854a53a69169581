package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// IngestCmd returns the ingest command
func IngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest <corpus-file>",
		Short: "Ingest a corpus file into the vector index",
		Long:  "Chunk, embed and store a reference corpus so reports can be grounded on it",
		Args:  cobra.ExactArgs(1),
		RunE:  runIngest,
	}

	return cmd
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	text, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read corpus file: %w", err)
	}

	app, err := BuildApp(ctx)
	if err != nil {
		return err
	}

	result, err := app.Service.IngestCorpus(ctx, string(text))
	if err != nil {
		return err
	}

	fmt.Printf("stored %d chunks in %s index\n", result.ChunksStored, result.StoreType)
	return nil
}
