package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"askpdf/internal/domain"
	"askpdf/internal/logging"
)

func NewIngestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ingest FILE.pdf...",
		Short: "Chunk, embed and store PDFs",
		Long:  `Extract the text of each PDF, split it into chunks and append them to the configured collection. Re-ingesting a file stores its chunks again.`,
		Args:  cobra.MinimumNArgs(1),
		RunE:  runIngest,
	}
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := logging.ToStderr(cfg.Log)
	if err != nil {
		return err
	}
	a, err := newApp(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	for _, path := range args {
		if err := a.ingestFile(cmd.Context(), out, path); err != nil {
			if errors.Is(err, domain.ErrNoText) {
				fmt.Fprintln(out, color.YellowString("! %s: no extractable text, skipped", path))
				continue
			}
			return err
		}
	}
	n, err := a.svc.Collection().Count(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s now holds %d chunks\n", cfg.VectorStore.Collection, n)
	return nil
}

func (a *app) ingestFile(ctx context.Context, out io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	ctx, cancel := context.WithTimeout(ctx, a.operationTimeout())
	defer cancel()
	report, err := a.svc.IngestPDF(ctx, filepath.Base(path), f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	fmt.Fprintf(out, "%s %s: %d pages, %d chunks\n", color.GreenString("✓"), path, report.Pages, report.Chunks)
	return nil
}
