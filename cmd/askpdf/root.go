package main

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"askpdf/internal/logging"
	"askpdf/internal/tui"
)

const logo = "\n" +
	"           _                 _  __\n" +
	"  __ _ ___| | ___ __  __| |/ _|\n" +
	" / _` / __| |/ / '_ \\/ _` | |_\n" +
	"| (_| \\__ \\   <| |_) | (_| |  _|\n" +
	" \\__,_|___/_|\\_\\ .__/\\__,_|_|\n" +
	"               |_|\n"

func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "askpdf",
		Short:         "Ask questions about your PDFs",
		Long:          color.CyanString(logo) + "\nUpload PDFs into a local vector store and ask questions answered by an OpenAI chat model.",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE:          runUI,
	}

	rootCmd.PersistentFlags().String("config", "", "Path to YAML config file (default ./config.yaml or ~/.config/askpdf/config.yaml)")
	rootCmd.AddCommand(NewIngestCmd(), NewAskCmd())
	return rootCmd
}

func runUI(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, logFile, err := logging.ToFile(cfg.Log)
	if err != nil {
		return err
	}
	defer logFile.Close()

	a, err := newApp(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	startDir, _ := os.Getwd()
	m := tui.New(a.svc, a.sess, tui.Options{
		Timeout:    a.operationTimeout(),
		StartDir:   startDir,
		Collection: cfg.VectorStore.Collection,
	})
	logger.Info("ui started", "collection", cfg.VectorStore.Collection, "store", cfg.VectorStore.Type, "model", a.sess.Model().Label)
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
	return err
}
