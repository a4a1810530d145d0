package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"askpdf/internal/llm"
	"askpdf/internal/logging"
	"askpdf/internal/session"
)

func NewAskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask [--model LABEL] QUESTION...",
		Short: "Answer a question from the stored PDFs",
		Long:  `Retrieve the chunks nearest to the question and answer it with the selected chat model.`,
		Args:  cobra.MinimumNArgs(1),
		RunE:  runAsk,
	}
	cmd.Flags().StringP("model", "m", "", "Model label: "+strings.Join(llm.Labels(), ", "))
	cmd.Flags().Bool("sources", true, "Print the retrieved chunks")
	return cmd
}

func runAsk(cmd *cobra.Command, args []string) error {
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

	if label, _ := cmd.Flags().GetString("model"); label != "" {
		if _, err := a.sess.SelectModel(label); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), a.operationTimeout())
	defer cancel()
	ans, err := a.svc.Answer(ctx, strings.Join(args, " "), a.sess.Model())
	if err != nil {
		return err
	}
	a.sess.Add(ans.Cost)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, ans.Text)
	if showSources, _ := cmd.Flags().GetBool("sources"); showSources && len(ans.Sources) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, color.CyanString("Sources:"))
		for i, r := range ans.Sources {
			fmt.Fprintf(out, "  [%d] %s #%d (score %.3f)\n", i+1, r.Chunk.Source, r.Chunk.Index, r.Score)
		}
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s %s, %d prompt + %d completion tokens, %s\n",
		color.HiBlackString("model"), ans.Model, ans.Usage.PromptTokens, ans.Usage.CompletionTokens,
		session.FormatCost(a.sess.Total()))
	return nil
}
