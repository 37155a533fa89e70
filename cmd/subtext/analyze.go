package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/subtextlab/subtext/internal/analysis"
	"github.com/subtextlab/subtext/internal/diagnostics"
	"github.com/subtextlab/subtext/internal/parser"
	"github.com/subtextlab/subtext/pkg/models"
)

var (
	analyzeJSON             bool
	analyzeSourcePath       string
	analyzeCompressionRatio float64
	analyzeCoherenceScore   float64
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [path]",
	Short: "Analyze a text passage and print its diagnostic report",
	Long: `Analyze a text passage for expectation breaks and coercive rhetoric.

PATH can be a plain text file, a JSON envelope with a "text" field,
a directory of such files, or "-" for stdin.

Examples:
  subtext analyze ./joke.txt
  subtext analyze ./passages/ --json
  echo "I expected rain, but it actually cleared." | subtext analyze -`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Output result as JSON")
	analyzeCmd.Flags().StringVar(&analyzeSourcePath, "source", "", "Path to the pre-expansion source text")
	analyzeCmd.Flags().Float64Var(&analyzeCompressionRatio, "compression-ratio", 0, "Explicit compression ratio")
	analyzeCmd.Flags().Float64Var(&analyzeCoherenceScore, "coherence-score", 0, "Explicit coherence score in [0,1]")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	target := "-"
	if len(args) == 1 {
		target = args[0]
	}

	if target != "-" {
		info, err := os.Stat(target)
		if err != nil {
			return fmt.Errorf("cannot read %s: %w", target, err)
		}
		if info.IsDir() {
			return analyzeDirectory(cmd.Context(), target)
		}
	}

	doc, err := loadDocument(target)
	if err != nil {
		return err
	}

	params, err := analyzeParams(cmd, doc)
	if err != nil {
		return err
	}

	pipeline := analysis.NewPipeline()
	result, err := pipeline.Run(cmd.Context(), params)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if analyzeJSON {
		return json.NewEncoder(os.Stdout).Encode(result)
	}

	printResult(os.Stdout, result)
	return nil
}

// analyzeParams merges the document with explicit flag overrides
func analyzeParams(cmd *cobra.Command, doc *parser.Document) (analysis.Params, error) {
	params := analysis.Params{
		Text:     doc.Text,
		Source:   doc.Source,
		Metadata: doc.Metadata,
	}

	if analyzeSourcePath != "" {
		data, err := os.ReadFile(analyzeSourcePath)
		if err != nil {
			return params, fmt.Errorf("cannot read source: %w", err)
		}
		params.Source = strings.TrimSpace(string(data))
	}
	if cmd.Flags().Changed("compression-ratio") {
		ratio := analyzeCompressionRatio
		params.CompressionRatio = &ratio
	}
	if cmd.Flags().Changed("coherence-score") {
		score := analyzeCoherenceScore
		params.CoherenceScore = &score
	}

	return params, nil
}

// analyzeDirectory runs the pipeline over every .txt and .json file in dir
func analyzeDirectory(ctx context.Context, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("cannot read directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".txt", ".json":
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	if len(paths) == 0 {
		return fmt.Errorf("no .txt or .json files in %s", dir)
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Start()

	pipeline := analysis.NewPipeline()
	type batchEntry struct {
		Path   string           `json:"path"`
		Result *analysis.Result `json:"result,omitempty"`
		Error  string           `json:"error,omitempty"`
	}
	results := make([]batchEntry, 0, len(paths))

	for _, path := range paths {
		s.Suffix = fmt.Sprintf(" analyzing %s", filepath.Base(path))

		entry := batchEntry{Path: path}
		if doc, err := loadDocument(path); err != nil {
			entry.Error = err.Error()
		} else {
			result, err := pipeline.Run(ctx, analysis.Params{
				Text:     doc.Text,
				Source:   doc.Source,
				Metadata: doc.Metadata,
			})
			if err != nil {
				entry.Error = err.Error()
			} else {
				entry.Result = result
			}
		}
		results = append(results, entry)
	}
	s.Stop()

	if analyzeJSON {
		return json.NewEncoder(os.Stdout).Encode(results)
	}

	for _, entry := range results {
		bold := color.New(color.Bold)
		_, _ = bold.Fprintf(os.Stdout, "== %s\n", entry.Path)
		if entry.Error != "" {
			_, _ = color.New(color.FgRed).Fprintf(os.Stdout, "error: %s\n\n", entry.Error)
			continue
		}
		printResult(os.Stdout, entry.Result)
		fmt.Fprintln(os.Stdout)
	}
	return nil
}

// loadDocument reads a document from a file path or stdin when path is "-"
func loadDocument(path string) (*parser.Document, error) {
	p := &parser.DocumentParser{}
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("cannot read stdin: %w", err)
		}
		return p.ParseBytes(data)
	}
	return p.Parse(path)
}

func printResult(w io.Writer, r *analysis.Result) {
	printStatus(w, r.Report.Status)

	fmt.Fprintln(w, diagnostics.FormatReport(r.Report))
	fmt.Fprintf(w, "Content Type: %s\n", r.ContentType)

	if len(r.Breaks) > 0 {
		bold := color.New(color.Bold)
		_, _ = bold.Fprintln(w, "\nEXPECTATION BREAKS")
		for _, b := range r.Breaks {
			fmt.Fprintf(w, "  [%s] %.2f at %d: %s\n", b.Type, b.Confidence, b.Position, b.Explanation)
		}
	}

	if r.Insight != "" {
		fmt.Fprintf(w, "\nCore insight: %s\n", r.Insight)
	}

	if len(r.Violations) > 0 {
		bold := color.New(color.Bold)
		_, _ = bold.Fprintln(w, "\nVIOLATIONS")
		for _, v := range r.Violations {
			_, _ = color.New(color.FgRed).Fprintf(w, "  %s\n", v)
		}
	}

	if r.ReframeTip != "" {
		_, _ = color.New(color.FgYellow).Fprintf(w, "\nTip: %s\n", r.ReframeTip)
	}
	if r.RefinementTip != "" {
		_, _ = color.New(color.FgYellow).Fprintf(w, "Refine: %s\n", r.RefinementTip)
	}
}

func printStatus(w io.Writer, status models.Status) {
	var c *color.Color
	switch status {
	case models.StatusSuccess:
		c = color.New(color.FgGreen, color.Bold)
	case models.StatusUnstable:
		c = color.New(color.FgYellow, color.Bold)
	default:
		c = color.New(color.FgRed, color.Bold)
	}
	_, _ = c.Fprintf(w, "%s\n", strings.ToUpper(string(status)))
	dim := color.New(color.FgHiBlack)
	_, _ = dim.Fprintln(w, strings.Repeat("━", 40))
}
