package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/subtextlab/subtext/internal/classifier"
)

var classifyJSON bool

var classifyCmd = &cobra.Command{
	Use:   "classify [path]",
	Short: "Classify a text by its expectation-break pattern",
	Long: `Classify a text as paradox, reversal, joke, contrast narrative,
semantic surprise, or straightforward, and list the detected breaks.

Examples:
  subtext classify ./joke.txt
  subtext classify - < draft.txt`,
	Args: cobra.MaximumNArgs(1),
	RunE: runClassify,
}

func init() {
	classifyCmd.Flags().BoolVar(&classifyJSON, "json", false, "Output result as JSON")
}

func runClassify(cmd *cobra.Command, args []string) error {
	target := "-"
	if len(args) == 1 {
		target = args[0]
	}

	doc, err := loadDocument(target)
	if err != nil {
		return err
	}

	c := classifier.New()
	contentType := c.ClassifyContentType(doc.Text)
	breaks := c.DetectBreaks(doc.Text)
	scores := c.ScoreBreaks(doc.Text)
	insight, _ := c.CoreInsight(doc.Text)

	if classifyJSON {
		out := map[string]any{
			"content_type": contentType,
			"breaks":       breaks,
			"scores":       scores,
		}
		if insight != "" {
			out["insight"] = insight
		}
		return json.NewEncoder(os.Stdout).Encode(out)
	}

	bold := color.New(color.Bold)
	_, _ = bold.Printf("Content Type: %s\n", contentType)
	fmt.Printf("Breaks: %d  Density: %.2f  Mean Confidence: %.2f\n",
		scores.BreakCount, scores.SurpriseDensity, scores.AverageConfidence)

	for _, b := range breaks {
		fmt.Printf("  [%s] %.2f at %d: %s\n", b.Type, b.Confidence, b.Position, b.Explanation)
	}
	if insight != "" {
		fmt.Printf("Core insight: %s\n", insight)
	}
	return nil
}
