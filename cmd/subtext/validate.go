package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/subtextlab/subtext/internal/validator"
)

var (
	validateJSON        bool
	validateNoCoercion  bool
	validateNoCoherence bool
)

var validateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Check a text for coercive rhetoric and coherence defects",
	Long: `Validate a text against the non-coercion and coherence rules.

Exits with status 1 when the text fails validation.

Examples:
  subtext validate ./copy.txt
  subtext validate - < draft.txt
  subtext validate ./copy.txt --skip-coherence`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "Output result as JSON")
	validateCmd.Flags().BoolVar(&validateNoCoercion, "skip-coercion", false, "Skip the non-coercion rule family")
	validateCmd.Flags().BoolVar(&validateNoCoherence, "skip-coherence", false, "Skip the coherence rule family")
}

func runValidate(cmd *cobra.Command, args []string) error {
	target := "-"
	if len(args) == 1 {
		target = args[0]
	}

	doc, err := loadDocument(target)
	if err != nil {
		return err
	}

	v := validator.New()
	opts := validator.Options{
		NonCoercion: !validateNoCoercion,
		Coherence:   !validateNoCoherence,
	}

	valid, violations := v.Validate(doc.Text, opts)
	coercionScore := v.CoercionScore(doc.Text)
	invitationScore := v.InvitationScore(doc.Text)
	reframeTip, _ := v.SuggestReframe(doc.Text)

	if validateJSON {
		out := map[string]any{
			"is_valid":         valid,
			"violations":       violations,
			"coercion_score":   coercionScore,
			"invitation_score": invitationScore,
		}
		if reframeTip != "" {
			out["reframe_tip"] = reframeTip
		}
		if err := json.NewEncoder(os.Stdout).Encode(out); err != nil {
			return err
		}
	} else {
		if valid {
			_, _ = color.New(color.FgGreen, color.Bold).Println("VALID")
		} else {
			_, _ = color.New(color.FgRed, color.Bold).Println("INVALID")
			for _, violation := range violations {
				fmt.Printf("  %s\n", violation)
			}
		}
		fmt.Printf("Coercion Score: %.2f\n", coercionScore)
		fmt.Printf("Invitation Score: %.2f\n", invitationScore)
		if reframeTip != "" {
			_, _ = color.New(color.FgYellow).Printf("Tip: %s\n", reframeTip)
		}
	}

	if !valid {
		// Non-zero exit without cobra's usage noise
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		os.Exit(1)
	}
	return nil
}
