package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func classifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify <message>",
		Short: "Classify a message into an intent",
		Long: `Run intent classification on a single message and print the detected
category, intent type, and confidence. Useful for debugging exemplars
and the keyword fallback.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runClassify,
	}
}

func runClassify(cmd *cobra.Command, args []string) error {
	classifier, err := initClassifier()
	if err != nil {
		return err
	}

	message := strings.Join(args, " ")
	result := classifier.Classify(cmd.Context(), message)

	fmt.Printf("message:    %s\n", message)
	fmt.Printf("category:   %s\n", result.Category)
	fmt.Printf("intent:     %s\n", result.Type)
	fmt.Printf("confidence: %.2f\n", result.Confidence)

	return nil
}
