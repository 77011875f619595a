package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	var contextFlag string
	analyzeCmd := &cobra.Command{
		Use:   "analyze TEXT...",
		Short: "Classify the emotion of a piece of text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]interface{}{"text": strings.Join(args, " ")}
			if contextFlag != "" {
				payload["context"] = contextFlag
			}
			data, err := doPostJSON("/api/ai/analyze-emotion", payload)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	analyzeCmd.Flags().StringVarP(&contextFlag, "context", "c", "", "Optional context for the text")
	rootCmd.AddCommand(analyzeCmd)
}
