package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	var filePath, availableTime, studentData string
	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run an AI schedule analysis",
		RunE: func(cmd *cobra.Command, args []string) error {
			fields := map[string]string{
				"availableTime": availableTime,
				"studentData":   studentData,
			}
			data, err := doPostMultipart(apiFlag+"/api/analyze", fields, filePath)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	analyzeCmd.Flags().StringVarP(&filePath, "file", "f", "", "Schedule file (image, PDF or text)")
	analyzeCmd.Flags().StringVarP(&availableTime, "time", "t", "60", "Available minutes")
	analyzeCmd.Flags().StringVarP(&studentData, "student", "s", "{}", "Student data JSON")
	rootCmd.AddCommand(analyzeCmd)

	chatCmd := &cobra.Command{
		Use:   "chat PROMPT",
		Short: "Ask the UniTime assistant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doPostJSON(apiFlag+"/api/chat", map[string]string{"prompt": args[0]})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	rootCmd.AddCommand(chatCmd)
}
