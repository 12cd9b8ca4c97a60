package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	requestsCmd := &cobra.Command{Use: "requests", Short: "Study request operations"}

	var subject, message string
	sendCmd := &cobra.Command{
		Use:   "send FROM_USER TO_USER",
		Short: "Send a study request",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]string{
				"toUser":  args[1],
				"subject": subject,
				"message": message,
			}
			data, err := doPostJSON(fmt.Sprintf("%s/api/users/%s/study-requests", apiFlag, args[0]), payload)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	sendCmd.Flags().StringVarP(&subject, "subject", "s", "", "Subject to study together")
	sendCmd.Flags().StringVarP(&message, "message", "m", "", "Message to the partner")
	requestsCmd.AddCommand(sendCmd)

	statusCmd := &cobra.Command{
		Use:   "status REQUEST_ID STATUS",
		Short: "Update a study request (accepted or declined)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doPatchJSON(fmt.Sprintf("%s/api/study-requests/%s/status", apiFlag, args[0]),
				map[string]string{"status": args[1]})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	requestsCmd.AddCommand(statusCmd)

	rootCmd.AddCommand(requestsCmd)
}
