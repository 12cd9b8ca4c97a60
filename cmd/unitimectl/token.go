package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"unitime-backend/internal/auth"
)

func init() {
	var secret, userID, email, role string
	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for the /api/users routes",
		Long:  "Signs a token with the same secret the service reads from UNITIME_JWT_SECRET.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				secret = os.Getenv("UNITIME_JWT_SECRET")
			}
			v := auth.NewVerifier(secret)
			if v == nil {
				return fmt.Errorf("no signing secret: pass --secret or set UNITIME_JWT_SECRET")
			}
			tok, err := v.GenerateToken(userID, email, role)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, tok)
			return nil
		},
	}
	tokenCmd.Flags().StringVarP(&secret, "secret", "s", "", "Signing secret (defaults to UNITIME_JWT_SECRET)")
	tokenCmd.Flags().StringVarP(&userID, "user", "u", "", "User ID claim")
	tokenCmd.Flags().StringVarP(&email, "email", "e", "", "Email claim")
	tokenCmd.Flags().StringVarP(&role, "role", "r", "student", "Role claim")
	rootCmd.AddCommand(tokenCmd)
}
