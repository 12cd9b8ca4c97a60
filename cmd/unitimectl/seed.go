package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// seed loads a small demo dataset: two users with overlapping Monday
// schedules, a few scores and an assignment, enough to exercise free-time,
// gap and partner endpoints.
func init() {
	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Load a demo dataset into the service",
		RunE: func(cmd *cobra.Command, args []string) error {
			alice, err := seedUser("alice@demo.uni", "Alice")
			if err != nil {
				return err
			}
			bob, err := seedUser("bob@demo.uni", "Bob")
			if err != nil {
				return err
			}

			for _, userID := range []string{alice, bob} {
				for _, a := range []map[string]string{
					{"subject": "Mathematics", "day": "Monday", "startTime": "9:00 AM", "room": "B-204"},
					{"subject": "Physics", "day": "Monday", "startTime": "11:00 AM", "room": "C-101"},
					{"subject": "Chemistry", "day": "Monday", "startTime": "2:00 PM", "room": "Lab 2"},
				} {
					if _, err := doPostJSON(fmt.Sprintf("%s/api/users/%s/activities", apiFlag, userID), a); err != nil {
						return err
					}
				}
			}

			scores := []map[string]interface{}{
				{"subject": "Chemistry", "topic": "Stoichiometry", "score": 40, "maxScore": 100},
				{"subject": "Chemistry", "topic": "Bonding", "score": 45, "maxScore": 100},
				{"subject": "Mathematics", "topic": "Calculus", "score": 82, "maxScore": 100},
			}
			for _, s := range scores {
				if _, err := doPostJSON(fmt.Sprintf("%s/api/users/%s/scores", apiFlag, alice), s); err != nil {
					return err
				}
			}
			if _, err := doPostJSON(fmt.Sprintf("%s/api/users/%s/assignments", apiFlag, alice), map[string]interface{}{
				"subject": "Physics", "title": "Lab report 3", "status": "pending",
			}); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(os.Stdout, "seeded users %s and %s\n", alice, bob)
			return nil
		},
	}
	rootCmd.AddCommand(seedCmd)
}

func seedUser(email, name string) (string, error) {
	data, err := doPostJSON(apiFlag+"/api/users", map[string]string{
		"email":       email,
		"displayName": name,
	})
	if err != nil {
		return "", err
	}
	var user struct {
		UserID string `json:"userId"`
	}
	if err := json.Unmarshal(data, &user); err != nil {
		return "", err
	}
	return user.UserID, nil
}
