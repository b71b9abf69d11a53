package commands

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gcbaptista/agency-finder/internal/matcher"
	"github.com/gcbaptista/agency-finder/model"
)

// SearchCmd runs one search against the configured backend and prints the result as JSON.
var SearchCmd = &cobra.Command{
	Use:   "search <business name>",
	Short: "Find existing agencies matching a business name",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := model.AgencyQuery{BusinessName: strings.Join(args, " ")}
		for flag, target := range map[string]**string{
			"suburb":   &query.Suburb,
			"state":    &query.State,
			"postcode": &query.Postcode,
		} {
			if v, _ := cmd.Flags().GetString(flag); v != "" {
				*target = model.StringPtr(v)
			}
		}
		query.MaxResults, _ = cmd.Flags().GetInt("max-results")

		backend, _, err := openBackend(Settings.Backend)
		if err != nil {
			return err
		}

		result, err := matcher.NewService(backend, Settings.Search).Find(cmd.Context(), query)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	SearchCmd.Flags().String("suburb", "", "Suburb typed alongside the name")
	SearchCmd.Flags().String("state", "", "State typed alongside the name")
	SearchCmd.Flags().String("postcode", "", "Postcode typed alongside the name")
	SearchCmd.Flags().Int("max-results", 0, "Keep only the top N matches")
}
