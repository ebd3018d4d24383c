package cmd

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/iksnae/teampulse/internal"
	"github.com/spf13/cobra"
)

var schemaCmd = &cobra.Command{
	Use:   "schema [key]",
	Short: "Print the JSON Schema of the stored blobs",
	Long: `Print the JSON Schema of the blobs teampulse keeps in its store.

Without a key every schema is printed as an object keyed by store key.
Known keys: teamPulseData, emotionLogs.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")

		if len(args) == 1 {
			schema, ok := internal.FindBlobSchema(args[0])
			if !ok {
				var keys []string
				for _, s := range internal.BlobSchemas() {
					keys = append(keys, s.Key)
				}
				sort.Strings(keys)
				return &internal.ValidationError{Field: "key", Message: fmt.Sprintf("no schema for %q (known: %v)", args[0], keys)}
			}
			return enc.Encode(schema)
		}

		all := make(map[string]interface{})
		for _, s := range internal.BlobSchemas() {
			all[s.Key] = s.Schema
		}
		return enc.Encode(all)
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
