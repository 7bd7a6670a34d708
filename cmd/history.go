/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history [paper-id]",
	Short: "List saved analysis results",
	Long: `List analyses recorded with "analyze --save" or "batch --save", newest
first. Pass a paper ID (the input file name for analyze, the row ID for
batch) to show only its results.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		paperID := ""
		if len(args) == 1 {
			paperID = args[0]
		}
		records, err := db.ListAnalyses(context.Background(), paperID)
		if err != nil {
			return fmt.Errorf("failed to list analyses: %w", err)
		}
		if len(records) == 0 {
			fmt.Println("No saved analyses.")
			return nil
		}
		if historyLimit > 0 && len(records) > historyLimit {
			records = records[:historyLimit]
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "WHEN\tPAPER\tLOCALE\tKEYPHRASE\tCOUNT\tLENGTH\tERROR")
		for _, r := range records {
			kp := r.Keyphrase
			if len(kp) > 30 {
				kp = kp[:27] + "..."
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%s\n",
				r.CreatedAt.Format("2006-01-02 15:04"), r.PaperID, r.Locale, kp,
				r.MatchCount, r.TextLength, r.Error)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Show at most this many rows (0 = all)")
}
