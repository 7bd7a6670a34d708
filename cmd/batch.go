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
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/valpere/prosemark/internal"
	"github.com/valpere/prosemark/internal/detector"
	"github.com/valpere/prosemark/internal/orchestrator"
	"github.com/valpere/prosemark/internal/store"
)

var (
	batchInputFile    string
	batchOutputFile   string
	batchContentCol   int
	batchKeyphraseCol int
	batchLocaleCol    int
	batchIDCol        int
	batchNoHeader     bool
	batchForms        string
	batchDictionary   bool
	batchStem         bool
	batchSave         bool
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Analyze every row of a CSV file",
	Long: `Analyze the HTML content of each CSV row against the keyphrase in another
column. Rows are analyzed in parallel, each with its own session, and the
output CSV repeats every input row followed by count, text_length and error
columns.

Example:
  prosemark batch -i posts.csv -o counts.csv --content-col 2 --keyphrase-col 1
  prosemark batch -i posts.csv -o counts.csv --content-col 2 --keyphrase-col 1 --locale-col 3 --workers 8`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if batchInputFile == batchOutputFile {
			return fmt.Errorf("input file and output file cannot be the same")
		}

		f, err := os.Open(batchInputFile)
		if err != nil {
			return fmt.Errorf("failed to open input CSV: %w", err)
		}
		defer f.Close()

		reader := csv.NewReader(f)
		reader.FieldsPerRecord = -1
		records, err := reader.ReadAll()
		if err != nil {
			return fmt.Errorf("failed to read CSV: %w", err)
		}
		if len(records) == 0 {
			return fmt.Errorf("CSV file is empty")
		}

		var header []string
		rows := records
		if !batchNoHeader {
			header, rows = records[0], records[1:]
		}

		reg, err := newRegistry()
		if err != nil {
			return err
		}
		provider, db, err := buildProvider(batchForms, viper.GetString("db"), batchDictionary || batchSave, batchStem)
		if err != nil {
			return err
		}
		if db != nil {
			defer db.Close()
		}

		defaultLocale := viper.GetString("locale")
		var det *detector.Detector
		papers := make([]internal.Paper, 0, len(rows))
		for i, row := range rows {
			id := strconv.Itoa(i + 1)
			if v := cell(row, batchIDCol); v != "" {
				id = v
			}
			content := cell(row, batchContentCol)
			loc := cell(row, batchLocaleCol)
			if loc == "" {
				loc = defaultLocale
			}
			if loc == "auto" {
				if det == nil {
					det = detector.New()
				}
				loc = resolveLocale(content, loc, det)
			}
			papers = append(papers, newPaper(id, content, loc, cell(row, batchKeyphraseCol)))
		}

		orch := orchestrator.New(reg, provider, orchestrator.OrchestratorConfig{
			Timeout: viper.GetDuration("timeout"),
			Workers: viper.GetInt("workers"),
		}, slog.Default())

		ctx := context.Background()
		fmt.Fprintf(os.Stderr, "Analyzing %d rows\n", len(papers))
		result := orch.Execute(ctx, papers)

		out := make([][]string, 0, len(records))
		if header != nil {
			out = append(out, append(append([]string{}, header...), "count", "text_length", "error"))
		}
		for i, o := range result.Outcomes {
			row := append([]string{}, rows[i]...)
			rec := store.AnalysisRecord{PaperID: o.PaperID, Locale: papers[i].Locale, Keyphrase: papers[i].Keyphrase}
			if o.Err != nil {
				fmt.Fprintf(os.Stderr, "Row %s: %v\n", o.PaperID, o.Err)
				row = append(row, "", "", o.Err.Error())
				rec.Error = o.Err.Error()
			} else {
				row = append(row, strconv.Itoa(o.Analysis.Count), strconv.Itoa(o.Analysis.TextLength), "")
				rec.MatchCount, rec.TextLength = o.Analysis.Count, o.Analysis.TextLength
			}
			out = append(out, row)

			if batchSave && db != nil {
				if _, err := db.SaveAnalysis(ctx, rec); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: failed to save row %s: %v\n", o.PaperID, err)
				}
			}
		}

		outFile, err := os.Create(batchOutputFile)
		if err != nil {
			return fmt.Errorf("failed to create output CSV: %w", err)
		}
		defer outFile.Close()

		writer := csv.NewWriter(outFile)
		if err := writer.WriteAll(out); err != nil {
			return fmt.Errorf("failed to write output CSV: %w", err)
		}
		if err := writer.Error(); err != nil {
			return fmt.Errorf("failed to flush output CSV: %w", err)
		}

		fmt.Printf("Analyzed %d rows (%d failed): %s\n", len(papers), result.Failed, batchOutputFile)
		return nil
	},
}

// cell returns row[i], or "" when i is negative or out of range.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVarP(&batchInputFile, "input", "i", "", "Input CSV file (required)")
	batchCmd.Flags().StringVarP(&batchOutputFile, "output", "o", "", "Output CSV file (required)")
	batchCmd.Flags().IntVar(&batchContentCol, "content-col", 0, "Column holding HTML content (0-indexed)")
	batchCmd.Flags().IntVar(&batchKeyphraseCol, "keyphrase-col", 1, "Column holding the keyphrase (0-indexed)")
	batchCmd.Flags().IntVar(&batchLocaleCol, "locale-col", -1, "Column holding the locale (default: --locale)")
	batchCmd.Flags().IntVar(&batchIDCol, "id-col", -1, "Column holding a row ID (default: row number)")
	batchCmd.Flags().BoolVar(&batchNoHeader, "no-header", false, "The first row is data, not a header")
	batchCmd.Flags().StringVar(&batchForms, "forms", "", "Keyphrase forms applied to every row, e.g. \"key,keys\"")
	batchCmd.Flags().BoolVar(&batchDictionary, "dictionary", false, "Add word forms stored in the database")
	batchCmd.Flags().BoolVar(&batchStem, "stem", false, "Add document words sharing a stem with each keyphrase word")
	batchCmd.Flags().BoolVar(&batchSave, "save", false, "Record results in the database history")
	batchCmd.Flags().Int("workers", 4, "Rows analyzed concurrently")
	batchCmd.Flags().Duration("timeout", 30*time.Second, "Per-row time limit (0 = none)")

	viper.BindPFlag("workers", batchCmd.Flags().Lookup("workers"))
	viper.BindPFlag("timeout", batchCmd.Flags().Lookup("timeout"))

	batchCmd.MarkFlagRequired("input")
	batchCmd.MarkFlagRequired("output")
}
