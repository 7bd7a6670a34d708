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
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/valpere/prosemark/internal/detector"
	"github.com/valpere/prosemark/internal/highlight"
	"github.com/valpere/prosemark/internal/render"
	"github.com/valpere/prosemark/internal/research"
	"github.com/valpere/prosemark/internal/store"
	"github.com/valpere/prosemark/internal/watch"
)

var (
	analyzeInput      string
	analyzeKeyphrase  string
	analyzeForms      string
	analyzeDictionary bool
	analyzeStem       bool
	analyzeMarkdown   bool
	analyzeStyle      string
	analyzeWatch      bool
	analyzeSave       bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Count a keyphrase and report highlight marks",
	Long: `Parse an HTML (or markdown) file, count occurrences of a keyphrase and print
the marks an editor would highlight.

Wrap the keyphrase in double quotes to request exact matching. Keyphrase
forms default to the literal words; --forms supplies inflections directly,
--dictionary adds forms stored with "prosemark forms add" and --stem adds
document words sharing a snowball stem.

Example:
  prosemark analyze -i post.html -k "key word" --forms "key,keys;word,words"
  prosemark analyze -i post.md --markdown -k '"exact phrase"' --locale auto
  prosemark analyze -i post.html -k İstanbul --locale tr_TR --watch`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if analyzeWatch && analyzeInput == "-" {
			return fmt.Errorf("--watch needs a file input")
		}
		style, err := render.ParseStyle(analyzeStyle)
		if err != nil {
			return err
		}
		format := viper.GetString("format")
		if format != "json" && format != "text" {
			return fmt.Errorf("unknown format %q (want json or text)", format)
		}

		reg, err := newRegistry()
		if err != nil {
			return err
		}
		provider, db, err := buildProvider(analyzeForms, viper.GetString("db"), analyzeDictionary || analyzeSave, analyzeStem)
		if err != nil {
			return err
		}
		if db != nil {
			defer db.Close()
		}

		var det *detector.Detector
		if viper.GetString("locale") == "auto" {
			det = detector.New()
		}

		session := research.NewSession(reg, slog.Default())
		paperID := "pm_" + uuid.NewString()
		run := func(ctx context.Context) error {
			markup, err := readInput(analyzeInput, analyzeMarkdown)
			if err != nil {
				return err
			}
			loc := resolveLocale(markup, viper.GetString("locale"), det)
			paper := newPaper(paperID, markup, loc, analyzeKeyphrase)

			a, err := session.Analyze(ctx, paper, provider)
			if err != nil {
				return fmt.Errorf("failed to analyze %s: %w", analyzeInput, err)
			}
			if analyzeSave && db != nil {
				if _, err := db.SaveAnalysis(ctx, store.AnalysisRecord{
					PaperID:    filepath.Base(analyzeInput),
					Locale:     loc,
					Keyphrase:  analyzeKeyphrase,
					MatchCount: a.Count,
					TextLength: a.TextLength,
				}); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: failed to save analysis: %v\n", err)
				}
			}
			return printAnalysis(os.Stdout, a, format, style)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := run(ctx); err != nil {
			return err
		}
		if !analyzeWatch {
			return nil
		}
		return watchAndRun(ctx, session, run)
	},
}

// watchAndRun re-runs the analysis on every change with a fresh cache.
func watchAndRun(ctx context.Context, session *research.Session, run func(context.Context) error) error {
	w, err := watch.New()
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer w.Stop()

	err = w.Watch(analyzeInput, func(path string) {
		session.Reset()
		fmt.Fprintf(os.Stderr, "\n%s changed, re-analyzing\n", path)
		if err := run(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", analyzeInput, err)
	}
	fmt.Fprintf(os.Stderr, "Watching %s (Ctrl-C to stop)\n", analyzeInput)
	<-ctx.Done()
	return nil
}

func printAnalysis(w io.Writer, a *research.Analysis, format string, style render.Style) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(a)
	}

	fmt.Fprintf(w, "Keyphrase:   %q", a.Keyphrase.Text)
	if a.Keyphrase.Exact {
		fmt.Fprint(w, " (exact)")
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Locale:      %s (%s)\n", a.Locale, a.Processor)
	fmt.Fprintf(w, "Forms:       %s\n", formatForms(a.Forms))
	fmt.Fprintf(w, "Text length: %d\n", a.TextLength)
	fmt.Fprintf(w, "Count:       %d\n", a.Count)

	for i, m := range a.Markings {
		fmt.Fprintf(w, "  [%d] %d-%d", i+1, m.Position.StartOffset, m.Position.EndOffset)
		if m.Position.StartOffsetBlock != nil {
			fmt.Fprintf(w, " (source %d-%d)", *m.Position.StartOffsetBlock, *m.Position.EndOffsetBlock)
		}
		fmt.Fprintf(w, ": %s\n", strings.TrimSpace(displayMarked(m, style)))
	}
	return nil
}

func displayMarked(m highlight.Mark, style render.Style) string {
	open, close := viper.GetString("delimiters.open"), viper.GetString("delimiters.close")
	if open != "" || close != "" {
		return render.Delimited(m.Marked, open, close)
	}
	return render.Marked(m.Marked, style)
}

func formatForms(forms [][]string) string {
	groups := make([]string, len(forms))
	for i, g := range forms {
		groups[i] = strings.Join(g, ",")
	}
	return strings.Join(groups, "; ")
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVarP(&analyzeInput, "input", "i", "", "Input file, or - for stdin (required)")
	analyzeCmd.Flags().StringVarP(&analyzeKeyphrase, "keyphrase", "k", "", "Keyphrase; wrap in double quotes for exact matching (required)")
	analyzeCmd.Flags().StringVar(&analyzeForms, "forms", "", "Keyphrase forms, e.g. \"key,keys;word,words\"")
	analyzeCmd.Flags().BoolVar(&analyzeDictionary, "dictionary", false, "Add word forms stored in the database")
	analyzeCmd.Flags().BoolVar(&analyzeStem, "stem", false, "Add document words sharing a stem with each keyphrase word")
	analyzeCmd.Flags().BoolVar(&analyzeMarkdown, "markdown", false, "Treat the input as markdown")
	analyzeCmd.Flags().StringP("format", "f", "text", "Output format: text or json")
	analyzeCmd.Flags().StringVar(&analyzeStyle, "style", "ansi", "Highlight style: plain, ansi, html or brackets")
	analyzeCmd.Flags().BoolVarP(&analyzeWatch, "watch", "w", false, "Re-analyze when the input file changes")
	analyzeCmd.Flags().BoolVar(&analyzeSave, "save", false, "Record the result in the database history")

	viper.BindPFlag("format", analyzeCmd.Flags().Lookup("format"))

	analyzeCmd.MarkFlagRequired("input")
	analyzeCmd.MarkFlagRequired("keyphrase")
}
