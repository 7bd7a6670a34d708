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
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/valpere/prosemark/internal/parse"
	"github.com/valpere/prosemark/internal/research"
)

var (
	treeInput    string
	treeMarkdown bool
	treeProse    bool
)

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Print the offset-annotated tree of a file as JSON",
	Long: `Parse an HTML (or markdown) file and print its tree: element, text and
comment nodes with source ranges, implicit paragraphs, excluded subtrees and
the sentences of every paragraph.

Example:
  prosemark tree -i post.html
  prosemark tree -i post.html --prose --locale ja`,
	RunE: func(cmd *cobra.Command, args []string) error {
		markup, err := readInput(treeInput, treeMarkdown)
		if err != nil {
			return err
		}
		reg, err := newRegistry()
		if err != nil {
			return err
		}
		loc := resolveLocale(markup, viper.GetString("locale"), nil)

		session := research.NewSession(reg, slog.Default())
		root := session.Build(newPaper(treeInput, markup, loc, ""))
		if err := parse.Validate(root, len(markup)); err != nil {
			return fmt.Errorf("failed to build tree: %w", err)
		}

		var v any = root
		if treeProse {
			v = parse.Prose(root)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(v)
	},
}

func init() {
	rootCmd.AddCommand(treeCmd)

	treeCmd.Flags().StringVarP(&treeInput, "input", "i", "", "Input file, or - for stdin (required)")
	treeCmd.Flags().BoolVar(&treeMarkdown, "markdown", false, "Treat the input as markdown")
	treeCmd.Flags().BoolVar(&treeProse, "prose", false, "Print only the prose elements")

	treeCmd.MarkFlagRequired("input")
}
