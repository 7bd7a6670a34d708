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
	"github.com/spf13/viper"

	"github.com/valpere/prosemark/internal/store"
)

var formsCmd = &cobra.Command{
	Use:   "forms",
	Short: "Manage the word form dictionary",
	Long: `Add, list, and delete word forms used by "analyze --dictionary".

A word form records that a surface form (e.g. "keys") counts as the same
word as a keyphrase word (e.g. "key") in one locale.`,
}

var formsLocale string

func openStore() (*store.Store, error) {
	db, err := store.New(viper.GetString("db"))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

var formsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored word forms",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		entries, err := db.ListForms(context.Background(), formsLocale)
		if err != nil {
			return fmt.Errorf("failed to list forms: %w", err)
		}
		if len(entries) == 0 {
			fmt.Println("Dictionary is empty.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tLOCALE\tWORD\tFORM")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.ID, e.Locale, e.Word, e.Form)
		}
		return w.Flush()
	},
}

var formsAddCmd = &cobra.Command{
	Use:   "add <word> <form>...",
	Short: "Add forms of a word",
	Long: `Add one or more forms of a keyphrase word.

Example:
  prosemark forms add key keys keyed --lang en
  prosemark forms add Wort Worte Wörter --lang de`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if formsLocale == "" {
			return fmt.Errorf("--lang flag is required")
		}
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.AddForms(context.Background(), formsLocale, args[0], args[1:]); err != nil {
			return fmt.Errorf("failed to add forms: %w", err)
		}
		fmt.Printf("Added: [%s] %q → %q\n", formsLocale, args[0], args[1:])
		return nil
	},
}

var formsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a word form by ID",
	Long: `Delete a word form by its ID (shown in "prosemark forms list").

Example:
  prosemark forms delete wf_0b6f3a9e-4c1d-4d8e-9a57-2f1c3d5e7a90`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.DeleteForm(context.Background(), args[0]); err != nil {
			return fmt.Errorf("failed to delete form: %w", err)
		}
		fmt.Printf("Deleted word form: %s\n", args[0])
		return nil
	},
}

var formsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all word forms, or those of one locale",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		n, err := db.ClearForms(context.Background(), formsLocale)
		if err != nil {
			return fmt.Errorf("failed to clear forms: %w", err)
		}
		fmt.Printf("Deleted %d word forms\n", n)
		return nil
	},
}

var formsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the number of stored word forms",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		n, err := db.CountForms(context.Background())
		if err != nil {
			return fmt.Errorf("failed to count forms: %w", err)
		}
		fmt.Printf("Word forms: %d\n", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(formsCmd)

	formsCmd.PersistentFlags().StringVarP(&formsLocale, "lang", "l", "", "Locale of the forms (e.g. en, de)")

	formsCmd.AddCommand(formsListCmd)
	formsCmd.AddCommand(formsAddCmd)
	formsCmd.AddCommand(formsDeleteCmd)
	formsCmd.AddCommand(formsClearCmd)
	formsCmd.AddCommand(formsStatsCmd)
}
