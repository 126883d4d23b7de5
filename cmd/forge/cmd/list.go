package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/PerryB-GIT/support-forge-app-sub000/internal/core"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available modules, bundles and skills",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}
		defer d.close()

		out := cmd.OutOrStdout()
		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			return writeCatalogJSON(out, d.catalog)
		}
		writeCatalogText(out, d.catalog)
		return nil
	},
}

func init() {
	listCmd.Flags().Bool("json", false, "Output as JSON for scripting")
	rootCmd.AddCommand(listCmd)
}

type catalogListing struct {
	Modules []moduleListing `json:"modules"`
	Bundles []core.Bundle   `json:"bundles"`
	Skills  []core.Skill    `json:"skills"`
}

type moduleListing struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Category     string   `json:"category"`
	RequiresAuth bool     `json:"requiresAuth"`
	Credentials  []string `json:"credentials,omitempty"`
	Supported    bool     `json:"supported"`
}

func writeCatalogJSON(w io.Writer, cat *core.Catalog) error {
	listing := catalogListing{
		Modules: []moduleListing{},
		Bundles: cat.Bundles(),
		Skills:  cat.Skills(),
	}
	for _, m := range cat.Modules() {
		item := moduleListing{
			ID:           m.ID,
			Name:         m.Name,
			Description:  m.Description,
			Category:     m.Category,
			RequiresAuth: m.RequiresAuth,
			Supported:    m.SupportsPlatform(runtime.GOOS),
		}
		for _, f := range m.Auth {
			item.Credentials = append(item.Credentials, f.Name)
		}
		listing.Modules = append(listing.Modules, item)
	}
	if listing.Bundles == nil {
		listing.Bundles = []core.Bundle{}
	}
	if listing.Skills == nil {
		listing.Skills = []core.Skill{}
	}

	data, err := json.MarshalIndent(listing, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling catalog: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func writeCatalogText(w io.Writer, cat *core.Catalog) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "MODULES")
	for _, category := range cat.Categories() {
		fmt.Fprintf(tw, "  %s\n", category)
		for _, m := range cat.ModulesInCategory(category) {
			var notes []string
			if m.RequiresAuth {
				notes = append(notes, "needs credentials")
			}
			if !m.SupportsPlatform(runtime.GOOS) {
				notes = append(notes, "not available on "+runtime.GOOS)
			}
			note := ""
			if len(notes) > 0 {
				note = "(" + strings.Join(notes, "; ") + ")"
			}
			fmt.Fprintf(tw, "    %s\t%s\t%s\n", m.ID, m.Description, note)
		}
	}

	fmt.Fprintln(tw, "\nBUNDLES")
	for _, b := range cat.Bundles() {
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", b.ID, b.Description, joinStrings(b.Modules))
	}

	if skills := cat.Skills(); len(skills) > 0 {
		fmt.Fprintln(tw, "\nSKILLS")
		for _, s := range skills {
			fmt.Fprintf(tw, "  %s\t%s\t\n", s.ID, s.Description)
		}
	}
	_ = tw.Flush()
}
