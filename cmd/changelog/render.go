package main

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yuin/goldmark"
)

// renderCmd renders a release's notes to HTML, for release announcements.
var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a version's changelog entry as HTML",
	Long: `Render the changelog content for a specific version as an HTML fragment.

Example:
  changelog render --version 1.0.0 > notes.html`,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		version, _ := cmd.Flags().GetString("version")

		notes, err := loadNotes(file)
		if err != nil {
			return err
		}

		release := notes.Lookup(version)
		if release == nil {
			return fmt.Errorf("version %s not found in changelog", version)
		}

		html, err := RenderHTML(release)
		if err != nil {
			return fmt.Errorf("rendering release notes: %w", err)
		}

		fmt.Print(html)
		return nil
	},
}

// RenderHTML converts a release's heading and body to an HTML fragment.
func RenderHTML(release *Release) (string, error) {
	source := fmt.Sprintf("## %s", release.Version)
	if release.Date != "" {
		source += fmt.Sprintf(" - %s", release.Date)
	}
	source += "\n\n" + stripLinkDefinitions(release.Body) + "\n"

	var buf bytes.Buffer
	if err := goldmark.New().Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func init() {
	renderCmd.Flags().StringP("file", "f", "CHANGELOG.md", "Path to the changelog file")
	renderCmd.Flags().StringP("version", "v", "", "Version to render (with or without 'v' prefix)")
	_ = renderCmd.MarkFlagRequired("version")

	rootCmd.AddCommand(renderCmd)
}
