package main

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/cobra"
)

var linkDefPattern = regexp.MustCompile(`(?m)^\[[^\]]+\]:\s+\S+\s*$`)

// stripLinkDefinitions removes link definition lines that trail a release body.
func stripLinkDefinitions(body string) string {
	var kept []string
	for _, line := range strings.Split(body, "\n") {
		if !linkDefPattern.MatchString(line) {
			kept = append(kept, line)
		}
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

func loadNotes(file string) (*Notes, error) {
	content, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	notes, err := ParseNotes(content)
	if err != nil {
		return nil, fmt.Errorf("parsing changelog: %w", err)
	}
	return notes, nil
}

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract a version's changelog entry",
	Long:  `Extract the changelog content for a specific version from a Keep a Changelog file.`,
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

		if release.Date != "" {
			fmt.Printf("## [%s] - %s\n\n", release.Version, release.Date)
		} else {
			fmt.Printf("## [%s]\n\n", release.Version)
		}

		fmt.Print(stripLinkDefinitions(release.Body))

		if url, ok := notes.Links[release.Version]; ok {
			fmt.Printf("\n\n[%s]: %s\n", release.Version, url)
		}

		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all versions in the changelog",
	Long:  `List all version entries found in a Keep a Changelog file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")

		notes, err := loadNotes(file)
		if err != nil {
			return err
		}

		for _, release := range notes.Releases {
			if release.Date != "" {
				fmt.Printf("%s (%s)\n", release.Version, release.Date)
			} else {
				fmt.Println(release.Version)
			}
		}

		return nil
	},
}

func init() {
	extractCmd.Flags().StringP("file", "f", "CHANGELOG.md", "Path to the changelog file")
	extractCmd.Flags().StringP("version", "v", "", "Version to extract (with or without 'v' prefix)")
	_ = extractCmd.MarkFlagRequired("version")

	listCmd.Flags().StringP("file", "f", "CHANGELOG.md", "Path to the changelog file")

	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(listCmd)
}
