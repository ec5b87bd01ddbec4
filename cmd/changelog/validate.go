package main

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/cobra"
)

// Issue is a single validation finding.
type Issue struct {
	Line    int
	Message string
}

// Findings collects validation issues for one file.
type Findings struct {
	Issues []Issue
}

func (f *Findings) add(line int, message string) {
	f.Issues = append(f.Issues, Issue{Line: line, Message: message})
}

// OK reports whether the file passed validation.
func (f *Findings) OK() bool {
	return len(f.Issues) == 0
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a changelog follows Keep a Changelog spec",
	Long: `Validate that a changelog file follows the Keep a Changelog specification.

Checks include:
- File has a title (# Changelog)
- Has an [Unreleased] section
- Version entries use correct format: ## [X.Y.Z] - YYYY-MM-DD
- Dates are in ISO 8601 format (YYYY-MM-DD)
- Change types are valid (Added, Changed, Deprecated, Removed, Fixed, Security)
- Link definitions exist for all versions`,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")

		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("reading file: %w", err)
		}

		findings := Validate(content)

		if findings.OK() {
			fmt.Println("✓ Changelog is valid")
			return nil
		}

		fmt.Printf("Found %d issue(s):\n\n", len(findings.Issues))
		for _, issue := range findings.Issues {
			if issue.Line > 0 {
				fmt.Printf("  Line %d: %s\n", issue.Line, issue.Message)
			} else {
				fmt.Printf("  %s\n", issue.Message)
			}
		}

		os.Exit(1)
		return nil
	},
}

var (
	dateRegex    = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	versionRegex = regexp.MustCompile(`^\d+\.\d+\.\d+$`)
	validTypes   = map[string]bool{
		"Added":      true,
		"Changed":    true,
		"Deprecated": true,
		"Removed":    true,
		"Fixed":      true,
		"Security":   true,
	}
)

// Validate checks a changelog against the Keep a Changelog spec.
func Validate(source []byte) *Findings {
	findings := &Findings{}

	hasTitle := false
	hasUnreleased := false
	versions := make(map[string]bool)

	notes, _ := ParseNotes(source)

	for i, line := range strings.Split(string(source), "\n") {
		lineNum := i + 1
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "# ") {
			hasTitle = true
			if !strings.Contains(strings.ToLower(trimmed), "changelog") {
				findings.add(lineNum, "Title should contain 'Changelog'")
			}
		}

		if strings.HasPrefix(trimmed, "## [") {
			end := strings.Index(trimmed, "]")
			if end > 4 {
				version := trimmed[4:end]

				if strings.ToLower(version) == "unreleased" {
					hasUnreleased = true
				} else {
					versions[version] = true

					if !versionRegex.MatchString(version) {
						findings.add(lineNum, fmt.Sprintf("Version '%s' should follow semantic versioning (X.Y.Z)", version))
					}

					if strings.Contains(trimmed, " - ") {
						parts := strings.SplitN(trimmed[end+1:], " - ", 2)
						if len(parts) == 2 {
							date := strings.TrimSpace(parts[1])
							if !dateRegex.MatchString(date) {
								findings.add(lineNum, fmt.Sprintf("Date '%s' should be in ISO 8601 format (YYYY-MM-DD)", date))
							}
						}
					} else {
						findings.add(lineNum, fmt.Sprintf("Version '%s' is missing a release date", version))
					}
				}
			}
		}

		if strings.HasPrefix(trimmed, "### ") {
			changeType := strings.TrimPrefix(trimmed, "### ")
			if !validTypes[changeType] {
				findings.add(lineNum, fmt.Sprintf("Invalid change type '%s'. Valid types: Added, Changed, Deprecated, Removed, Fixed, Security", changeType))
			}
		}
	}

	if !hasTitle {
		findings.add(0, "Missing changelog title (# Changelog)")
	}

	if !hasUnreleased {
		findings.add(0, "Missing [Unreleased] section")
	}

	if notes != nil {
		for version := range versions {
			if _, ok := notes.Links[version]; !ok {
				findings.add(0, fmt.Sprintf("Missing link definition for version [%s]", version))
			}
		}

		if hasUnreleased {
			if _, ok := notes.Links["Unreleased"]; !ok {
				findings.add(0, "Missing link definition for [Unreleased]")
			}
		}
	}

	return findings
}

func init() {
	validateCmd.Flags().StringP("file", "f", "CHANGELOG.md", "Path to the changelog file")
	rootCmd.AddCommand(validateCmd)
}
