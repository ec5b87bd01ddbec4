package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleNotes = `# Changelog

All notable changes to this project will be documented in this file.

The format is based on [Keep a Changelog](https://keepachangelog.com/en/1.1.0/),
and this project adheres to [Semantic Versioning](https://semver.org/spec/v2.0.0.html).

## [Unreleased]

### Added
- Object thumbnails

## [0.2.0] - 2026-03-10

### Added
- Full-text search over public impressions
- Owner reassignment

### Fixed
- Short id collisions on create

## [0.1.0] - 2026-01-20

### Added
- Initial release

[Unreleased]: https://github.com/immpres/immpres-server/compare/v0.2.0...HEAD
[0.2.0]: https://github.com/immpres/immpres-server/compare/v0.1.0...v0.2.0
[0.1.0]: https://github.com/immpres/immpres-server/releases/tag/v0.1.0
`

func TestParseNotes(t *testing.T) {
	notes, err := ParseNotes([]byte(sampleNotes))
	require.NoError(t, err)
	require.Len(t, notes.Releases, 3)

	assert.Equal(t, "Unreleased", notes.Releases[0].Version)
	assert.Empty(t, notes.Releases[0].Date)

	assert.Equal(t, "0.2.0", notes.Releases[1].Version)
	assert.Equal(t, "2026-03-10", notes.Releases[1].Date)
	assert.Contains(t, notes.Releases[1].Body, "Owner reassignment")

	assert.Len(t, notes.Links, 3)
	assert.Equal(t, "https://github.com/immpres/immpres-server/compare/v0.1.0...v0.2.0", notes.Links["0.2.0"])
}

func TestLookup(t *testing.T) {
	notes, _ := ParseNotes([]byte(sampleNotes))

	tests := []struct {
		name     string
		version  string
		expected string
	}{
		{"exact version", "0.2.0", "0.2.0"},
		{"with v prefix", "v0.2.0", "0.2.0"},
		{"older version", "0.1.0", "0.1.0"},
		{"unreleased", "Unreleased", "Unreleased"},
		{"non-existent", "9.9.9", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			release := notes.Lookup(tt.version)
			if tt.expected == "" {
				assert.Nil(t, release)
			} else {
				require.NotNil(t, release)
				assert.Equal(t, tt.expected, release.Version)
			}
		})
	}
}

func TestRenderHTML(t *testing.T) {
	notes, _ := ParseNotes([]byte(sampleNotes))
	release := notes.Lookup("0.2.0")
	require.NotNil(t, release)

	html, err := RenderHTML(release)
	require.NoError(t, err)
	assert.Contains(t, html, "<h2>0.2.0 - 2026-03-10</h2>")
	assert.Contains(t, html, "<li>Owner reassignment</li>")
}

func TestValidate_Valid(t *testing.T) {
	findings := Validate([]byte(sampleNotes))
	assert.True(t, findings.OK(), "Expected valid changelog, got issues: %v", findings.Issues)
}

func TestValidate_MissingTitle(t *testing.T) {
	notes := `## [Unreleased]

## [1.0.0] - 2026-01-15

### Added
- Something

[Unreleased]: https://example.com
[1.0.0]: https://example.com
`
	findings := Validate([]byte(notes))
	assert.False(t, findings.OK())
	assert.True(t, hasIssue(findings, "Missing changelog title (# Changelog)"))
}

func TestValidate_MissingUnreleased(t *testing.T) {
	notes := `# Changelog

## [1.0.0] - 2026-01-15

### Added
- Something

[1.0.0]: https://example.com
`
	findings := Validate([]byte(notes))
	assert.False(t, findings.OK())
	assert.True(t, hasIssue(findings, "Missing [Unreleased] section"))
}

func TestValidate_InvalidDate(t *testing.T) {
	notes := `# Changelog

## [Unreleased]

## [1.0.0] - 15-01-2026

### Added
- Something

[Unreleased]: https://example.com
[1.0.0]: https://example.com
`
	findings := Validate([]byte(notes))
	assert.False(t, findings.OK())
	assert.True(t, hasIssueContaining(findings, "ISO 8601"))
}

func TestValidate_InvalidChangeType(t *testing.T) {
	notes := `# Changelog

## [Unreleased]

### New
- Something

[Unreleased]: https://example.com
`
	findings := Validate([]byte(notes))
	assert.False(t, findings.OK())
	assert.True(t, hasIssueContaining(findings, "Invalid change type"))
}

func TestValidate_MissingLinkDefinition(t *testing.T) {
	notes := `# Changelog

## [Unreleased]

## [1.0.0] - 2026-01-15

### Added
- Something
`
	findings := Validate([]byte(notes))
	assert.False(t, findings.OK())
	assert.True(t, hasIssueContaining(findings, "Missing link definition for [Unreleased]"))
	assert.True(t, hasIssueContaining(findings, "Missing link definition for version [1.0.0]"))
}

func hasIssue(findings *Findings, message string) bool {
	for _, issue := range findings.Issues {
		if issue.Message == message {
			return true
		}
	}
	return false
}

func hasIssueContaining(findings *Findings, substr string) bool {
	for _, issue := range findings.Issues {
		if strings.Contains(issue.Message, substr) {
			return true
		}
	}
	return false
}
