package config

import "fmt"

// Strictness selects how aggressively dead code is reported
type Strictness string

const (
	StrictnessRelaxed  Strictness = "relaxed"
	StrictnessStandard Strictness = "standard"
	StrictnessStrict   Strictness = "strict"
)

// minSeverityFor maps a strictness level to the reporting threshold
func minSeverityFor(strictness Strictness) string {
	switch strictness {
	case StrictnessRelaxed:
		return "critical"
	case StrictnessStrict:
		return "info"
	default:
		return DefaultDeadCodeMinSeverity
	}
}

// GetFullConfigTemplate returns a documented YAML configuration template
func GetFullConfigTemplate(strictness Strictness) string {
	return fmt.Sprintf(`# jflow configuration
# Control-flow graph analysis for Java source code.

# General analysis settings
analysis:
  # File patterns to include when walking directories
  include_patterns:
    - "*.java"

  # File patterns or directory names to skip
  exclude_patterns: []

  # Walk directories recursively
  recursive: true

  # Honor .gitignore rules when collecting files
  respect_gitignore: true

# Dead code detection
dead_code:
  # Report statement blocks that control flow can never reach
  enabled: true

  # Minimum severity to report: info, warning, critical
  min_severity: %s

  # Sort findings by: line, severity, function
  sort_by: line

# Output settings
output:
  # Output format: text, json, yaml, dot
  format: text

  # Include per-block detail in reports
  show_details: false

  # Sort functions by: name, location, findings
  sort_by: name

# Execution tuning
performance:
  # Concurrent file analyses (0 uses the default of %d)
  max_goroutines: %d

  # Abort a whole run after this many seconds
  timeout_seconds: %d
`, minSeverityFor(strictness), DefaultMaxGoroutines, DefaultMaxGoroutines, DefaultTimeoutSeconds)
}

// GetMinimalConfigTemplate returns a short configuration template with only
// the options most users change
func GetMinimalConfigTemplate() string {
	return fmt.Sprintf(`# jflow configuration
dead_code:
  enabled: true
  min_severity: %s

output:
  format: text
`, DefaultDeadCodeMinSeverity)
}
