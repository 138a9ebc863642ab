package logging

import (
	"regexp"
)

const (
	// MaxSQLLogLength is the maximum length of generated SQL to log.
	MaxSQLLogLength = 200
	// RedactedText is the replacement text for sensitive data.
	RedactedText = "[REDACTED]"
)

var (
	// Matches password clauses in generated DDL: IDENTIFIED BY "..." or a
	// bare word form.
	identifiedByPattern = regexp.MustCompile(`(?i)(IDENTIFIED BY )("((\\.)|[^"])*"|\S+)`)

	// Matches password values in connection strings: password=xxx, pwd=xxx.
	passwordPattern = regexp.MustCompile(`(?i)(password|pwd|pass)=[^;&\s]+`)

	// Matches connection string credentials in user:pass@host format.
	connStringPattern = regexp.MustCompile(`://[^:]+:[^@]+@[^/\s]+`)
)

// SanitizeSQL redacts password material from generated SQL text and truncates
// it for logging. Use this before logging any statement that may carry an
// IDENTIFIED BY clause.
func SanitizeSQL(sqlText string) string {
	if sqlText == "" {
		return ""
	}

	sanitized := identifiedByPattern.ReplaceAllString(sqlText, "${1}"+RedactedText)

	if len(sanitized) > MaxSQLLogLength {
		sanitized = sanitized[:MaxSQLLogLength] + "..."
	}
	return sanitized
}

// SanitizeConnectionString removes credentials from connection strings.
// Use this before logging any connection string.
func SanitizeConnectionString(connStr string) string {
	if connStr == "" {
		return ""
	}

	sanitized := passwordPattern.ReplaceAllString(connStr, "${1}="+RedactedText)
	sanitized = connStringPattern.ReplaceAllString(sanitized, "://"+RedactedText+"@"+RedactedText)
	return sanitized
}
