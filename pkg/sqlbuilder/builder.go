// Package sqlbuilder generates Oracle-dialect DDL and DML statement text from
// validated, escaped inputs. Identifier and name validation fail fast;
// generated text is deterministic for a given input.
package sqlbuilder

import (
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/oraviz-inc/oraviz-engine/pkg/apperrors"
)

// Oracle identifier length limit.
const maxIdentifierLength = 30

// systemDatabases are tablespaces/databases that must never be dropped,
// force flag or not.
var systemDatabases = map[string]bool{
	"SYSTEM": true, "SYSAUX": true, "TEMP": true, "USERS": true,
	"EXAMPLE": true, "APEX": true, "HR": true, "OE": true,
	"PM": true, "IX": true, "SH": true, "BI": true,
}

// systemUsers are accounts that must never be created over or modified.
var systemUsers = map[string]bool{
	"SYS": true, "SYSTEM": true, "SYSAUX": true, "DBSNMP": true,
	"SYSMAN": true, "OUTLN": true, "DIP": true, "ORACLE_OCM": true,
	"APPQOSSYS": true,
}

var (
	identifierChars  = regexp.MustCompile(`[^a-zA-Z0-9_$]`)
	plainIdentifier  = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_$]*$`)
	databaseNameForm = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_$]*$`)
)

// Builder generates Oracle SQL text. It is stateless apart from its logger
// and safe for concurrent use.
type Builder struct {
	logger *zap.Logger
}

// NewBuilder creates a Builder. If logger is nil, a no-op logger is used.
func NewBuilder(logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{logger: logger.Named("sqlbuilder")}
}

// IsSystemDatabase reports whether the name belongs to the protected
// database set.
func IsSystemDatabase(name string) bool {
	return systemDatabases[strings.ToUpper(name)]
}

// IsSystemUser reports whether the name belongs to the protected user set.
func IsSystemUser(name string) bool {
	return systemUsers[strings.ToUpper(name)]
}

// escapeIdentifier strips all characters outside [A-Za-z0-9_$], then
// double-quotes the result when it would not stand alone as a plain Oracle
// identifier.
func escapeIdentifier(identifier string) (string, error) {
	if strings.TrimSpace(identifier) == "" {
		return "", fmt.Errorf("%w: identifier cannot be empty", apperrors.ErrInvalidIdentifier)
	}

	cleaned := identifierChars.ReplaceAllString(identifier, "")
	if cleaned == "" {
		return "", fmt.Errorf("%w: identifier %q has no valid characters", apperrors.ErrInvalidIdentifier, identifier)
	}

	if !plainIdentifier.MatchString(cleaned) {
		return `"` + cleaned + `"`, nil
	}
	return cleaned, nil
}

// escapePassword wraps a password in double quotes, doubling embedded quotes.
func escapePassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", fmt.Errorf("%w: password cannot be empty", apperrors.ErrInvalidIdentifier)
	}
	return `"` + strings.ReplaceAll(password, `"`, `""`) + `"`, nil
}

// validateDatabaseName checks length and format and rejects blanks.
func validateDatabaseName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: database name cannot be empty", apperrors.ErrInvalidIdentifier)
	}
	if len(name) > maxIdentifierLength {
		return fmt.Errorf("%w: database name %q", apperrors.ErrNameTooLong, name)
	}
	if !databaseNameForm.MatchString(name) {
		return fmt.Errorf("%w: invalid database name format %q", apperrors.ErrInvalidIdentifier, name)
	}
	return nil
}

// validateUsername checks length, blanks, and the protected user set.
func validateUsername(username string) error {
	if strings.TrimSpace(username) == "" {
		return fmt.Errorf("%w: username cannot be empty", apperrors.ErrInvalidIdentifier)
	}
	if IsSystemUser(username) {
		return fmt.Errorf("%w: %s", apperrors.ErrProtectedUser, username)
	}
	if len(username) > maxIdentifierLength {
		return fmt.Errorf("%w: username %q", apperrors.ErrNameTooLong, username)
	}
	return nil
}

// validateTableName checks length and blanks.
func validateTableName(table string) error {
	if strings.TrimSpace(table) == "" {
		return fmt.Errorf("%w: table name cannot be empty", apperrors.ErrInvalidIdentifier)
	}
	if len(table) > maxIdentifierLength {
		return fmt.Errorf("%w: table name %q", apperrors.ErrNameTooLong, table)
	}
	return nil
}

// hasSemicolonOutsideStrings reports whether text carries a semicolon outside
// single- or double-quoted regions, the telltale of a second statement smuggled
// into a pass-through clause. Used for advisory logging only.
func hasSemicolonOutsideStrings(text string) bool {
	const (
		stateNormal = iota
		stateSingle
		stateDouble
	)

	state := stateNormal
	for _, ch := range text {
		switch state {
		case stateNormal:
			switch ch {
			case ';':
				return true
			case '\'':
				state = stateSingle
			case '"':
				state = stateDouble
			}
		case stateSingle:
			if ch == '\'' {
				state = stateNormal
			}
		case stateDouble:
			if ch == '"' {
				state = stateNormal
			}
		}
	}
	return false
}
