package schema

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Candidate name patterns for column-role inference. Each list is ordered by
// priority: the first pattern that matches any column wins, regardless of
// column order. Hoisted into named data so tests can enumerate every case.
var (
	// IDPatterns is the fallback used when no primary key constraint exists.
	IDPatterns = []string{"ID", "_ID", "KEY", "PK"}

	// DepartmentPatterns identifies grouping/category columns, used as the
	// partition key for window function queries.
	DepartmentPatterns = []string{"DEPT", "DEPARTMENT", "CATEGORY", "TYPE", "GROUP"}

	// ManagerPatterns identifies parent references for hierarchical queries.
	ManagerPatterns = []string{"MANAGER", "PARENT", "SUPERVISOR", "BOSS"}

	// NamePatterns identifies display-name columns.
	NamePatterns = []string{"NAME", "TITLE", "DESCRIPTION", "LABEL"}

	// EmailPatterns identifies email address columns.
	EmailPatterns = []string{"EMAIL", "MAIL", "E_MAIL"}

	// AmountPatterns identifies monetary/measure columns, used as the order
	// key for window function queries.
	AmountPatterns = []string{"SALARY", "AMOUNT", "PRICE", "VALUE", "COST"}

	// JoinKeyCandidates are common key names tried when no referential
	// constraint links two tables. The exact same column name must exist in
	// both schemas.
	JoinKeyCandidates = []string{"ID", "DEPT_ID", "DEPARTMENT_ID", "CATEGORY_ID", "TYPE_ID"}
)

// patternOverrides mirrors the built-in lists for YAML override files. Only
// lists present in the file replace their defaults.
type patternOverrides struct {
	ID         []string `yaml:"id"`
	Department []string `yaml:"department"`
	Manager    []string `yaml:"manager"`
	Name       []string `yaml:"name"`
	Email      []string `yaml:"email"`
	Amount     []string `yaml:"amount"`
	JoinKeys   []string `yaml:"join_keys"`
}

// LoadPatternOverrides replaces role pattern lists with entries from a YAML
// file. Pattern entries are uppercased to match catalog column names. Call
// before any Discovery is constructed; the lists are read concurrently later.
func LoadPatternOverrides(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read pattern overrides: %w", err)
	}

	var overrides patternOverrides
	if err := yaml.Unmarshal(raw, &overrides); err != nil {
		return fmt.Errorf("parse pattern overrides: %w", err)
	}

	apply := func(target *[]string, src []string) {
		if len(src) == 0 {
			return
		}
		out := make([]string, len(src))
		for i, s := range src {
			out[i] = strings.ToUpper(strings.TrimSpace(s))
		}
		*target = out
	}

	apply(&IDPatterns, overrides.ID)
	apply(&DepartmentPatterns, overrides.Department)
	apply(&ManagerPatterns, overrides.Manager)
	apply(&NamePatterns, overrides.Name)
	apply(&EmailPatterns, overrides.Email)
	apply(&AmountPatterns, overrides.Amount)
	apply(&JoinKeyCandidates, overrides.JoinKeys)
	return nil
}
