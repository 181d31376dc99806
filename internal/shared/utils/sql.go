package utils

import (
	"strings"
)

// JoinWithAnd joins a slice of where-clauses with AND operator
func JoinWithAnd(clauses []string) string {
	return strings.Join(clauses, " AND ")
}
