package core

import (
	"fmt"
	"strings"
)

// updateSet accumulates "column = $n" clauses for a partial UPDATE.
type updateSet struct {
	clauses []string
	args    []any
}

func (u *updateSet) add(column string, value any) {
	u.args = append(u.args, value)
	u.clauses = append(u.clauses, fmt.Sprintf("%s = $%d", column, len(u.args)))
}

func setIfPresent[T any](u *updateSet, column string, v *T) {
	if v != nil {
		u.add(column, *v)
	}
}

func (u *updateSet) empty() bool {
	return len(u.clauses) == 0
}

// build returns the SET list plus the placeholder index for the next argument.
func (u *updateSet) build() (string, int) {
	return strings.Join(append(u.clauses, "updated_at = now()"), ", "), len(u.args) + 1
}
