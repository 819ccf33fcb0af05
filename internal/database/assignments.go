package database

import (
	"fmt"
	"strings"
)

// Assignments collects "column = $n" pairs for partial UPDATE statements.
type Assignments struct {
	cols []string
	args []any
}

func (a *Assignments) Add(column string, value any) {
	a.args = append(a.args, value)
	a.cols = append(a.cols, fmt.Sprintf("%s = $%d", column, len(a.args)))
}

func (a *Assignments) Len() int {
	return len(a.cols)
}

// SQL returns the SET list and its arguments followed by extra. The placeholder
// index of extra[i] is Len()+i+1.
func (a *Assignments) SQL(extra ...any) (string, []any) {
	args := make([]any, 0, len(a.args)+len(extra))
	args = append(args, a.args...)
	args = append(args, extra...)
	return strings.Join(a.cols, ", "), args
}
