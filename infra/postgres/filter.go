package postgres

import (
	"fmt"
	"strings"
)

// conditions accumulates WHERE clauses with positional placeholders.
type conditions struct {
	clauses []string
	args    []any
}

// add appends clause, replacing every "?" with the next placeholder bound to
// value.
func (c *conditions) add(clause string, value any) {
	c.args = append(c.args, value)
	c.clauses = append(c.clauses, strings.ReplaceAll(clause, "?", fmt.Sprintf("$%d", len(c.args))))
}

func (c *conditions) where() string {
	if len(c.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(c.clauses, " AND ")
}

// page appends LIMIT and OFFSET placeholders and returns the clause with the
// full argument list.
func (c *conditions) page(limit, offset int) (string, []any) {
	args := append(append([]any{}, c.args...), limit, offset)
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args)), args
}

func contains(term string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + replacer.Replace(term) + "%"
}
