// internal/repository/repository.go
package repository

import (
	"strconv"
	"strings"
)

// Page is an offset/limit window for list queries. A zero Limit means no
// limit.
type Page struct {
	Limit  int
	Offset int
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

// likePattern wraps s for a case-insensitive ILIKE match, escaping the
// wildcard characters a user might type.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}
