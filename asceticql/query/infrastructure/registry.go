package query

import (
	"slices"
	"strings"

	"github.com/pkg/errors"
)

var ErrUnknownDialect = errors.New("unknown dialect")

// DialectRegistry maps driver and dialect tags to dialects.
type DialectRegistry struct {
	dialects map[string]Dialect
}

func NewDialectRegistry() *DialectRegistry {
	return &DialectRegistry{
		dialects: make(map[string]Dialect),
	}
}

// DefaultDialects knows the dialects of the bundled drivers under both their
// dialect and driver names.
func DefaultDialects() *DialectRegistry {
	return NewDialectRegistry().
		Register(Postgres(), "postgres", "postgresql", "pgx").
		Register(MySQL(), "mysql").
		Register(SQLite(), "sqlite", "sqlite3").
		Register(SQLServer(), "sqlserver", "mssql")
}

// Register files d under its name and every extra tag. Tags are case-insensitive.
func (r *DialectRegistry) Register(d Dialect, tags ...string) *DialectRegistry {
	r.dialects[normalizeTag(d.Name())] = d
	for _, tag := range tags {
		r.dialects[normalizeTag(tag)] = d
	}
	return r
}

func (r *DialectRegistry) Get(tag string) (Dialect, bool) {
	d, ok := r.dialects[normalizeTag(tag)]
	return d, ok
}

func (r *DialectRegistry) Lookup(tag string) (Dialect, error) {
	d, ok := r.Get(tag)
	if !ok {
		return nil, errors.Wrapf(ErrUnknownDialect, "%q (known: %s)", tag, strings.Join(r.Tags(), ", "))
	}
	return d, nil
}

// Tags returns every registered tag in sorted order.
func (r *DialectRegistry) Tags() []string {
	tags := make([]string, 0, len(r.dialects))
	for tag := range r.dialects {
		tags = append(tags, tag)
	}
	slices.Sort(tags)
	return tags
}

func normalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}
