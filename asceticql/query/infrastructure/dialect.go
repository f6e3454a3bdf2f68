package query

import (
	"encoding/hex"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/pkg/errors"

	"github.com/krew-solutions/ascetic-query-go/asceticql/query/domain/wildcard"
)

var ErrUnsupportedValue = errors.New("value cannot be formatted as a literal")

// RowLimit tells where a dialect puts the row limit.
type RowLimit int

const (
	// LimitClause appends LIMIT n after the statement.
	LimitClause RowLimit = iota
	// TopClause emits SELECT TOP n.
	TopClause
)

// Dialect is everything the compiler needs to know about a backend.
type Dialect interface {
	Name() string
	EscapeIdentifier(name string) string
	FormatValue(v any) (string, error)
	Placeholder(n int) string
	RowLimit() RowLimit
	PatternSyntax() wildcard.Syntax
}

type DialectOption func(*SQLDialect)

func Quotes(open, close string) DialectOption {
	return func(d *SQLDialect) {
		d.openQuote, d.closeQuote = open, close
	}
}

func WithRowLimit(style RowLimit) DialectOption {
	return func(d *SQLDialect) {
		d.rowLimit = style
	}
}

func WithPatternSyntax(syntax wildcard.Syntax) DialectOption {
	return func(d *SQLDialect) {
		d.patternSyntax = syntax
	}
}

// BackslashEscapes doubles backslashes inside string literals, for backends
// that treat the backslash as an escape character in strings.
func BackslashEscapes() DialectOption {
	return func(d *SQLDialect) {
		d.backslashEscapes = true
	}
}

func BoolLiterals(t, f string) DialectOption {
	return func(d *SQLDialect) {
		d.trueLiteral, d.falseLiteral = t, f
	}
}

func BytesFormat(format func([]byte) string) DialectOption {
	return func(d *SQLDialect) {
		d.formatBytes = format
	}
}

func TimeLayout(layout string) DialectOption {
	return func(d *SQLDialect) {
		d.timeLayout = layout
	}
}

func Placeholders(placeholder func(n int) string) DialectOption {
	return func(d *SQLDialect) {
		d.placeholder = placeholder
	}
}

// SQLDialect is a configurable Dialect. The zero configuration produced by
// NewDialect without options is ANSI-flavoured: double-quoted identifiers,
// LIMIT, TRUE/FALSE and '?' placeholders.
type SQLDialect struct {
	name             string
	openQuote        string
	closeQuote       string
	rowLimit         RowLimit
	patternSyntax    wildcard.Syntax
	backslashEscapes bool
	trueLiteral      string
	falseLiteral     string
	formatBytes      func([]byte) string
	timeLayout       string
	placeholder      func(n int) string
}

func NewDialect(name string, opts ...DialectOption) *SQLDialect {
	d := &SQLDialect{
		name:          name,
		openQuote:     `"`,
		closeQuote:    `"`,
		rowLimit:      LimitClause,
		patternSyntax: wildcard.SQLSyntax,
		trueLiteral:   "TRUE",
		falseLiteral:  "FALSE",
		formatBytes:   hexBlob,
		timeLayout:    "2006-01-02 15:04:05.999999999Z07:00",
		placeholder:   func(int) string { return "?" },
	}
	for i := range opts {
		opts[i](d)
	}
	return d
}

func (d *SQLDialect) Name() string {
	return d.name
}

func (d *SQLDialect) RowLimit() RowLimit {
	return d.rowLimit
}

func (d *SQLDialect) PatternSyntax() wildcard.Syntax {
	return d.patternSyntax
}

func (d *SQLDialect) Placeholder(n int) string {
	return d.placeholder(n)
}

// EscapeIdentifier quotes name, doubling any closing quote inside it.
func (d *SQLDialect) EscapeIdentifier(name string) string {
	return d.openQuote + strings.ReplaceAll(name, d.closeQuote, d.closeQuote+d.closeQuote) + d.closeQuote
}

func (d *SQLDialect) FormatValue(v any) (string, error) {
	switch v := Indirect(v).(type) {
	case nil:
		return "NULL", nil
	case bool:
		if v {
			return d.trueLiteral, nil
		}
		return d.falseLiteral, nil
	case int:
		return strconv.FormatInt(int64(v), 10), nil
	case int8:
		return strconv.FormatInt(int64(v), 10), nil
	case int16:
		return strconv.FormatInt(int64(v), 10), nil
	case int32:
		return strconv.FormatInt(int64(v), 10), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case float32:
		return formatFloat(float64(v), 32)
	case float64:
		return formatFloat(v, 64)
	case string:
		return d.quoteString(v), nil
	case []byte:
		return d.formatBytes(v), nil
	case time.Time:
		return d.quoteString(v.Format(d.timeLayout)), nil
	case uuid.UUID:
		return d.quoteString(v.String()), nil
	case ulid.ULID:
		return d.quoteString(v.String()), nil
	case fmt.Stringer:
		return d.quoteString(v.String()), nil
	}
	return d.formatKind(v)
}

// Indirect follows pointers to the value they hold. A nil pointer of any type
// yields nil. A pointer whose String method has a pointer receiver is kept.
func Indirect(v any) any {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		if _, ok := rv.Interface().(fmt.Stringer); ok {
			if _, ok := rv.Elem().Interface().(fmt.Stringer); !ok {
				break
			}
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return nil
	}
	return rv.Interface()
}

// formatKind handles named types over basic kinds, such as type Status string.
func (d *SQLDialect) formatKind(v any) (string, error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return d.FormatValue(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return d.FormatValue(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return d.FormatValue(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return d.FormatValue(rv.Float())
	case reflect.String:
		return d.FormatValue(rv.String())
	}
	return "", errors.Wrapf(ErrUnsupportedValue, "%s: %T", d.name, v)
}

func (d *SQLDialect) quoteString(s string) string {
	if d.backslashEscapes {
		s = strings.ReplaceAll(s, `\`, `\\`)
	}
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func formatFloat(f float64, bitSize int) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", errors.Wrapf(ErrUnsupportedValue, "%v", f)
	}
	return strconv.FormatFloat(f, 'g', -1, bitSize), nil
}

func hexBlob(b []byte) string {
	return "X'" + strings.ToUpper(hex.EncodeToString(b)) + "'"
}

func Postgres() *SQLDialect {
	return NewDialect("postgres",
		BytesFormat(func(b []byte) string { return `'\x` + hex.EncodeToString(b) + `'` }),
		Placeholders(func(n int) string { return "$" + strconv.Itoa(n) }),
	)
}

func MySQL() *SQLDialect {
	return NewDialect("mysql",
		Quotes("`", "`"),
		BackslashEscapes(),
		TimeLayout("2006-01-02 15:04:05.999999"),
	)
}

func SQLite() *SQLDialect {
	return NewDialect("sqlite",
		BoolLiterals("1", "0"),
	)
}

func SQLServer() *SQLDialect {
	return NewDialect("sqlserver",
		Quotes("[", "]"),
		WithRowLimit(TopClause),
		WithPatternSyntax(wildcard.TransactSQLSyntax),
		BoolLiterals("1", "0"),
		BytesFormat(func(b []byte) string { return "0x" + strings.ToUpper(hex.EncodeToString(b)) }),
		TimeLayout("2006-01-02T15:04:05.9999999"),
		Placeholders(func(n int) string { return "@p" + strconv.Itoa(n) }),
	)
}
