package query

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"slices"
	"strconv"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"

	"github.com/krew-solutions/ascetic-query-go/asceticql/option"
	q "github.com/krew-solutions/ascetic-query-go/asceticql/query/domain"
)

const DefaultCacheSize = 128

type CompilerOption func(*Compiler)

// WithCacheSize bounds the number of compiled statements kept. Zero disables
// caching.
func WithCacheSize(size int) CompilerOption {
	return func(c *Compiler) {
		c.cacheSize = size
	}
}

func WithLogger(logger *slog.Logger) CompilerOption {
	return func(c *Compiler) {
		c.logger = logger
	}
}

func WithRegistry(registry *DialectRegistry) CompilerOption {
	return func(c *Compiler) {
		c.registry = registry
	}
}

// Compiled is the cached outcome of one compilation.
type Compiled struct {
	SQL    string
	Params []any
}

// Compiler compiles statements by dialect tag and remembers the results.
// It is safe for concurrent use.
type Compiler struct {
	registry  *DialectRegistry
	logger    *slog.Logger
	cacheSize int
	cache     *lru.Cache[string, Compiled]
}

func NewCompiler(opts ...CompilerOption) (*Compiler, error) {
	c := &Compiler{
		registry:  DefaultDialects(),
		logger:    slog.Default(),
		cacheSize: DefaultCacheSize,
	}
	for i := range opts {
		opts[i](c)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if c.cacheSize > 0 {
		cache, err := lru.New[string, Compiled](c.cacheSize)
		if err != nil {
			return nil, errors.Wrap(err, "compile cache")
		}
		c.cache = cache
	}
	return c, nil
}

func (c *Compiler) Dialect(tag string) (Dialect, error) {
	return c.registry.Lookup(tag)
}

// Compile renders stmt for the dialect registered under tag, inlining literals.
func (c *Compiler) Compile(stmt q.SelectStatement, maxRows int, tag string) (string, error) {
	compiled, err := c.compile(stmt, maxRows, tag, false)
	return compiled.SQL, err
}

// CompileWithParams renders stmt with bind parameters.
func (c *Compiler) CompileWithParams(stmt q.SelectStatement, maxRows int, tag string) (string, []any, error) {
	compiled, err := c.compile(stmt, maxRows, tag, true)
	return compiled.SQL, compiled.Params, err
}

func (c *Compiler) compile(stmt q.SelectStatement, maxRows int, tag string, bind bool) (Compiled, error) {
	dialect, err := c.registry.Lookup(tag)
	if err != nil {
		return Compiled{}, err
	}
	key := cacheKey(stmt, maxRows, dialect.Name(), bind)
	if c.cache != nil {
		if hit, ok := c.cache.Get(key); ok {
			c.logger.Debug("compile cache hit", "dialect", dialect.Name(), "key", key[:12])
			hit.Params = slices.Clone(hit.Params)
			return hit, nil
		}
	}

	var compiled Compiled
	if bind {
		compiled.SQL, compiled.Params, err = CompileWithParams(stmt, maxRows, dialect)
	} else {
		compiled.SQL, err = Compile(stmt, maxRows, dialect)
	}
	if err != nil {
		c.logger.Warn("compile failed", "dialect", dialect.Name(), "entity", stmt.Entity().Name(), "error", err)
		return Compiled{}, err
	}
	c.logger.Debug("compiled statement", "dialect", dialect.Name(), "entity", stmt.Entity().Name(), "params", len(compiled.Params))
	if c.cache != nil {
		c.cache.Add(key, compiled)
	}
	return compiled, nil
}

// Tags lists the dialect tags the compiler accepts.
func (c *Compiler) Tags() []string {
	return c.registry.Tags()
}

// Len is the number of cached compilations.
func (c *Compiler) Len() int {
	if c.cache == nil {
		return 0
	}
	return c.cache.Len()
}

func (c *Compiler) Purge() {
	if c.cache != nil {
		c.cache.Purge()
	}
}

func cacheKey(stmt q.SelectStatement, maxRows int, dialect string, bind bool) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%d|%t|", dialect, maxRows, bind)
	writeFingerprint(h, stmt)
	return hex.EncodeToString(h.Sum(nil))
}

// Fingerprint identifies a statement by its structure and literal values.
// Statements with equal fingerprints compile to the same text.
func Fingerprint(stmt q.SelectStatement) string {
	h := sha256.New()
	writeFingerprint(h, stmt)
	return hex.EncodeToString(h.Sum(nil))
}

type fingerprintVisitor struct {
	q.BaseVisitor
	w io.Writer
}

func (v fingerprintVisitor) Preorder(n q.Node) error {
	switch n := n.Value.(type) {
	case q.LiteralNode:
		value := Indirect(n.Literal.Value())
		if s, ok := value.(fmt.Stringer); ok && reflect.ValueOf(value).Kind() == reflect.Pointer {
			_, err := fmt.Fprintf(v.w, "(lit %T %q)", value, s.String())
			return err
		}
		_, err := fmt.Fprintf(v.w, "(lit %T %#v)", value, value)
		return err
	case q.FieldNode:
		_, err := fmt.Fprintf(v.w, "(field %s)", fieldKey(n.Field))
		return err
	case q.PatternNode:
		_, err := fmt.Fprintf(v.w, "(pattern %q)", n.Pattern.Text())
		return err
	default:
		_, err := fmt.Fprintf(v.w, "(%v", n)
		return err
	}
}

func (v fingerprintVisitor) Postorder(n q.Node) error {
	if n.IsCondition() {
		_, err := io.WriteString(v.w, ")")
		return err
	}
	return nil
}

func writeFingerprint(w io.Writer, stmt q.SelectStatement) {
	e := stmt.Entity()
	fmt.Fprintf(w, "from %s;", entityKey(e))
	for _, item := range stmt.Fields() {
		switch item := item.(type) {
		case q.FieldRef:
			fmt.Fprintf(w, "field %s;", fieldKey(item))
		case q.AllColumns:
			if e, ok := item.Entity().Get(); ok {
				fmt.Fprintf(w, "all %s;", entityKey(e))
			} else {
				io.WriteString(w, "all;")
			}
		}
	}
	for _, join := range stmt.Joins() {
		fmt.Fprintf(w, "%s %s on ", join.Kind, entityKey(join.Entity))
		tree := join.Constraint.Tree()
		_ = q.Walk(&tree, fingerprintVisitor{w: w})
		io.WriteString(w, ";")
	}
	if filter, ok := stmt.Filter().Get(); ok {
		io.WriteString(w, "where ")
		tree := filter.Tree()
		_ = q.Walk(&tree, fingerprintVisitor{w: w})
		io.WriteString(w, ";")
	}
	fmt.Fprintf(w, "limit %d", stmt.Limit())
}

func entityKey(e q.Entity) string {
	return fmt.Sprintf("%q %s", e.Name(), optionKey(e.Alias()))
}

func fieldKey(f q.FieldRef) string {
	return fmt.Sprintf("%q %s %s %s", f.Name(), optionKey(f.EntityName()), optionKey(f.EntityAlias()), optionKey(f.Alias()))
}

// optionKey quotes the value so that no name can imitate another's key.
func optionKey(o option.Option[string]) string {
	if v, ok := o.Get(); ok {
		return strconv.Quote(v)
	}
	return "-"
}
