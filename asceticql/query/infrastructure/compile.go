package query

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	q "github.com/krew-solutions/ascetic-query-go/asceticql/query/domain"
)

// Compile renders stmt as query text for dialect with every literal inlined.
// A positive maxRows overrides the statement's own row limit.
func Compile(stmt q.SelectStatement, maxRows int, dialect Dialect) (string, error) {
	c := compilation{dialect: dialect}
	if err := c.run(stmt, maxRows); err != nil {
		return "", err
	}
	return c.sb.String(), nil
}

// CompileWithParams is Compile with literals and patterns passed as bind
// parameters in the dialect's placeholder style.
func CompileWithParams(stmt q.SelectStatement, maxRows int, dialect Dialect) (string, []any, error) {
	c := compilation{dialect: dialect, bind: true}
	if err := c.run(stmt, maxRows); err != nil {
		return "", nil, err
	}
	return c.sb.String(), c.params, nil
}

type compilation struct {
	dialect Dialect
	bind    bool
	sb      strings.Builder
	params  []any
}

func (c *compilation) run(stmt q.SelectStatement, maxRows int) error {
	if err := stmt.Validate(); err != nil {
		return errors.Wrap(err, "compile")
	}
	limit := stmt.Limit()
	if maxRows > 0 {
		limit = maxRows
	}

	c.sb.WriteString("SELECT")
	if limit > 0 && c.dialect.RowLimit() == TopClause {
		c.sb.WriteString(" TOP " + strconv.Itoa(limit))
	}
	c.writeFields(stmt.Fields())

	c.sb.WriteString("\nFROM ")
	c.writeEntity(stmt.Entity())

	for i, join := range stmt.Joins() {
		c.sb.WriteString("\n" + join.Kind.String() + "\n ")
		c.writeEntity(join.Entity)
		c.sb.WriteString("\n ON ")
		tree := join.Constraint.Tree()
		if err := c.writeCondition(&tree); err != nil {
			return errors.Wrapf(err, "compile join %d", i)
		}
	}

	if filter, ok := stmt.Filter().Get(); ok {
		c.sb.WriteString("\nWHERE ")
		tree := filter.Tree()
		if err := c.writeCondition(&tree); err != nil {
			return errors.Wrap(err, "compile filter")
		}
	}

	if limit > 0 && c.dialect.RowLimit() == LimitClause {
		c.sb.WriteString("\nLIMIT " + strconv.Itoa(limit))
	}
	return nil
}

func (c *compilation) writeFields(items []q.SelectItem) {
	for i, item := range items {
		if i > 0 {
			c.sb.WriteByte(',')
		}
		c.sb.WriteString("\n ")
		switch item := item.(type) {
		case q.AllColumns:
			if e, ok := item.Entity().Get(); ok {
				c.sb.WriteString(c.dialect.EscapeIdentifier(e.AliasOrName()) + ".")
			}
			c.sb.WriteByte('*')
		case q.FieldRef:
			c.sb.WriteString(qualifiedName(c.dialect, item))
			if alias, ok := item.Alias().Get(); ok && alias != item.Name() {
				c.sb.WriteString(" AS " + c.dialect.EscapeIdentifier(alias))
			}
		}
	}
}

func (c *compilation) writeEntity(e q.Entity) {
	c.sb.WriteString(c.dialect.EscapeIdentifier(e.Name()))
	if alias, ok := e.Alias().Get(); ok {
		c.sb.WriteString(" " + c.dialect.EscapeIdentifier(alias))
	}
}

func (c *compilation) writeCondition(tree *q.ExpressionTree) error {
	var opts []SQLVisitorOption
	if c.bind {
		opts = append(opts, BindParameters(len(c.params)))
	}
	sql, params, err := CompileCondition(tree, c.dialect, opts...)
	if err != nil {
		return err
	}
	c.sb.WriteString(sql)
	c.params = append(c.params, params...)
	return nil
}
