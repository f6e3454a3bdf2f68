// Package document reads select statements from YAML. A document is
// structured data mirroring the statement builder; it is not query text.
//
//	from: {entity: customers, alias: c}
//	select: [c.id, {field: c.name, as: customer}, "o.*"]
//	joins:
//	  - {kind: left, entity: orders, alias: o, on: {field: o.customer_id, op: "=", ref: c.id}}
//	where:
//	  and:
//	    - {field: o.total, op: ">", value: 100}
//	    - {field: c.name, op: like, pattern: "J?n*"}
//	limit: 50
package document

import (
	"bytes"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	q "github.com/krew-solutions/ascetic-query-go/asceticql/query/domain"
	"github.com/krew-solutions/ascetic-query-go/asceticql/query/domain/operators"
)

var (
	ErrInvalidDocument  = errors.New("invalid statement document")
	ErrInvalidCondition = errors.New("invalid condition")
)

type Document struct {
	From   Source     `yaml:"from"`
	Select []Column   `yaml:"select"`
	Joins  []Join     `yaml:"joins,omitempty"`
	Where  *Condition `yaml:"where,omitempty"`
	Limit  int        `yaml:"limit,omitempty"`
}

type Source struct {
	Entity string `yaml:"entity"`
	Alias  string `yaml:"alias,omitempty"`
}

func (s Source) entity() q.Entity {
	return q.NewEntity(s.Entity).As(s.Alias)
}

// Column is a select list entry. The short scalar form "c.name" is accepted
// as well as {field: c.name, as: alias}.
type Column struct {
	Field string `yaml:"field"`
	As    string `yaml:"as,omitempty"`
}

func (c *Column) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		c.Field = node.Value
		return nil
	}
	type plain Column
	return node.Decode((*plain)(c))
}

type Join struct {
	Kind   string    `yaml:"kind,omitempty"`
	Source `yaml:",inline"`
	On     Condition `yaml:"on"`
}

// Condition is either a comparison (Field, Op and exactly one of Value, Ref
// and Pattern) or a list of conditions under And or Or.
type Condition struct {
	Field   string      `yaml:"field,omitempty"`
	Op      string      `yaml:"op,omitempty"`
	Value   yaml.Node   `yaml:"value,omitempty"`
	Ref     string      `yaml:"ref,omitempty"`
	Pattern *string     `yaml:"pattern,omitempty"`
	And     []Condition `yaml:"and,omitempty"`
	Or      []Condition `yaml:"or,omitempty"`
}

// Decode reads one document. Unknown keys are rejected.
func Decode(r io.Reader) (Document, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return Document{}, errors.Wrap(err, "decode statement document")
	}
	return doc, nil
}

func Load(fs afero.Fs, path string) (Document, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return Document{}, errors.Wrapf(err, "read %s", path)
	}
	doc, err := Decode(bytes.NewReader(data))
	if err != nil {
		return Document{}, errors.Wrap(err, path)
	}
	return doc, nil
}

// Statement builds the select statement the document describes. Qualified
// names ("c.id") resolve against the aliases and names of the document's
// entities; unknown qualifiers are taken as entity names.
func (d Document) Statement() (q.SelectStatement, error) {
	if d.From.Entity == "" {
		return q.SelectStatement{}, errors.Wrap(ErrInvalidDocument, "from.entity is required")
	}
	s := newScope(d)
	b := q.NewSelect(d.From.entity())

	for _, col := range d.Select {
		b.Fields(s.column(col))
	}
	for i, j := range d.Joins {
		kind, err := joinKind(j.Kind)
		if err != nil {
			return q.SelectStatement{}, errors.Wrapf(err, "joins[%d]", i)
		}
		on, err := s.condition(j.On)
		if err != nil {
			return q.SelectStatement{}, errors.Wrapf(err, "joins[%d].on", i)
		}
		if kind == q.LeftJoin {
			b.LeftJoin(j.Source.entity(), on)
		} else {
			b.Join(j.Source.entity(), on)
		}
	}
	if d.Where != nil {
		where, err := s.condition(*d.Where)
		if err != nil {
			return q.SelectStatement{}, errors.Wrap(err, "where")
		}
		b.Where(where)
	}
	b.Limit(d.Limit)
	return b.Build()
}

func joinKind(kind string) (q.JoinKind, error) {
	switch strings.ToLower(kind) {
	case "", "inner", "join":
		return q.InnerJoin, nil
	case "left", "left join":
		return q.LeftJoin, nil
	}
	return 0, errors.Wrapf(ErrInvalidDocument, "unknown join kind %q", kind)
}

type scope struct {
	entities map[string]q.Entity
}

func newScope(d Document) scope {
	s := scope{entities: make(map[string]q.Entity)}
	sources := []Source{d.From}
	for _, j := range d.Joins {
		sources = append(sources, j.Source)
	}
	for _, src := range sources {
		e := src.entity()
		if _, taken := s.entities[src.Entity]; !taken {
			s.entities[src.Entity] = e
		}
		if src.Alias != "" {
			s.entities[src.Alias] = e
		}
	}
	return s
}

func (s scope) field(ref string) q.FieldRef {
	qualifier, name, ok := strings.Cut(ref, ".")
	if !ok {
		return q.Field(ref)
	}
	if e, known := s.entities[qualifier]; known {
		return e.Field(name)
	}
	return q.NewEntity(qualifier).Field(name)
}

func (s scope) column(c Column) q.SelectItem {
	switch {
	case c.Field == "*":
		return q.AllFields()
	case strings.HasSuffix(c.Field, ".*"):
		qualifier := strings.TrimSuffix(c.Field, ".*")
		if e, known := s.entities[qualifier]; known {
			return q.AllFieldsOf(e)
		}
		return q.AllFieldsOf(q.NewEntity(qualifier))
	}
	return s.field(c.Field).As(c.As)
}

func (s scope) condition(c Condition) (q.Condition, error) {
	forms := 0
	for _, set := range []bool{c.Field != "", len(c.And) > 0, len(c.Or) > 0} {
		if set {
			forms++
		}
	}
	if forms != 1 {
		return nil, errors.Wrap(ErrInvalidCondition, "expected exactly one of field, and, or")
	}
	switch {
	case len(c.And) > 0:
		return s.fold(c.And, q.And)
	case len(c.Or) > 0:
		return s.fold(c.Or, q.Or)
	}
	return s.comparison(c)
}

func (s scope) fold(conds []Condition, combine func(q.Condition, ...q.Condition) q.Condition) (q.Condition, error) {
	parts := make([]q.Condition, len(conds))
	for i, c := range conds {
		part, err := s.condition(c)
		if err != nil {
			return nil, errors.Wrapf(err, "[%d]", i)
		}
		parts[i] = part
	}
	return combine(parts[0], parts[1:]...), nil
}

func (s scope) comparison(c Condition) (q.Condition, error) {
	op, err := operators.ParseComparison(c.Op)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidCondition, err.Error())
	}
	var (
		right q.Operand
		sides int
	)
	if c.Value.Kind != 0 {
		var v any
		if err := c.Value.Decode(&v); err != nil {
			return nil, errors.Wrapf(ErrInvalidCondition, "value of %s: %v", c.Field, err)
		}
		right = q.Lit(v)
		sides++
	}
	if c.Ref != "" {
		right = s.field(c.Ref)
		sides++
	}
	if c.Pattern != nil {
		right = q.Wildcard(*c.Pattern)
		sides++
	}
	if sides != 1 {
		return nil, errors.Wrapf(ErrInvalidCondition, "%s: expected exactly one of value, ref, pattern", c.Field)
	}
	return q.Compare(s.field(c.Field), op, right)
}
