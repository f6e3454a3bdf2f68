package query

import (
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/krew-solutions/ascetic-query-go/asceticql/option"
)

// SelectItem is one entry of a field list: a FieldRef or an AllColumns marker.
type SelectItem interface {
	isSelectItem()
}

// AllColumns selects every field, optionally of one entity only.
type AllColumns struct {
	entity option.Option[Entity]
}

// AllFields selects every field of every entity: SELECT *.
func AllFields() AllColumns {
	return AllColumns{}
}

// AllFieldsOf selects every field of e: SELECT e.*.
func AllFieldsOf(e Entity) AllColumns {
	return AllColumns{entity: option.Some(e)}
}

func (a AllColumns) Entity() option.Option[Entity] {
	return a.entity
}

func (AllColumns) isSelectItem() {}

type JoinKind int

const (
	InnerJoin JoinKind = iota
	LeftJoin
)

func (k JoinKind) String() string {
	if k == LeftJoin {
		return "LEFT JOIN"
	}
	return "JOIN"
}

type JoinClause struct {
	Kind       JoinKind
	Entity     Entity
	Constraint JoinConstraintExpression
}

// SelectStatement describes a data selection independently of any backend.
// It owns copies of its field and join lists.
type SelectStatement struct {
	entity Entity
	fields []SelectItem
	joins  []JoinClause
	filter option.Option[FilterExpression]
	limit  int
}

func (s SelectStatement) Entity() Entity {
	return s.entity
}

func (s SelectStatement) Fields() []SelectItem {
	return append([]SelectItem(nil), s.fields...)
}

func (s SelectStatement) Joins() []JoinClause {
	return append([]JoinClause(nil), s.joins...)
}

func (s SelectStatement) Filter() option.Option[FilterExpression] {
	return s.filter
}

// Limit is the statement's own row limit. Zero means unlimited.
func (s SelectStatement) Limit() int {
	return s.limit
}

// WithLimit returns a copy of s limited to n rows.
func (s SelectStatement) WithLimit(n int) SelectStatement {
	s.limit = n
	return s
}

// Validate reports the compilation errors of s.
func (s SelectStatement) Validate() error {
	if s.entity.IsZero() {
		return ErrNoEntity
	}
	if len(s.fields) == 0 {
		return ErrNoFields
	}
	return nil
}

// SelectBuilder assembles a SelectStatement. Construction errors are collected
// and reported together by Build.
type SelectBuilder struct {
	stmt SelectStatement
	errs *multierror.Error
}

func NewSelect(entity Entity) *SelectBuilder {
	return &SelectBuilder{stmt: SelectStatement{entity: entity}}
}

func (b *SelectBuilder) Fields(items ...SelectItem) *SelectBuilder {
	for _, item := range items {
		if item == nil {
			continue
		}
		switch item := item.(type) {
		case FieldRef:
			if err := item.Validate(); err != nil {
				b.fail(errors.Wrapf(err, "field %d", len(b.stmt.fields)))
				continue
			}
		case AllColumns:
			if e, ok := item.Entity().Get(); ok && e.IsZero() {
				b.fail(errors.Wrapf(ErrEmptyEntityName, "field %d", len(b.stmt.fields)))
				continue
			}
		}
		b.stmt.fields = append(b.stmt.fields, item)
	}
	return b
}

func (b *SelectBuilder) Join(e Entity, on Condition) *SelectBuilder {
	return b.join(InnerJoin, e, on)
}

func (b *SelectBuilder) LeftJoin(e Entity, on Condition) *SelectBuilder {
	return b.join(LeftJoin, e, on)
}

// JoinOn adds a join with an already materialised constraint.
func (b *SelectBuilder) JoinOn(kind JoinKind, e Entity, on JoinConstraintExpression) *SelectBuilder {
	if e.IsZero() {
		b.fail(errors.Wrap(ErrEmptyEntityName, "join"))
		return b
	}
	if on.IsNull() {
		b.fail(errors.Wrapf(ErrEmptyTree, "join %s", e.Name()))
		return b
	}
	b.stmt.joins = append(b.stmt.joins, JoinClause{Kind: kind, Entity: e, Constraint: on})
	return b
}

func (b *SelectBuilder) join(kind JoinKind, e Entity, on Condition) *SelectBuilder {
	constraint, err := NewJoinConstraint(on)
	if err != nil {
		b.fail(errors.Wrapf(err, "join %s", e.Name()))
		return b
	}
	return b.JoinOn(kind, e, constraint)
}

func (b *SelectBuilder) Where(c Condition) *SelectBuilder {
	filter, err := NewFilterExpression(c)
	if err != nil {
		b.fail(err)
		return b
	}
	return b.Filter(filter)
}

func (b *SelectBuilder) Filter(f FilterExpression) *SelectBuilder {
	if f.IsNull() {
		b.fail(errors.Wrap(ErrEmptyTree, "filter"))
		return b
	}
	b.stmt.filter = option.Some(f)
	return b
}

func (b *SelectBuilder) Limit(n int) *SelectBuilder {
	if n < 0 {
		b.fail(errors.Wrapf(ErrNegativeLimit, "limit %d", n))
		return b
	}
	b.stmt.limit = n
	return b
}

// Build returns the statement and every construction error recorded so far.
// An empty field list or a missing entity is not a construction error; the
// compiler reports those.
func (b *SelectBuilder) Build() (SelectStatement, error) {
	stmt := b.stmt
	stmt.fields = append([]SelectItem(nil), b.stmt.fields...)
	stmt.joins = append([]JoinClause(nil), b.stmt.joins...)
	return stmt, b.errs.ErrorOrNil()
}

func (b *SelectBuilder) fail(err error) {
	b.errs = multierror.Append(b.errs, err)
}
