package query

import (
	"strings"

	"github.com/krew-solutions/ascetic-query-go/asceticql/option"
)

// Entity is a named data source (table, view) with an optional alias.
type Entity struct {
	name  string
	alias option.Option[string]
}

func NewEntity(name string) Entity {
	return Entity{name: name}
}

func (e Entity) As(alias string) Entity {
	e.alias = option.NonZero(alias)
	return e
}

func (e Entity) Name() string {
	return e.name
}

func (e Entity) Alias() option.Option[string] {
	return e.alias
}

func (e Entity) AliasOrName() string {
	return e.alias.UnwrapOr(e.name)
}

func (e Entity) IsZero() bool {
	return e.name == ""
}

// Field returns a reference to a field of e, qualified by e's name and alias.
func (e Entity) Field(name string) FieldRef {
	return Field(name).Of(e)
}

func (e Entity) String() string {
	if alias, ok := e.alias.Get(); ok {
		return e.name + " " + alias
	}
	return e.name
}

// FieldRef names a field, optionally qualified by the entity it belongs to.
// A FieldRef is a value; copies are independent.
type FieldRef struct {
	entityName  option.Option[string]
	entityAlias option.Option[string]
	name        string
	alias       option.Option[string]
}

func Field(name string) FieldRef {
	return FieldRef{name: name}
}

func (f FieldRef) As(alias string) FieldRef {
	f.alias = option.NonZero(alias)
	return f
}

func (f FieldRef) Of(e Entity) FieldRef {
	f.entityName = option.NonZero(e.name)
	f.entityAlias = e.alias
	return f
}

func (f FieldRef) Name() string {
	return f.name
}

func (f FieldRef) Alias() option.Option[string] {
	return f.alias
}

func (f FieldRef) AliasOrName() string {
	return f.alias.UnwrapOr(f.name)
}

func (f FieldRef) EntityName() option.Option[string] {
	return f.entityName
}

func (f FieldRef) EntityAlias() option.Option[string] {
	return f.entityAlias
}

// Qualifier is the entity alias if present, else the entity name.
func (f FieldRef) Qualifier() option.Option[string] {
	return f.entityAlias.Or(f.entityName)
}

func (f FieldRef) Validate() error {
	if f.name == "" {
		return ErrEmptyFieldName
	}
	return nil
}

func (f FieldRef) String() string {
	var sb strings.Builder
	if q, ok := f.Qualifier().Get(); ok {
		sb.WriteString(q)
		sb.WriteByte('.')
	}
	sb.WriteString(f.name)
	return sb.String()
}

func (FieldRef) isOperand()    {}
func (FieldRef) isValue()      {}
func (FieldRef) isSelectItem() {}
