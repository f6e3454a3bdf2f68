package query

import "github.com/pkg/errors"

// Construction errors. The expression or statement being built is unusable and
// has to be rebuilt by the caller.
var (
	ErrEmptyFieldName        = errors.New("field name must not be empty")
	ErrEmptyEntityName       = errors.New("entity name must not be empty")
	ErrEmptyCondition        = errors.New("condition must not be empty")
	ErrEmptyTree             = errors.New("expression tree is empty")
	ErrUnknownOperator       = errors.New("unknown operator")
	ErrLikeRequiresPattern   = errors.New("LIKE requires a pattern operand")
	ErrPatternRequiresLike   = errors.New("pattern operand requires LIKE")
	ErrJoinConstraintOperand = errors.New("join constraint may only compare fields")
	ErrUnknownNode           = errors.New("unknown node")
	ErrNotCondition          = errors.New("node is not a condition")
	ErrAlreadyAttached       = errors.New("node is already attached to a parent")
	ErrNegativeLimit         = errors.New("row limit must not be negative")
)

// Compilation errors.
var (
	ErrNoFields = errors.New("statement selects no fields")
	ErrNoEntity = errors.New("statement has no entity")
)
