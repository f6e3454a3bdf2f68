package operators

import "github.com/pkg/errors"

type ComparisonOperator string

const (
	OperatorEq   ComparisonOperator = "="
	OperatorNe   ComparisonOperator = "!="
	OperatorLt   ComparisonOperator = "<"
	OperatorLte  ComparisonOperator = "<="
	OperatorGt   ComparisonOperator = ">"
	OperatorGte  ComparisonOperator = ">="
	OperatorLike ComparisonOperator = "LIKE"
)

// ComparisonOperators lists every comparison operator in declaration order.
var ComparisonOperators = []ComparisonOperator{
	OperatorEq, OperatorNe, OperatorLt, OperatorLte, OperatorGt, OperatorGte, OperatorLike,
}

func (op ComparisonOperator) Valid() bool {
	for _, known := range ComparisonOperators {
		if op == known {
			return true
		}
	}
	return false
}

// IsPattern reports whether the operator matches against a wildcard pattern.
func (op ComparisonOperator) IsPattern() bool {
	return op == OperatorLike
}

func (op ComparisonOperator) String() string {
	return string(op)
}

type LogicalOperator string

const (
	OperatorAnd LogicalOperator = "AND"
	OperatorOr  LogicalOperator = "OR"
)

func (op LogicalOperator) Valid() bool {
	return op == OperatorAnd || op == OperatorOr
}

func (op LogicalOperator) String() string {
	return string(op)
}

var comparisonAliases = map[string]ComparisonOperator{
	"=":    OperatorEq,
	"==":   OperatorEq,
	"eq":   OperatorEq,
	"!=":   OperatorNe,
	"<>":   OperatorNe,
	"ne":   OperatorNe,
	"<":    OperatorLt,
	"lt":   OperatorLt,
	"<=":   OperatorLte,
	"lte":  OperatorLte,
	">":    OperatorGt,
	"gt":   OperatorGt,
	">=":   OperatorGte,
	"gte":  OperatorGte,
	"LIKE": OperatorLike,
	"like": OperatorLike,
}

// ParseComparison resolves a symbolic or mnemonic spelling ("==", "<>", "gte", "like")
// into a ComparisonOperator.
func ParseComparison(s string) (ComparisonOperator, error) {
	op, ok := comparisonAliases[s]
	if !ok {
		return "", errors.Errorf("unknown comparison operator %q", s)
	}
	return op, nil
}
