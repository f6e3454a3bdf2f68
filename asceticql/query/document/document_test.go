package document

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	q "github.com/krew-solutions/ascetic-query-go/asceticql/query/domain"
	qi "github.com/krew-solutions/ascetic-query-go/asceticql/query/infrastructure"
)

func TestLoad_OrdersReport(t *testing.T) {
	doc, err := Load(afero.NewOsFs(), "testdata/orders_report.yaml")
	require.NoError(t, err)

	stmt, err := doc.Statement()
	require.NoError(t, err)

	sql, err := qi.Compile(stmt, 0, qi.Postgres())
	require.NoError(t, err)
	assert.Equal(t, `SELECT
 "c"."id",
 "c"."name" AS "customer",
 "o"."total",
 "o".*
FROM "customers" "c"
LEFT JOIN
 "orders" "o"
 ON "o"."customer_id"="c"."id"
WHERE (("o"."total">100)AND("c"."name" LIKE 'J_n%' ESCAPE '\'))AND("o"."state"<>'void')
LIMIT 50`, sql)
}

func decode(t *testing.T, text string) Document {
	t.Helper()
	doc, err := Decode(strings.NewReader(text))
	require.NoError(t, err)
	return doc
}

func TestStatement_Where(t *testing.T) {
	doc := decode(t, `
from: {entity: users}
select: ["*"]
where:
  or:
    - {field: deleted_at, op: "=", value: null}
    - {field: name, op: lte, value: "m"}
`)
	stmt, err := doc.Statement()
	require.NoError(t, err)

	filter, ok := stmt.Filter().Get()
	require.True(t, ok)
	tree := filter.Tree()
	assert.Equal(t, `((deleted_at = NULL) OR (name <= "m"))`, q.InfixString(&tree))
}

func TestStatement_UnknownQualifierIsEntityName(t *testing.T) {
	doc := decode(t, `
from: {entity: users, alias: u}
select: [users.id, accounts.id]
`)
	stmt, err := doc.Statement()
	require.NoError(t, err)
	fields := stmt.Fields()
	require.Len(t, fields, 2)
	assert.Equal(t, q.NewEntity("users").As("u").Field("id"), fields[0])
	assert.Equal(t, q.NewEntity("accounts").Field("id"), fields[1])
}

func TestDecode_RejectsUnknownKeys(t *testing.T) {
	_, err := Decode(strings.NewReader("from: {entity: users}\nselect: ['*']\norder: name\n"))
	assert.Error(t, err)
}

func TestStatement_Errors(t *testing.T) {
	cases := []struct {
		name string
		text string
		err  error
	}{
		{"missing entity", "select: ['*']", ErrInvalidDocument},
		{"unknown operator", "from: {entity: t}\nselect: ['*']\nwhere: {field: a, op: '~', value: 1}", ErrInvalidCondition},
		{"two right sides", "from: {entity: t}\nselect: ['*']\nwhere: {field: a, op: '=', value: 1, ref: b}", ErrInvalidCondition},
		{"no right side", "from: {entity: t}\nselect: ['*']\nwhere: {field: a, op: '='}", ErrInvalidCondition},
		{"field and and", "from: {entity: t}\nselect: ['*']\nwhere: {field: a, op: '=', value: 1, and: [{field: b, op: '=', value: 2}]}", ErrInvalidCondition},
		{"like without pattern", "from: {entity: t}\nselect: ['*']\nwhere: {field: a, op: like, value: x}", q.ErrLikeRequiresPattern},
		{"pattern without like", "from: {entity: t}\nselect: ['*']\nwhere: {field: a, op: '=', pattern: x}", q.ErrPatternRequiresLike},
		{"literal in join", "from: {entity: t}\nselect: ['*']\njoins: [{entity: u, on: {field: u.a, op: '=', value: 1}}]", q.ErrJoinConstraintOperand},
		{"unknown join kind", "from: {entity: t}\nselect: ['*']\njoins: [{kind: cross, entity: u, on: {field: u.a, op: '=', ref: t.a}}]", ErrInvalidDocument},
		{"empty field", "from: {entity: t}\nselect: ['']", q.ErrEmptyFieldName},
		{"negative limit", "from: {entity: t}\nselect: ['*']\nlimit: -1", q.ErrNegativeLimit},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			doc := decode(t, c.text)
			_, err := doc.Statement()
			assert.ErrorIs(t, err, c.err)
		})
	}
}
