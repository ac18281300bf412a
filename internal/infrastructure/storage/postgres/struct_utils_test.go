package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"pxc/internal/core/id"
)

type IssuedRow struct {
	ID     id.ID  `db:"id"`
	Number string `db:"number"`
}

type mockOrder struct {
	IssuedRow
	Total    string    `db:"total"`
	Note     string    `db:"-"`
	Memo     string
	Created  time.Time `db:"created_at"`
}

func TestExtractDBColumns_Embedded(t *testing.T) {
	cols := ExtractDBColumns[mockOrder]()
	assert.Equal(t, []string{"id", "number", "total", "created_at"}, cols)

	// Pointer type parameters resolve to the same columns.
	assert.Equal(t, cols, ExtractDBColumns[*mockOrder]())
}

func TestStructToMap(t *testing.T) {
	now := time.Now().UTC()
	o := &mockOrder{
		IssuedRow: IssuedRow{ID: id.New(), Number: "25060101MX678"},
		Total:     "10.00",
		Note:      "skipped",
		Memo:      "untagged",
		Created:   now,
	}

	m := StructToMap(o)

	assert.Len(t, m, 4)
	assert.Equal(t, o.ID, m["id"])
	assert.Equal(t, "25060101MX678", m["number"])
	assert.Equal(t, "10.00", m["total"])
	assert.Equal(t, now, m["created_at"])
	assert.NotContains(t, m, "-")
}

func TestStructToMap_NonStruct(t *testing.T) {
	assert.Nil(t, StructToMap(42))
	assert.Nil(t, StructToMap((*mockOrder)(nil)))
}
