package store

import (
	"database/sql"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"áo thun", "áo thun"},
		{"50%", `50\%`},
		{"a_b", `a\_b`},
		{`c:\tmp`, `c:\\tmp`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, escapeLike(tt.in), tt.in)
	}
}

func TestArgs_Placeholders(t *testing.T) {
	var a args
	assert.Equal(t, "$1", a.add("x"))
	assert.Equal(t, "$2", a.add(10))
	assert.Equal(t, args{"x", 10}, a)
}

func TestProductPatch_Empty(t *testing.T) {
	assert.True(t, ProductPatch{}.Empty())

	name := "Áo"
	assert.False(t, ProductPatch{Name: &name}.Empty())
	assert.False(t, ProductPatch{Images: []string{}}.Empty())
}

func TestNullInt64(t *testing.T) {
	assert.False(t, nullInt64(nil).Valid)

	zero := int64(0)
	assert.False(t, nullInt64(&zero).Valid)

	v := int64(99000)
	assert.Equal(t, sql.NullInt64{Int64: 99000, Valid: true}, nullInt64(&v))
}

// ============================================
// Row scanning
// ============================================

type fakeRow []any

func (r fakeRow) Scan(dest ...any) error {
	for i, d := range dest {
		switch p := d.(type) {
		case *string:
			*p = r[i].(string)
		case *int64:
			*p = r[i].(int64)
		case *int:
			*p = r[i].(int)
		case *bool:
			*p = r[i].(bool)
		case *time.Time:
			*p = r[i].(time.Time)
		case *sql.NullInt64:
			*p = r[i].(sql.NullInt64)
		case *sql.NullString:
			*p = r[i].(sql.NullString)
		case *pq.StringArray:
			*p = r[i].(pq.StringArray)
		}
	}
	return nil
}

func TestScanProduct_WithCategory(t *testing.T) {
	now := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	row := fakeRow{
		"p-1", "Áo thun", "áo-thun", "cotton", int64(199000),
		sql.NullInt64{Int64: 149000, Valid: true}, sql.NullString{String: "Coolmate", Valid: true},
		sql.NullString{String: "c-1", Valid: true}, pq.StringArray{"a.jpg"}, 12, true, false, now, now,
		sql.NullString{String: "c-1", Valid: true}, sql.NullString{String: "Thời trang", Valid: true},
		sql.NullString{String: "thoi-trang", Valid: true},
	}

	p, err := scanProduct(row, true)
	require.NoError(t, err)

	assert.Equal(t, "p-1", p.ID)
	require.NotNil(t, p.SalePrice)
	assert.Equal(t, int64(149000), *p.SalePrice)
	assert.Equal(t, int64(149000), p.EffectivePrice())
	assert.Equal(t, "Coolmate", p.Brand)
	require.NotNil(t, p.Category)
	assert.Equal(t, "thoi-trang", p.Category.Slug)
	assert.Equal(t, []string{"a.jpg"}, p.Images)
}

func TestScanProduct_NullsAndNoCategory(t *testing.T) {
	now := time.Now()
	row := fakeRow{
		"p-2", "Bút", "bút", "", int64(5000),
		sql.NullInt64{}, sql.NullString{}, sql.NullString{}, pq.StringArray(nil), 0, true, false, now, now,
	}

	p, err := scanProduct(row, false)
	require.NoError(t, err)

	assert.Nil(t, p.SalePrice)
	assert.Nil(t, p.Category)
	assert.Empty(t, p.CategoryID)
	assert.NotNil(t, p.Images)
	assert.Equal(t, int64(5000), p.EffectivePrice())
}
