package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strp(s string) *string   { return &s }
func f64p(f float64) *float64 { return &f }
func i64p(n int64) *int64     { return &n }

func TestBuildPatchAllAbsent(t *testing.T) {
	sets, args := buildPatch(ProductPatch{})
	assert.Empty(t, sets)
	assert.Empty(t, args)
}

func TestBuildPatchSingleField(t *testing.T) {
	sets, args := buildPatch(ProductPatch{Stock: i64p(3)})
	assert.Equal(t, []string{"stock = ?"}, sets)
	assert.Equal(t, []interface{}{int64(3)}, args)
}

func TestBuildPatchAllFields(t *testing.T) {
	sets, args := buildPatch(ProductPatch{
		Title:       strp("Widget"),
		Description: strp("a widget"),
		Price:       f64p(9.99),
		Stock:       i64p(5),
	})
	assert.Equal(t, []string{"title = ?", "description = ?", "price_cents = ?", "stock = ?"}, sets)
	assert.Equal(t, []interface{}{"Widget", "a widget", int64(999), int64(5)}, args)
}

func TestBuildPatchZeroValuesArePresent(t *testing.T) {
	// a present zero must overwrite, only nil means absent
	sets, args := buildPatch(ProductPatch{Price: f64p(0), Stock: i64p(0)})
	assert.Equal(t, []string{"price_cents = ?", "stock = ?"}, sets)
	assert.Equal(t, []interface{}{int64(0), int64(0)}, args)
}

func TestCentsConversion(t *testing.T) {
	assert.Equal(t, int64(999), CentsFromPrice(9.99))
	assert.Equal(t, int64(1000), CentsFromPrice(10))
	assert.Equal(t, int64(0), CentsFromPrice(0))
	assert.Equal(t, int64(1), CentsFromPrice(0.01))

	assert.Equal(t, 9.99, PriceFromCents(999))
	assert.Equal(t, 0.0, PriceFromCents(0))
}
