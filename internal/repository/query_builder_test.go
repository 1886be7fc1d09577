package repository

import (
	"testing"

	"github.com/doug-martin/goqu/v9"
	"github.com/stretchr/testify/assert"
)

func renderConditions(t *testing.T, builder QueryBuilder, aliases map[string]string) string {
	t.Helper()
	query := goqu.From("items")
	for _, condition := range builder.BuildConditions(aliases) {
		query = query.Where(condition)
	}
	sql, _, err := query.ToSQL()
	assert.NoError(t, err)
	return sql
}

func TestBuildConditions(t *testing.T) {
	aliases := map[string]string{
		"brand":            "i.brand",
		"acquisition_date": "i.acquisition_date",
	}

	t.Run("equality uses the table alias", func(t *testing.T) {
		builder := NewQueryBuilder()
		builder.AddCondition("state_id", 3)

		sql := renderConditions(t, builder, map[string]string{"state_id": "i.state_id"})
		assert.Contains(t, sql, `"i"."state_id" = 3`)
	})

	t.Run("substring match is case-insensitive", func(t *testing.T) {
		builder := NewQueryBuilder()
		builder.AddSubstring("brand", "DeLL")

		sql := renderConditions(t, builder, aliases)
		assert.Contains(t, sql, "LOWER(i.brand) LIKE '%dell%'")
	})

	t.Run("search spans several columns with OR", func(t *testing.T) {
		builder := NewQueryBuilder()
		builder.AddSearch("latitude", "serial", "brand", "model")

		sql := renderConditions(t, builder, map[string]string{
			"serial": "i.serial",
			"model":  "i.model",
		})
		assert.Contains(t, sql, "LOWER(i.serial) LIKE '%latitude%'")
		assert.Contains(t, sql, "LOWER(i.model) LIKE '%latitude%'")
		assert.Contains(t, sql, " OR ")
	})

	t.Run("range bounds become comparisons", func(t *testing.T) {
		builder := NewQueryBuilder()
		builder.AddMinimum("acquisition_date", "2023-01-01")
		builder.AddMaximum("acquisition_date", "2023-12-31")

		sql := renderConditions(t, builder, aliases)
		assert.Contains(t, sql, `"i"."acquisition_date" >= '2023-01-01'`)
		assert.Contains(t, sql, `"i"."acquisition_date" <= '2023-12-31'`)
	})

	t.Run("unaliased key falls through unchanged", func(t *testing.T) {
		builder := NewQueryBuilder()
		builder.AddCondition("quantity", 1)

		sql := renderConditions(t, builder, aliases)
		assert.Contains(t, sql, `"quantity" = 1`)
	})
}
