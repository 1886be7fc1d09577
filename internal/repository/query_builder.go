package repository

import (
	"strings"

	"github.com/doug-martin/goqu/v9"
)

// QueryBuilder accumulates list-filter conditions independently of the table
// aliases a concrete query uses.
type QueryBuilder interface {
	AddCondition(key string, value interface{})
	AddSubstring(key string, value string)
	AddSearch(value string, keys ...string)
	AddMinimum(key string, value interface{})
	AddMaximum(key string, value interface{})
	BuildConditions(aliases map[string]string) []goqu.Expression
}

type rangeBound struct {
	key   string
	value interface{}
}

type searchTerm struct {
	value string
	keys  []string
}

type queryBuilderImpl struct {
	equals     map[string]interface{}
	substrings map[string]string
	searches   []searchTerm
	minimums   []rangeBound
	maximums   []rangeBound
}

func NewQueryBuilder() QueryBuilder {
	return &queryBuilderImpl{
		equals:     make(map[string]interface{}),
		substrings: make(map[string]string),
	}
}

func (q *queryBuilderImpl) AddCondition(key string, value interface{}) {
	q.equals[key] = value
}

// AddSubstring adds a case-insensitive contains match on a text column.
func (q *queryBuilderImpl) AddSubstring(key string, value string) {
	q.substrings[key] = value
}

// AddSearch adds one case-insensitive contains match across several text
// columns. A row matches when any of the columns contains the value.
func (q *queryBuilderImpl) AddSearch(value string, keys ...string) {
	q.searches = append(q.searches, searchTerm{value: value, keys: keys})
}

func (q *queryBuilderImpl) AddMinimum(key string, value interface{}) {
	q.minimums = append(q.minimums, rangeBound{key: key, value: value})
}

func (q *queryBuilderImpl) AddMaximum(key string, value interface{}) {
	q.maximums = append(q.maximums, rangeBound{key: key, value: value})
}

func (q *queryBuilderImpl) BuildConditions(aliases map[string]string) []goqu.Expression {
	var conditions []goqu.Expression

	for key, value := range q.equals {
		conditions = append(conditions, goqu.Ex{resolveAlias(key, aliases): value})
	}

	for key, value := range q.substrings {
		conditions = append(conditions, substringMatch(resolveAlias(key, aliases), value))
	}

	for _, search := range q.searches {
		alternatives := make([]goqu.Expression, 0, len(search.keys))
		for _, key := range search.keys {
			alternatives = append(alternatives, substringMatch(resolveAlias(key, aliases), search.value))
		}
		conditions = append(conditions, goqu.Or(alternatives...))
	}

	for _, bound := range q.minimums {
		conditions = append(conditions, goqu.I(resolveAlias(bound.key, aliases)).Gte(bound.value))
	}

	for _, bound := range q.maximums {
		conditions = append(conditions, goqu.I(resolveAlias(bound.key, aliases)).Lte(bound.value))
	}

	return conditions
}

func substringMatch(column string, value string) goqu.Expression {
	pattern := "%" + strings.ToLower(value) + "%"
	return goqu.L("LOWER("+column+") LIKE ?", pattern)
}

func resolveAlias(key string, aliases map[string]string) string {
	if alias, ok := aliases[key]; ok {
		return alias
	}
	return key
}
