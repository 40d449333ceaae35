// Package filters turns listing query parameters into store predicates.
//
// Build is pure: the same parameters always produce the same Predicate,
// and a Predicate can be evaluated both as a gorm scope and in memory.
package filters

import (
	"net/url"
	"sort"
	"strings"

	"gorm.io/gorm"
)

// All is the sentinel meaning "no filter".
const All = "all"

// Target describes the filterable shape of one record type.
type Target struct {
	// FilterParam is the query parameter holding the exact-match filter.
	FilterParam string
	// FilterColumn is the column (and Fields key) compared to it.
	FilterColumn string
	// SearchColumns are OR-ed for the free-text search.
	SearchColumns []string
}

var (
	Orders = Target{
		FilterParam:   "status",
		FilterColumn:  "status",
		SearchColumns: []string{"customer_name", "phone", "order_no"},
	}
	Products = Target{
		FilterParam:   "category",
		FilterColumn:  "category",
		SearchColumns: []string{"name"},
	}
)

// Predicate is a normalized filter over one Target.
type Predicate struct {
	Column  string
	Value   string // "" means no exact-match filter
	Search  string // lower-cased needle, "" means no search
	Columns []string
}

// Build normalizes q for target t. A blank or "all" filter and a blank
// search are dropped.
func Build(t Target, q url.Values) Predicate {
	p := Predicate{Column: t.FilterColumn, Columns: append([]string(nil), t.SearchColumns...)}

	if v := strings.TrimSpace(q.Get(t.FilterParam)); v != "" && !strings.EqualFold(v, All) {
		p.Value = v
	}
	p.Search = strings.ToLower(strings.TrimSpace(q.Get("search")))
	return p
}

// IsZero reports whether p filters nothing.
func (p Predicate) IsZero() bool {
	return p.Value == "" && p.Search == ""
}

// Match evaluates p against a record's fields, keyed by column name.
func (p Predicate) Match(fields map[string]string) bool {
	if p.Value != "" && fields[p.Column] != p.Value {
		return false
	}
	if p.Search == "" {
		return true
	}
	for _, col := range p.Columns {
		if strings.Contains(strings.ToLower(fields[col]), p.Search) {
			return true
		}
	}
	return false
}

// Scope applies p to a gorm query. The search is a literal substring
// match: LIKE wildcards in the needle are escaped.
func (p Predicate) Scope(db *gorm.DB) *gorm.DB {
	if p.Value != "" {
		db = db.Where(p.Column+" = ?", p.Value)
	}
	if p.Search == "" || len(p.Columns) == 0 {
		return db
	}

	pattern := "%" + escapeLike(p.Search) + "%"
	clauses := make([]string, len(p.Columns))
	args := make([]interface{}, len(p.Columns))
	for i, col := range p.Columns {
		clauses[i] = "LOWER(" + col + ") LIKE ? ESCAPE '!'"
		args[i] = pattern
	}
	return db.Where("("+strings.Join(clauses, " OR ")+")", args...)
}

// Key is a stable string form of p, used for cache keys.
func (p Predicate) Key() string {
	cols := append([]string(nil), p.Columns...)
	sort.Strings(cols)
	return p.Column + "=" + url.QueryEscape(p.Value) + "&q=" + url.QueryEscape(p.Search) + "&in=" + strings.Join(cols, ",")
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_", "[", "![")

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
