package collection

import (
	"sort"
	"strings"
)

var defaultSearchFields = []string{"title", "description", "tags", "author"}

// Composer derives the rendered subset of a collection from the active
// criteria. Compose is pure and synchronous: the same records and criteria
// always yield the same ordered output, and the input slice is never
// mutated.
type Composer struct {
	searchFields []string
}

// NewComposer builds a composer searching the descriptor's textual fields.
func NewComposer(desc ResourceDescriptor) *Composer {
	fields := desc.SearchFields
	if len(fields) == 0 {
		fields = defaultSearchFields
	}
	return &Composer{searchFields: fields}
}

// Compose filters, sorts, and paginates the candidate set. Empty search
// strings and "all"/zero filter values short-circuit to no predicate rather
// than matching nothing. Ties sort stably by insertion order.
func (c *Composer) Compose(records []Record, crit Criteria) []Record {
	crit = crit.Normalize()

	out := make([]Record, 0, len(records))
	for _, rec := range records {
		if c.matches(rec, crit) {
			out = append(out, rec)
		}
	}

	if less := sortLess(crit.Sort); less != nil {
		sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	}

	return paginate(out, crit.Page, crit.PerPage)
}

func (c *Composer) matches(rec Record, crit Criteria) bool {
	if !c.matchesSearch(rec, crit.Search) {
		return false
	}
	if !matchesChoice(rec.StringAttr("category"), crit.Category) {
		return false
	}
	if !matchesChoice(rec.StringAttr("status"), crit.Status) {
		return false
	}
	switch crit.Price {
	case PriceFree:
		if rec.FloatAttr("price") != 0 {
			return false
		}
	case PricePaid:
		if rec.FloatAttr("price") <= 0 {
			return false
		}
	}
	if crit.MinRating > 0 && rec.Counters.Rating < crit.MinRating {
		return false
	}
	return true
}

func (c *Composer) matchesSearch(rec Record, search string) bool {
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return true
	}
	for _, field := range c.searchFields {
		for _, text := range attrStrings(rec, field) {
			if strings.Contains(strings.ToLower(text), search) {
				return true
			}
		}
	}
	return false
}

// matchesChoice treats "" and "all" as the disabled sentinel.
func matchesChoice(value, want string) bool {
	if want == "" || strings.EqualFold(want, "all") {
		return true
	}
	return strings.EqualFold(value, want)
}

// attrStrings flattens an attribute into searchable strings; tag lists come
// back from JSON as []any.
func attrStrings(rec Record, key string) []string {
	switch v := rec.Attributes[key].(type) {
	case string:
		return []string{v}
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func sortLess(key SortKey) func(a, b Record) bool {
	switch key {
	case SortPopular:
		return func(a, b Record) bool { return a.Counters.Downloads > b.Counters.Downloads }
	case SortRating:
		return func(a, b Record) bool { return a.Counters.Rating > b.Counters.Rating }
	case SortNewest:
		return func(a, b Record) bool { return a.CreatedAt.After(b.CreatedAt) }
	case SortPriceLow:
		return func(a, b Record) bool { return a.FloatAttr("price") < b.FloatAttr("price") }
	case SortPriceHigh:
		return func(a, b Record) bool { return a.FloatAttr("price") > b.FloatAttr("price") }
	}
	return nil
}

func paginate(records []Record, page, perPage int) []Record {
	if perPage <= 0 {
		return records
	}
	start := (page - 1) * perPage
	if start >= len(records) {
		return []Record{}
	}
	end := start + perPage
	if end > len(records) {
		end = len(records)
	}
	return records[start:end]
}
