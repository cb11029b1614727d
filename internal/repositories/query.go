package repositories

import (
	"fmt"
	"strings"

	"github.com/careerloop/jobfeed/internal/locations"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

// JobQuery is the predicate set a retrieval run executes: title matches ANY
// keyword, location matches ANY expanded locality, and the record is not
// explicitly inactive.
type JobQuery struct {
	Keywords   []string
	Localities []string
}

// NewJobQuery builds the query for a keyword set and a city. The city runs
// through the greater-area expansion; blank inputs drop their predicate
// entirely rather than matching nothing.
func NewJobQuery(keywords []string, city string) JobQuery {
	query := JobQuery{
		Keywords: lo.Filter(keywords, func(keyword string, _ int) bool {
			return strings.TrimSpace(keyword) != ""
		}),
	}

	if strings.TrimSpace(city) != "" {
		query.Localities = locations.Expand(city)
	}

	return query
}

func (q JobQuery) apply(tx *gorm.DB) *gorm.DB {

	// nil means the ingester never set the flag; only an explicit false excludes.
	tx = tx.Where("is_active IS NULL OR is_active != ?", false)

	if len(q.Keywords) > 0 {
		clause, args := anyLikeClause("title", q.Keywords)
		tx = tx.Where(clause, args...)
	}

	if len(q.Localities) > 0 {
		clause, args := anyLikeClause("locations", q.Localities)
		tx = tx.Where(clause, args...)
	}

	if len(q.Keywords) == 0 && len(q.Localities) == 0 {
		// guard against sweeping the whole collection when both inputs are blank
		tx = tx.Where("title IS NOT NULL AND title != ''")
	}

	return tx
}

func anyLikeClause(column string, terms []string) (string, []interface{}) {
	clauses := make([]string, len(terms))
	args := make([]interface{}, len(terms))

	for i, term := range terms {
		clauses[i] = fmt.Sprintf("LOWER(%s) LIKE ? ESCAPE '\\'", column)
		args[i] = "%" + EscapePattern(strings.ToLower(term)) + "%"
	}

	return "(" + strings.Join(clauses, " OR ") + ")", args
}

// EscapePattern escapes pattern metacharacters so that keywords like "C++"
// or "100%" match their literal occurrences only.
func EscapePattern(term string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(term)
}
