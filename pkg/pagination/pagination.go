package pagination

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

var identifierRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Params holds the pagination and search parameters of a list request.
type Params struct {
	Page   int
	Limit  int
	Search string
	SortBy string
	Order  string
}

// Meta describes the page returned by a paginated query.
type Meta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

// FromQuery parses pagination parameters from the request query string,
// clamping out-of-range values instead of rejecting them.
func FromQuery(c *gin.Context) Params {
	page, _ := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(defaultPage)))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))

	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	order := strings.ToUpper(c.DefaultQuery("order", "ASC"))
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}

	return Params{
		Page:   page,
		Limit:  limit,
		Search: c.Query("search"),
		SortBy: c.Query("sortBy"),
		Order:  order,
	}
}

// Apply adds search, sorting and limit/offset clauses to the query, counts
// the total before paginating and returns the page metadata. The caller
// runs Find on the returned query.
func Apply(tx *gorm.DB, p Params, searchColumns ...string) (*gorm.DB, Meta, error) {
	if p.Search != "" && len(searchColumns) > 0 {
		conditions := make([]string, len(searchColumns))
		args := make([]interface{}, len(searchColumns))
		for i, col := range searchColumns {
			conditions[i] = fmt.Sprintf("LOWER(%s) LIKE LOWER(?)", col)
			args[i] = "%" + p.Search + "%"
		}
		tx = tx.Where(strings.Join(conditions, " OR "), args...)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, Meta{}, err
	}

	// sortBy is interpolated into the query, only plain column names pass
	if p.SortBy != "" && identifierRe.MatchString(p.SortBy) {
		tx = tx.Order(fmt.Sprintf("%s %s", p.SortBy, p.Order))
	}

	tx = tx.Offset((p.Page - 1) * p.Limit).Limit(p.Limit)

	totalPages := int((total + int64(p.Limit) - 1) / int64(p.Limit))
	meta := Meta{
		Total:      total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: totalPages,
	}

	return tx, meta, nil
}
