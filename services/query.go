package services

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"sneakershop/apperror"
	"sneakershop/models"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

var sortableFields = map[string]bool{
	models.SortByName:         true,
	models.SortByBrand:        true,
	models.SortByPrice:        true,
	models.SortByRating:       true,
	models.SortByCountInStock: true,
	models.SortByNumReviews:   true,
	models.SortByCreatedAt:    true,
	models.SortByUpdatedAt:    true,
}

var listParams = map[string]bool{
	"brand":     true,
	"minPrice":  true,
	"maxPrice":  true,
	"sortBy":    true,
	"sortOrder": true,
	"page":      true,
	"limit":     true,
}

// ParseListQuery validates list query parameters. Unrecognized keys are
// rejected rather than ignored.
func ParseListQuery(params map[string]string) (models.ProductQuery, error) {
	q := models.ProductQuery{
		Brand:     strings.TrimSpace(params["brand"]),
		SortOrder: models.SortAsc,
		Page:      DefaultPage,
		Limit:     DefaultLimit,
	}
	var details []apperror.FieldError
	reject := func(field, msg string) {
		details = append(details, apperror.FieldError{Field: field, Message: msg})
	}

	unknown := make([]string, 0)
	for key := range params {
		if !listParams[key] {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	for _, key := range unknown {
		reject(key, "unknown query parameter")
	}

	q.MinPrice = parsePrice(params["minPrice"], "minPrice", reject)
	q.MaxPrice = parsePrice(params["maxPrice"], "maxPrice", reject)
	if q.MinPrice != nil && q.MaxPrice != nil && *q.MinPrice > *q.MaxPrice {
		reject("minPrice", "minPrice must not exceed maxPrice")
	}

	if v := strings.TrimSpace(params["sortBy"]); v != "" {
		if !sortableFields[v] {
			reject("sortBy", "cannot sort by "+strconv.Quote(v))
		}
		q.SortBy = v
	}
	switch strings.ToLower(strings.TrimSpace(params["sortOrder"])) {
	case "", "asc":
	case "desc":
		q.SortOrder = models.SortDesc
	default:
		reject("sortOrder", "sortOrder must be asc or desc")
	}

	if v := strings.TrimSpace(params["page"]); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			reject("page", "page must be a positive integer")
		}
		q.Page = n
	}
	if v := strings.TrimSpace(params["limit"]); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > MaxLimit {
			reject("limit", "limit must be between 1 and "+strconv.Itoa(MaxLimit))
		}
		q.Limit = n
	}

	if len(details) > 0 {
		return models.ProductQuery{}, apperror.Validation("Invalid query parameters", details...)
	}
	return q, nil
}

func parsePrice(raw, field string, reject func(string, string)) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		reject(field, field+" must be a non-negative number")
		return nil
	}
	return &v
}
