package repositories

import (
	"reflect"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson"

	"sneakershop/models"
)

func priceBound(v float64) *float64 { return &v }

func TestBuildFindSQL(t *testing.T) {
	tests := []struct {
		name   string
		query  models.ProductQuery
		where  string
		order  string
		paging string
		args   []interface{}
	}{
		{
			name:   "defaults",
			query:  models.ProductQuery{Page: 1, Limit: 10},
			where:  "WHERE 1=1\n",
			order:  "ORDER BY created_at ASC, id ASC",
			paging: "OFFSET $1 LIMIT $2",
			args:   []interface{}{},
		},
		{
			name: "all filters price desc",
			query: models.ProductQuery{
				Brand: "Nike", MinPrice: priceBound(50), MaxPrice: priceBound(150),
				SortBy: models.SortByPrice, SortOrder: models.SortDesc, Page: 2, Limit: 2,
			},
			where:  "WHERE 1=1 AND brand = $1 AND price >= $2 AND price <= $3\n",
			order:  "ORDER BY price DESC, id ASC",
			paging: "OFFSET $4 LIMIT $5",
			args:   []interface{}{"Nike", 50.0, 150.0},
		},
		{
			name:   "camel case sort field maps to column",
			query:  models.ProductQuery{MaxPrice: priceBound(99), SortBy: models.SortByCountInStock, Page: 1, Limit: 5},
			where:  "WHERE 1=1 AND price <= $1\n",
			order:  "ORDER BY count_in_stock ASC, id ASC",
			paging: "OFFSET $2 LIMIT $3",
			args:   []interface{}{99.0},
		},
		{
			name:   "unknown sort field never reaches sql",
			query:  models.ProductQuery{SortBy: "password; DROP TABLE users", Page: 1, Limit: 5},
			where:  "WHERE 1=1\n",
			order:  "ORDER BY created_at ASC, id ASC",
			paging: "OFFSET $1 LIMIT $2",
			args:   []interface{}{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, countSQL, args := buildFindSQL(tt.query)
			for _, part := range []string{tt.where, tt.order, tt.paging} {
				if !strings.Contains(sql, part) {
					t.Errorf("Expected %q in\n%s", part, sql)
				}
			}
			if strings.Contains(sql, "DROP") {
				t.Errorf("unsanitized sort field in %s", sql)
			}
			if want := "SELECT COUNT(*) FROM products " + strings.TrimSuffix(tt.where, "\n"); countSQL != want {
				t.Errorf("Expected count %q, got %q", want, countSQL)
			}
			if !reflect.DeepEqual(args, tt.args) {
				t.Errorf("Expected args %v, got %v", tt.args, args)
			}
		})
	}
}

func TestBuildFind(t *testing.T) {
	tests := []struct {
		name   string
		query  models.ProductQuery
		filter bson.M
		sort   bson.D
		skip   int64
		limit  int64
	}{
		{
			name:   "defaults",
			query:  models.ProductQuery{Page: 1, Limit: 10},
			filter: bson.M{},
			sort:   bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}},
			skip:   0,
			limit:  10,
		},
		{
			name: "price range desc second page",
			query: models.ProductQuery{
				Brand: "Nike", MinPrice: priceBound(50), MaxPrice: priceBound(150),
				SortBy: models.SortByPrice, SortOrder: models.SortDesc, Page: 3, Limit: 2,
			},
			filter: bson.M{"brand": "Nike", "price": bson.M{"$gte": 50.0, "$lte": 150.0}},
			sort:   bson.D{{Key: "price", Value: -1}, {Key: "_id", Value: 1}},
			skip:   4,
			limit:  2,
		},
		{
			name:   "unknown sort field falls back",
			query:  models.ProductQuery{SortBy: "password", Page: 1, Limit: 1},
			filter: bson.M{},
			sort:   bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}},
			skip:   0,
			limit:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, opts := buildFind(tt.query)
			if !reflect.DeepEqual(filter, tt.filter) {
				t.Errorf("Expected filter %v, got %v", tt.filter, filter)
			}
			if !reflect.DeepEqual(opts.Sort, tt.sort) {
				t.Errorf("Expected sort %v, got %v", tt.sort, opts.Sort)
			}
			if opts.Skip == nil || *opts.Skip != tt.skip {
				t.Errorf("Expected skip %d, got %v", tt.skip, opts.Skip)
			}
			if opts.Limit == nil || *opts.Limit != tt.limit {
				t.Errorf("Expected limit %d, got %v", tt.limit, opts.Limit)
			}
		})
	}
}
