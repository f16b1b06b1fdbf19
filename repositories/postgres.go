package repositories

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"sneakershop/models"
)

const uniqueViolation = "23505"

// productColumns maps sortable fields to their column names. Only these
// names ever reach an ORDER BY clause.
var productColumns = map[string]string{
	models.SortByName:         "name",
	models.SortByBrand:        "brand",
	models.SortByPrice:        "price",
	models.SortByRating:       "rating",
	models.SortByCountInStock: "count_in_stock",
	models.SortByNumReviews:   "num_reviews",
	models.SortByCreatedAt:    "created_at",
	models.SortByUpdatedAt:    "updated_at",
}

const productSelect = `
SELECT id, name, brand, description, price, sizes, colors, image,
       count_in_stock, rating, num_reviews, created_at, updated_at
FROM products`

type PostgresUserStore struct {
	pool *pgxpool.Pool
}

func NewPostgresUserStore(pool *pgxpool.Pool) *PostgresUserStore {
	return &PostgresUserStore{pool: pool}
}

func (s *PostgresUserStore) Create(ctx context.Context, user *models.User) error {
	id := uuid.NewString()
	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (id, email, password_hash, is_admin, created_at) VALUES ($1, $2, $3, $4, $5)`,
		id, user.Email, user.PasswordHash, user.IsAdmin, user.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicateEmail
		}
		return err
	}
	user.ID = id
	return nil
}

func (s *PostgresUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, `WHERE email = $1`, email)
}

func (s *PostgresUserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	return s.findOne(ctx, `WHERE id = $1`, id)
}

func (s *PostgresUserStore) findOne(ctx context.Context, where string, arg string) (*models.User, error) {
	var u models.User
	err := s.pool.QueryRow(ctx,
		`SELECT id, email, password_hash, is_admin, created_at FROM users `+where, arg,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

type PostgresProductStore struct {
	pool *pgxpool.Pool
}

func NewPostgresProductStore(pool *pgxpool.Pool) *PostgresProductStore {
	return &PostgresProductStore{pool: pool}
}

func (s *PostgresProductStore) Find(ctx context.Context, q models.ProductQuery) ([]models.Product, int, error) {
	sql, countSQL, args := buildFindSQL(q)

	rows, err := s.pool.Query(ctx, sql, append(args, q.Skip(), q.Limit)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := make([]models.Product, 0, q.Limit)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	// count with the filter args only, before offset/limit
	var total int
	if err := s.pool.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

// buildFindSQL returns the page query, the count query and the filter
// args. The page query takes two more args after these: offset and limit.
func buildFindSQL(q models.ProductQuery) (string, string, []interface{}) {
	where := []string{"1=1"}
	args := []interface{}{}
	ai := 1

	if q.Brand != "" {
		where = append(where, "brand = $"+itoa(ai))
		args = append(args, q.Brand)
		ai++
	}
	if q.MinPrice != nil {
		where = append(where, "price >= $"+itoa(ai))
		args = append(args, *q.MinPrice)
		ai++
	}
	if q.MaxPrice != nil {
		where = append(where, "price <= $"+itoa(ai))
		args = append(args, *q.MaxPrice)
		ai++
	}

	column, ok := productColumns[q.SortBy]
	if !ok {
		column = "created_at"
	}
	dir := "ASC"
	if q.SortOrder == models.SortDesc {
		dir = "DESC"
	}

	cond := strings.Join(where, " AND ")
	sql := productSelect + `
WHERE ` + cond + `
ORDER BY ` + column + ` ` + dir + `, id ASC
OFFSET $` + itoa(ai) + ` LIMIT $` + itoa(ai+1)

	return sql, `SELECT COUNT(*) FROM products WHERE ` + cond, args
}

func (s *PostgresProductStore) FindByID(ctx context.Context, id string) (*models.Product, error) {
	p, err := scanProduct(s.pool.QueryRow(ctx, productSelect+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *PostgresProductStore) Create(ctx context.Context, p *models.Product) error {
	id := uuid.NewString()
	_, err := s.pool.Exec(ctx, `
		INSERT INTO products
			(id, name, brand, description, price, sizes, colors, image, count_in_stock, rating, num_reviews, created_at, updated_at)
		VALUES
			($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		id, p.Name, p.Brand, p.Description, p.Price, nonNil(p.Sizes), nonNil(p.Colors), p.Image,
		p.CountInStock, p.Rating, p.NumReviews, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return err
	}
	p.ID = id
	return nil
}

func (s *PostgresProductStore) Update(ctx context.Context, p *models.Product) error {
	commandTag, err := s.pool.Exec(ctx, `
		UPDATE products SET
			name=$1, brand=$2, description=$3, price=$4, sizes=$5, colors=$6, image=$7,
			count_in_stock=$8, rating=$9, num_reviews=$10, updated_at=$11
		WHERE id=$12`,
		p.Name, p.Brand, p.Description, p.Price, nonNil(p.Sizes), nonNil(p.Colors), p.Image,
		p.CountInStock, p.Rating, p.NumReviews, p.UpdatedAt, p.ID,
	)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresProductStore) Delete(ctx context.Context, id string) error {
	commandTag, err := s.pool.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanProduct(row pgx.Row) (*models.Product, error) {
	var p models.Product
	if err := row.Scan(
		&p.ID, &p.Name, &p.Brand, &p.Description, &p.Price, &p.Sizes, &p.Colors, &p.Image,
		&p.CountInStock, &p.Rating, &p.NumReviews, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

func itoa(i int) string { return strconv.Itoa(i) }
