package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/qalamart/storeapi/internal/domain"
	"github.com/qalamart/storeapi/internal/repository"
	"github.com/qalamart/storeapi/pkg/errors"
)

type catalogRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewCatalogRepository creates a new catalog repository
func NewCatalogRepository(db *sql.DB, logger *zap.Logger) *catalogRepository {
	return &catalogRepository{
		db:     db,
		logger: logger,
	}
}

// productRow mirrors the products table. Mapping between row and domain
// entity is explicit in both directions.
type productRow struct {
	ID            int64
	Title         string
	Description   string
	Price         decimal.Decimal
	OriginalPrice decimal.NullDecimal
	Image         string
	Category      string
	Dimensions    sql.NullString
	Medium        sql.NullString
	Style         sql.NullString
	InStock       bool
	Featured      bool
	Tags          pq.StringArray
	Rating        sql.NullFloat64
	Reviews       sql.NullInt64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (r productRow) toDomain() *domain.Product {
	p := &domain.Product{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Price:       r.Price,
		Image:       r.Image,
		Category:    r.Category,
		InStock:     r.InStock,
		Featured:    r.Featured,
		Tags:        []string(r.Tags),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.OriginalPrice.Valid {
		p.OriginalPrice = &r.OriginalPrice.Decimal
	}
	if r.Dimensions.Valid {
		p.Dimensions = &r.Dimensions.String
	}
	if r.Medium.Valid {
		p.Medium = &r.Medium.String
	}
	if r.Style.Valid {
		p.Style = &r.Style.String
	}
	if r.Rating.Valid {
		p.Rating = &r.Rating.Float64
	}
	if r.Reviews.Valid {
		reviews := int(r.Reviews.Int64)
		p.Reviews = &reviews
	}
	return p
}

func productToRow(p *domain.Product) productRow {
	row := productRow{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price,
		Image:       p.Image,
		Category:    p.Category,
		InStock:     p.InStock,
		Featured:    p.Featured,
		Tags:        pq.StringArray(p.Tags),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.OriginalPrice != nil {
		row.OriginalPrice = decimal.NullDecimal{Decimal: *p.OriginalPrice, Valid: true}
	}
	if p.Dimensions != nil {
		row.Dimensions = sql.NullString{String: *p.Dimensions, Valid: true}
	}
	if p.Medium != nil {
		row.Medium = sql.NullString{String: *p.Medium, Valid: true}
	}
	if p.Style != nil {
		row.Style = sql.NullString{String: *p.Style, Valid: true}
	}
	if p.Rating != nil {
		row.Rating = sql.NullFloat64{Float64: *p.Rating, Valid: true}
	}
	if p.Reviews != nil {
		row.Reviews = sql.NullInt64{Int64: int64(*p.Reviews), Valid: true}
	}
	return row
}

const productColumns = `id, title, description, price, original_price, image, category,
	dimensions, medium, style, in_stock, featured, tags, rating, reviews,
	created_at, updated_at`

func scanProduct(scan func(dest ...interface{}) error) (*domain.Product, error) {
	var row productRow
	err := scan(
		&row.ID,
		&row.Title,
		&row.Description,
		&row.Price,
		&row.OriginalPrice,
		&row.Image,
		&row.Category,
		&row.Dimensions,
		&row.Medium,
		&row.Style,
		&row.InStock,
		&row.Featured,
		&row.Tags,
		&row.Rating,
		&row.Reviews,
		&row.CreatedAt,
		&row.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

func (r *catalogRepository) List(ctx context.Context, filter repository.ProductFilter) ([]*domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE ($1 = '' OR category = $1)
		  AND ($2::boolean IS NULL OR featured = $2)
		  AND ($3::boolean IS NULL OR in_stock = $3)
		ORDER BY created_at DESC
		LIMIT $4 OFFSET $5
	`

	limit := filter.Limit
	if limit < 1 || limit > 100 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	var featured, inStock sql.NullBool
	if filter.Featured != nil {
		featured = sql.NullBool{Bool: *filter.Featured, Valid: true}
	}
	if filter.InStock != nil {
		inStock = sql.NullBool{Bool: *filter.InStock, Valid: true}
	}

	rows, err := r.db.QueryContext(ctx, query, filter.Category, featured, inStock, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list products", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	products := make([]*domain.Product, 0)
	for rows.Next() {
		product, err := scanProduct(rows.Scan)
		if err != nil {
			r.logger.Error("Failed to scan product", zap.Error(err))
			return nil, err
		}
		products = append(products, product)
	}

	return products, rows.Err()
}

func (r *catalogRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE id = $1
	`

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id).Scan)
	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "product", ID: formatID(id)}
	}
	if err != nil {
		r.logger.Error("Failed to get product by ID", zap.Error(err))
		return nil, err
	}

	return product, nil
}

func (r *catalogRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (title, description, price, original_price, image, category,
			dimensions, medium, style, in_stock, featured, tags, rating, reviews,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id
	`

	now := time.Now()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	product.UpdatedAt = now

	row := productToRow(product)
	err := r.db.QueryRowContext(ctx, query,
		row.Title,
		row.Description,
		row.Price,
		row.OriginalPrice,
		row.Image,
		row.Category,
		row.Dimensions,
		row.Medium,
		row.Style,
		row.InStock,
		row.Featured,
		row.Tags,
		row.Rating,
		row.Reviews,
		row.CreatedAt,
		row.UpdatedAt,
	).Scan(&product.ID)

	if err != nil {
		r.logger.Error("Failed to create product", zap.Error(err))
		return err
	}

	return nil
}

func (r *catalogRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET title = $2, description = $3, price = $4, original_price = $5, image = $6,
			category = $7, dimensions = $8, medium = $9, style = $10, in_stock = $11,
			featured = $12, tags = $13, rating = $14, reviews = $15, updated_at = $16
		WHERE id = $1
	`

	product.UpdatedAt = time.Now()
	row := productToRow(product)

	result, err := r.db.ExecContext(ctx, query,
		row.ID,
		row.Title,
		row.Description,
		row.Price,
		row.OriginalPrice,
		row.Image,
		row.Category,
		row.Dimensions,
		row.Medium,
		row.Style,
		row.InStock,
		row.Featured,
		row.Tags,
		row.Rating,
		row.Reviews,
		row.UpdatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to update product", zap.Error(err))
		return err
	}

	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return &errors.ErrNotFound{Resource: "product", ID: formatID(product.ID)}
	}

	return nil
}

func (r *catalogRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM products WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to delete product", zap.Error(err))
		return err
	}

	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return &errors.ErrNotFound{Resource: "product", ID: formatID(id)}
	}

	return nil
}
