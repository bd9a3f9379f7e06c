package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kawaii-shop/backend/internal/models"
	"github.com/kawaii-shop/backend/internal/utils"
	"github.com/google/uuid"
)

type ProductRepository interface {
	CreateProduct(ctx context.Context, product *models.Product) error
	GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	ListProducts(ctx context.Context, filter *models.ProductFilter, page, size int) ([]*models.Product, int, error)
}

type productRepository struct {
	DB *sql.DB
}

func NewProductRepo(db *sql.DB) ProductRepository {
	return &productRepository{DB: db}
}

const productColumns = `id, name, description, category, subcategory, images, price, stock,
	dimensions, material, anime_series, sizes, colors, fit_type, popularity_score, created_at, updated_at`

func (r *productRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	images, sizes, colors, err := marshalVariantAxes(product)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO products (id, name, description, category, subcategory, images, price, stock,
			dimensions, material, anime_series, sizes, colors, fit_type, popularity_score, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	return r.DB.QueryRowContext(dbCtx, query,
		product.ID, product.Name, product.Description, product.Category, product.Subcategory,
		images, product.Price, product.Stock, product.Dimensions, product.Material,
		product.AnimeSeries, sizes, colors, product.FitType, product.PopularityScore,
	).Scan(&product.CreatedAt, &product.UpdatedAt)
}

func (r *productRepository) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE id = $1`

	row := r.DB.QueryRowContext(dbCtx, query, id)

	product, err := scanProduct(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("querying database: %w", err)
	}

	return product, nil
}

func (r *productRepository) UpdateProduct(ctx context.Context, product *models.Product) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	images, sizes, colors, err := marshalVariantAxes(product)
	if err != nil {
		return err
	}

	query := `
		UPDATE products
		SET name = $1, description = $2, category = $3, subcategory = $4, images = $5, price = $6,
			stock = $7, dimensions = $8, material = $9, anime_series = $10, sizes = $11, colors = $12,
			fit_type = $13, popularity_score = $14, updated_at = NOW()
		WHERE id = $15
		RETURNING updated_at
	`

	return r.DB.QueryRowContext(dbCtx, query,
		product.Name, product.Description, product.Category, product.Subcategory, images,
		product.Price, product.Stock, product.Dimensions, product.Material, product.AnimeSeries,
		sizes, colors, product.FitType, product.PopularityScore, product.ID,
	).Scan(&product.UpdatedAt)
}

func (r *productRepository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `DELETE FROM products WHERE id = $1`

	result, err := r.DB.ExecContext(dbCtx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	deletedRows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get deleted rows: %w", err)
	}

	if deletedRows == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// ListProducts builds the filter clause dynamically: exact match on
// category/subcategory, case-insensitive substring on anime_series, and
// an OR'd case-insensitive search over name/description/anime_series.
func (r *productRepository) ListProducts(ctx context.Context, filter *models.ProductFilter, page, size int) ([]*models.Product, int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var conditions []string
	var args []any

	addArg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Category != "" {
		conditions = append(conditions, "category = "+addArg(filter.Category))
	}
	if filter.Subcategory != "" {
		conditions = append(conditions, "subcategory = "+addArg(filter.Subcategory))
	}
	if filter.AnimeSeries != "" {
		conditions = append(conditions, "anime_series ILIKE "+addArg("%"+filter.AnimeSeries+"%"))
	}
	if filter.Search != "" {
		term := addArg("%" + filter.Search + "%")
		conditions = append(conditions,
			"(name ILIKE "+term+" OR description ILIKE "+term+" OR anime_series ILIKE "+term+")")
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int

	countQuery := `SELECT COUNT(*) FROM products` + where

	err := r.DB.QueryRowContext(dbCtx, countQuery, args...).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	// Offset
	offset := (page - 1) * size

	query := `SELECT ` + productColumns + ` FROM products` + where +
		` ORDER BY ` + orderClause(filter) +
		` LIMIT ` + addArg(size) + ` OFFSET ` + addArg(offset)

	rows, err := r.DB.QueryContext(dbCtx, query, args...)
	if err != nil {
		return nil, 0, err
	}

	defer rows.Close()

	var products []*models.Product

	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}

		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

// orderClause maps the public sort keys to SQL. price_low/price_high and
// popularity force their own direction; sort_order only steers created_at.
func orderClause(filter *models.ProductFilter) string {
	switch filter.SortBy {
	case models.SortByPriceLow:
		return "price ASC"
	case models.SortByPriceHigh:
		return "price DESC"
	case models.SortByPopularity:
		return "popularity_score DESC"
	default:
		if filter.SortOrder == "asc" {
			return "created_at ASC"
		}
		return "created_at DESC"
	}
}

func marshalVariantAxes(product *models.Product) ([]byte, []byte, []byte, error) {
	images, err := json.Marshal(product.Images)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to marshal images: %w", err)
	}

	sizes, err := json.Marshal(product.Sizes)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to marshal sizes: %w", err)
	}

	colors, err := json.Marshal(product.Colors)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to marshal colors: %w", err)
	}

	return images, sizes, colors, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*models.Product, error) {
	product := &models.Product{}

	var images, sizes, colors []byte

	err := row.Scan(&product.ID, &product.Name, &product.Description, &product.Category,
		&product.Subcategory, &images, &product.Price, &product.Stock, &product.Dimensions,
		&product.Material, &product.AnimeSeries, &sizes, &colors, &product.FitType,
		&product.PopularityScore, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(images, &product.Images); err != nil {
		return nil, fmt.Errorf("failed to unmarshal images: %w", err)
	}
	if err := json.Unmarshal(sizes, &product.Sizes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sizes: %w", err)
	}
	if err := json.Unmarshal(colors, &product.Colors); err != nil {
		return nil, fmt.Errorf("failed to unmarshal colors: %w", err)
	}

	return product, nil
}
