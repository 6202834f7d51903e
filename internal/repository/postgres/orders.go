package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/qalamart/storeapi/internal/domain"
	"github.com/qalamart/storeapi/internal/repository"
	"github.com/qalamart/storeapi/pkg/errors"
)

type orderRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewOrderRepository creates a new order ledger repository
func NewOrderRepository(db *sql.DB, logger *zap.Logger) *orderRepository {
	return &orderRepository{
		db:     db,
		logger: logger,
	}
}

const orderColumns = `id, reference, first_name, last_name, email, phone, address, city,
	state, postal_code, country, subtotal, shipping_fee, total_amount, status,
	payment_status, payment_method, bill_code, tracking_number, notes,
	created_at, updated_at`

func scanOrder(scan func(dest ...interface{}) error) (*domain.Order, error) {
	var order domain.Order
	var billCode, trackingNumber, notes sql.NullString

	err := scan(
		&order.ID,
		&order.Reference,
		&order.Customer.FirstName,
		&order.Customer.LastName,
		&order.Customer.Email,
		&order.Customer.Phone,
		&order.Customer.Address,
		&order.Customer.City,
		&order.Customer.State,
		&order.Customer.PostalCode,
		&order.Customer.Country,
		&order.Subtotal,
		&order.ShippingFee,
		&order.TotalAmount,
		&order.Status,
		&order.PaymentStatus,
		&order.PaymentMethod,
		&billCode,
		&trackingNumber,
		&notes,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if billCode.Valid {
		order.BillCode = &billCode.String
	}
	if trackingNumber.Valid {
		order.TrackingNumber = &trackingNumber.String
	}
	if notes.Valid {
		order.Notes = &notes.String
	}

	return &order, nil
}

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	now := time.Now()
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	if order.UpdatedAt.IsZero() {
		order.UpdatedAt = now
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.logger.Error("Failed to begin transaction", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO orders (id, reference, first_name, last_name, email, phone, address,
			city, state, postal_code, country, subtotal, shipping_fee, total_amount,
			status, payment_status, payment_method, bill_code, tracking_number, notes,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
			$17, $18, $19, $20, $21, $22)
	`

	_, err = tx.ExecContext(ctx, query,
		order.ID,
		order.Reference,
		order.Customer.FirstName,
		order.Customer.LastName,
		order.Customer.Email,
		order.Customer.Phone,
		order.Customer.Address,
		order.Customer.City,
		order.Customer.State,
		order.Customer.PostalCode,
		order.Customer.Country,
		order.Subtotal,
		order.ShippingFee,
		order.TotalAmount,
		order.Status,
		order.PaymentStatus,
		order.PaymentMethod,
		order.BillCode,
		order.TrackingNumber,
		order.Notes,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create order", zap.Error(err))
		return err
	}

	itemQuery := `
		INSERT INTO order_items (id, order_id, product_id, product_name, product_image,
			price, quantity)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	for i := range order.Items {
		item := &order.Items[i]
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		item.OrderID = order.ID

		_, err = tx.ExecContext(ctx, itemQuery,
			item.ID,
			item.OrderID,
			item.ProductID,
			item.ProductName,
			item.ProductImage,
			item.Price,
			item.Quantity,
		)
		if err != nil {
			r.logger.Error("Failed to create order item", zap.Error(err))
			return err
		}
	}

	return tx.Commit()
}

func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE id = $1
	`

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id).Scan)
	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "order", ID: id.String()}
	}
	if err != nil {
		r.logger.Error("Failed to get order by ID", zap.Error(err))
		return nil, err
	}

	if err := r.loadItems(ctx, order); err != nil {
		return nil, err
	}

	return order, nil
}

func (r *orderRepository) GetByReference(ctx context.Context, reference string) (*domain.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE reference = $1
	`

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, reference).Scan)
	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "order", ID: reference}
	}
	if err != nil {
		r.logger.Error("Failed to get order by reference", zap.Error(err))
		return nil, err
	}

	if err := r.loadItems(ctx, order); err != nil {
		return nil, err
	}

	return order, nil
}

func (r *orderRepository) loadItems(ctx context.Context, order *domain.Order) error {
	query := `
		SELECT id, order_id, product_id, product_name, product_image, price, quantity
		FROM order_items
		WHERE order_id = $1
		ORDER BY product_id
	`

	rows, err := r.db.QueryContext(ctx, query, order.ID)
	if err != nil {
		r.logger.Error("Failed to load order items", zap.Error(err))
		return err
	}
	defer rows.Close()

	items := make([]domain.OrderItem, 0)
	for rows.Next() {
		var item domain.OrderItem
		err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.ProductName,
			&item.ProductImage,
			&item.Price,
			&item.Quantity,
		)
		if err != nil {
			r.logger.Error("Failed to scan order item", zap.Error(err))
			return err
		}
		items = append(items, item)
	}

	order.Items = items
	return rows.Err()
}

func (r *orderRepository) List(ctx context.Context, filter repository.OrderFilter) ([]*domain.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	limit := filter.Limit
	if limit < 1 || limit > 100 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	rows, err := r.db.QueryContext(ctx, query, string(filter.Status), limit, offset)
	if err != nil {
		r.logger.Error("Failed to list orders", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	orders := make([]*domain.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows.Scan)
		if err != nil {
			r.logger.Error("Failed to scan order", zap.Error(err))
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, order := range orders {
		if err := r.loadItems(ctx, order); err != nil {
			return nil, err
		}
	}

	return orders, nil
}

// Field-level update statements: concurrent writers to different fields of
// the same order (admin sets tracking while the callback sets payment
// status) must both survive.

func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error {
	return r.updateField(ctx, id, `UPDATE orders SET status = $2, updated_at = $3 WHERE id = $1`, string(status))
}

func (r *orderRepository) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status domain.PaymentStatus) error {
	return r.updateField(ctx, id, `UPDATE orders SET payment_status = $2, updated_at = $3 WHERE id = $1`, string(status))
}

func (r *orderRepository) UpdateTracking(ctx context.Context, id uuid.UUID, trackingNumber string) error {
	return r.updateField(ctx, id, `UPDATE orders SET tracking_number = $2, updated_at = $3 WHERE id = $1`, trackingNumber)
}

func (r *orderRepository) UpdateNotes(ctx context.Context, id uuid.UUID, notes string) error {
	return r.updateField(ctx, id, `UPDATE orders SET notes = $2, updated_at = $3 WHERE id = $1`, notes)
}

func (r *orderRepository) updateField(ctx context.Context, id uuid.UUID, query string, value string) error {
	result, err := r.db.ExecContext(ctx, query, id, value, time.Now())
	if err != nil {
		r.logger.Error("Failed to update order", zap.Error(err))
		return err
	}

	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return &errors.ErrNotFound{Resource: "order", ID: id.String()}
	}

	return nil
}

func (r *orderRepository) SalesStats(ctx context.Context) (*domain.SalesStats, error) {
	stats := &domain.SalesStats{
		PaidRevenue:    decimal.Zero,
		OrdersByStatus: make(map[domain.OrderStatus]int),
		TopProducts:    make([]domain.ProductSales, 0),
	}

	statusQuery := `
		SELECT status, COUNT(*)
		FROM orders
		GROUP BY status
	`

	rows, err := r.db.QueryContext(ctx, statusQuery)
	if err != nil {
		r.logger.Error("Failed to aggregate orders by status", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var status domain.OrderStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats.OrdersByStatus[status] = count
		stats.TotalOrders += count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	revenueQuery := `
		SELECT COALESCE(SUM(total_amount), 0)
		FROM orders
		WHERE payment_status = 'paid'
	`

	if err := r.db.QueryRowContext(ctx, revenueQuery).Scan(&stats.PaidRevenue); err != nil {
		r.logger.Error("Failed to aggregate paid revenue", zap.Error(err))
		return nil, err
	}

	topQuery := `
		SELECT oi.product_id, oi.product_name, SUM(oi.quantity),
			SUM(oi.price * oi.quantity)
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE o.payment_status = 'paid'
		GROUP BY oi.product_id, oi.product_name
		ORDER BY SUM(oi.quantity) DESC
		LIMIT 10
	`

	topRows, err := r.db.QueryContext(ctx, topQuery)
	if err != nil {
		r.logger.Error("Failed to aggregate top products", zap.Error(err))
		return nil, err
	}
	defer topRows.Close()

	for topRows.Next() {
		var row domain.ProductSales
		if err := topRows.Scan(&row.ProductID, &row.ProductName, &row.UnitsSold, &row.Revenue); err != nil {
			return nil, err
		}
		stats.TopProducts = append(stats.TopProducts, row)
	}

	return stats, topRows.Err()
}
