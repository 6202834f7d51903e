package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/qalamart/storeapi/internal/domain"
)

type paymentEventRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPaymentEventRepository creates a new payment event repository
func NewPaymentEventRepository(db *sql.DB, logger *zap.Logger) *paymentEventRepository {
	return &paymentEventRepository{
		db:     db,
		logger: logger,
	}
}

// Record inserts the callback event. The table has a unique constraint on
// (order_reference, status); a replayed callback hits the conflict and
// Record reports applied=false without an error.
func (r *paymentEventRepository) Record(ctx context.Context, event *domain.PaymentEvent) (bool, error) {
	query := `
		INSERT INTO payment_events (id, order_reference, status, bill_code, raw_status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (order_reference, status) DO NOTHING
	`

	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	result, err := r.db.ExecContext(ctx, query,
		event.ID,
		event.OrderReference,
		event.Status,
		event.BillCode,
		event.RawStatus,
		event.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to record payment event", zap.Error(err))
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

func (r *paymentEventRepository) ListByOrder(ctx context.Context, orderReference string) ([]*domain.PaymentEvent, error) {
	query := `
		SELECT id, order_reference, status, bill_code, raw_status, created_at
		FROM payment_events
		WHERE order_reference = $1
		ORDER BY created_at
	`

	rows, err := r.db.QueryContext(ctx, query, orderReference)
	if err != nil {
		r.logger.Error("Failed to list payment events", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	events := make([]*domain.PaymentEvent, 0)
	for rows.Next() {
		var event domain.PaymentEvent
		err := rows.Scan(
			&event.ID,
			&event.OrderReference,
			&event.Status,
			&event.BillCode,
			&event.RawStatus,
			&event.CreatedAt,
		)
		if err != nil {
			r.logger.Error("Failed to scan payment event", zap.Error(err))
			return nil, err
		}
		events = append(events, &event)
	}

	return events, rows.Err()
}
