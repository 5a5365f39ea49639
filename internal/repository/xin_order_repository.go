package repository

import (
	"context"

	"gorm.io/gorm"

	"xchain-backend/internal/errs"
	"xchain-backend/internal/fsm"
	"xchain-backend/internal/models"
	"xchain-backend/internal/utils"
)

// XinOrderRepository defines the interface for XinOrder data access
type XinOrderRepository interface {
	Create(ctx context.Context, order *models.XinOrder) error
	GetByID(ctx context.Context, id uint64) (*models.XinOrder, error)
	ExistsByTxIDHash(ctx context.Context, hash string) (bool, error)

	// UpdateStatus moves the order from -> to and applies fields in the same
	// statement; STATUS_INVALID when the order is no longer in from.
	UpdateStatus(ctx context.Context, id uint64, from, to fsm.Status, fields map[string]interface{}) error

	List(ctx context.Context, filter OrderFilter) ([]*models.XinOrder, int64, error)
}

type xinOrderRepository struct {
	db *gorm.DB
}

// NewXinOrderRepository creates a new XinOrderRepository instance
func NewXinOrderRepository(db *gorm.DB) XinOrderRepository {
	return &xinOrderRepository{db: db}
}

func (r *xinOrderRepository) Create(ctx context.Context, order *models.XinOrder) error {
	return translate(r.db.WithContext(ctx).Create(order).Error, "create xin order")
}

func (r *xinOrderRepository) GetByID(ctx context.Context, id uint64) (*models.XinOrder, error) {
	var order models.XinOrder
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&order).Error
	if err != nil {
		if IsNotFound(translate(err, "")) {
			return nil, errs.NotFound("xin order not found: %d", id)
		}
		return nil, translate(err, "get xin order")
	}
	return &order, nil
}

func (r *xinOrderRepository) ExistsByTxIDHash(ctx context.Context, hash string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.XinOrder{}).Where("txid_hash = ?", hash).Count(&count).Error
	if err != nil {
		return false, translate(err, "count xin order by txid")
	}
	return count > 0, nil
}

func (r *xinOrderRepository) UpdateStatus(ctx context.Context, id uint64, from, to fsm.Status, fields map[string]interface{}) error {
	return updateStatus(r.db.WithContext(ctx).Model(&models.XinOrder{}), "xin", id, from, to, fields)
}

func (r *xinOrderRepository) List(ctx context.Context, filter OrderFilter) ([]*models.XinOrder, int64, error) {
	var orders []*models.XinOrder
	var total int64

	q := filter.apply(r.db.WithContext(ctx).Model(&models.XinOrder{})).Session(&gorm.Session{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate(err, "count xin orders")
	}
	err := q.Order("id DESC").
		Limit(utils.ClampLimit(filter.Limit, DefaultPageSize, MaxPageSize)).
		Offset(filter.Offset).
		Find(&orders).Error
	if err != nil {
		return nil, 0, translate(err, "list xin orders")
	}
	return orders, total, nil
}
