package repository

import (
	"context"

	"gorm.io/gorm"

	"xchain-backend/internal/errs"
	"xchain-backend/internal/fsm"
	"xchain-backend/internal/models"
	"xchain-backend/internal/utils"
)

// XoutOrderRepository defines the interface for XoutOrder data access
type XoutOrderRepository interface {
	Create(ctx context.Context, order *models.XoutOrder) error
	GetByID(ctx context.Context, id uint64) (*models.XoutOrder, error)
	ExistsByTxIDHash(ctx context.Context, hash string) (bool, error)
	UpdateStatus(ctx context.Context, id uint64, from, to fsm.Status, fields map[string]interface{}) error
	List(ctx context.Context, filter OrderFilter) ([]*models.XoutOrder, int64, error)
}

type xoutOrderRepository struct {
	db *gorm.DB
}

// NewXoutOrderRepository creates a new XoutOrderRepository instance
func NewXoutOrderRepository(db *gorm.DB) XoutOrderRepository {
	return &xoutOrderRepository{db: db}
}

func (r *xoutOrderRepository) Create(ctx context.Context, order *models.XoutOrder) error {
	return translate(r.db.WithContext(ctx).Create(order).Error, "create xout order")
}

func (r *xoutOrderRepository) GetByID(ctx context.Context, id uint64) (*models.XoutOrder, error) {
	var order models.XoutOrder
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&order).Error
	if err != nil {
		if IsNotFound(translate(err, "")) {
			return nil, errs.NotFound("xout order not found: %d", id)
		}
		return nil, translate(err, "get xout order")
	}
	return &order, nil
}

func (r *xoutOrderRepository) ExistsByTxIDHash(ctx context.Context, hash string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.XoutOrder{}).Where("txid_hash = ?", hash).Count(&count).Error
	if err != nil {
		return false, translate(err, "count xout order by txid")
	}
	return count > 0, nil
}

func (r *xoutOrderRepository) UpdateStatus(ctx context.Context, id uint64, from, to fsm.Status, fields map[string]interface{}) error {
	return updateStatus(r.db.WithContext(ctx).Model(&models.XoutOrder{}), "xout", id, from, to, fields)
}

func (r *xoutOrderRepository) List(ctx context.Context, filter OrderFilter) ([]*models.XoutOrder, int64, error) {
	var orders []*models.XoutOrder
	var total int64

	q := filter.apply(r.db.WithContext(ctx).Model(&models.XoutOrder{})).Session(&gorm.Session{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate(err, "count xout orders")
	}
	err := q.Order("id DESC").
		Limit(utils.ClampLimit(filter.Limit, DefaultPageSize, MaxPageSize)).
		Offset(filter.Offset).
		Find(&orders).Error
	if err != nil {
		return nil, 0, translate(err, "list xout orders")
	}
	return orders, total, nil
}
