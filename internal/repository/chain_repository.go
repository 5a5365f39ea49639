package repository

import (
	"context"

	"gorm.io/gorm"

	"xchain-backend/internal/errs"
	"xchain-backend/internal/models"
)

// ChainRepository defines the interface for Chain data access
type ChainRepository interface {
	Create(ctx context.Context, chain *models.Chain) error
	Get(ctx context.Context, name string) (*models.Chain, error)
	Exists(ctx context.Context, name string) (bool, error)
	Delete(ctx context.Context, name string) error
	List(ctx context.Context) ([]*models.Chain, error)
}

type chainRepository struct {
	db *gorm.DB
}

// NewChainRepository creates a new ChainRepository instance
func NewChainRepository(db *gorm.DB) ChainRepository {
	return &chainRepository{db: db}
}

func (r *chainRepository) Create(ctx context.Context, chain *models.Chain) error {
	return translate(r.db.WithContext(ctx).Create(chain).Error, "create chain")
}

func (r *chainRepository) Get(ctx context.Context, name string) (*models.Chain, error) {
	var chain models.Chain
	err := r.db.WithContext(ctx).Where("chain = ?", name).First(&chain).Error
	if err != nil {
		if IsNotFound(translate(err, "")) {
			return nil, errs.NotFound("chain not found: %s", name)
		}
		return nil, translate(err, "get chain")
	}
	return &chain, nil
}

func (r *chainRepository) Exists(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Chain{}).Where("chain = ?", name).Count(&count).Error
	if err != nil {
		return false, translate(err, "count chain")
	}
	return count > 0, nil
}

func (r *chainRepository) Delete(ctx context.Context, name string) error {
	res := r.db.WithContext(ctx).Where("chain = ?", name).Delete(&models.Chain{})
	if res.Error != nil {
		return translate(res.Error, "delete chain")
	}
	if res.RowsAffected == 0 {
		return errs.NotFound("chain not found: %s", name)
	}
	return nil
}

func (r *chainRepository) List(ctx context.Context) ([]*models.Chain, error) {
	var chains []*models.Chain
	if err := r.db.WithContext(ctx).Order("chain ASC").Find(&chains).Error; err != nil {
		return nil, translate(err, "list chains")
	}
	return chains, nil
}
