package repository

import (
	"context"

	"gorm.io/gorm"

	"xchain-backend/internal/errs"
	"xchain-backend/internal/models"
)

// ChainCoinRepository defines the interface for ChainCoin data access
type ChainCoinRepository interface {
	Create(ctx context.Context, cc *models.ChainCoin) error
	Get(ctx context.Context, chain, coin string) (*models.ChainCoin, error)
	Exists(ctx context.Context, chain, coin string) (bool, error)
	Delete(ctx context.Context, chain, coin string) error
	List(ctx context.Context, chain string) ([]*models.ChainCoin, error)

	// CountByChain and CountByCoin report rows still referencing a registry entry.
	CountByChain(ctx context.Context, chain string) (int64, error)
	CountByCoin(ctx context.Context, coin string) (int64, error)
}

type chainCoinRepository struct {
	db *gorm.DB
}

// NewChainCoinRepository creates a new ChainCoinRepository instance
func NewChainCoinRepository(db *gorm.DB) ChainCoinRepository {
	return &chainCoinRepository{db: db}
}

func (r *chainCoinRepository) Create(ctx context.Context, cc *models.ChainCoin) error {
	return translate(r.db.WithContext(ctx).Create(cc).Error, "create chain coin")
}

func (r *chainCoinRepository) Get(ctx context.Context, chain, coin string) (*models.ChainCoin, error) {
	var cc models.ChainCoin
	err := r.db.WithContext(ctx).Where("chain = ? AND coin_code = ?", chain, coin).First(&cc).Error
	if err != nil {
		if IsNotFound(translate(err, "")) {
			return nil, errs.NotFound("chain coin not found: %s/%s", chain, coin)
		}
		return nil, translate(err, "get chain coin")
	}
	return &cc, nil
}

func (r *chainCoinRepository) Exists(ctx context.Context, chain, coin string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ChainCoin{}).
		Where("chain = ? AND coin_code = ?", chain, coin).
		Count(&count).Error
	if err != nil {
		return false, translate(err, "count chain coin")
	}
	return count > 0, nil
}

func (r *chainCoinRepository) Delete(ctx context.Context, chain, coin string) error {
	res := r.db.WithContext(ctx).Where("chain = ? AND coin_code = ?", chain, coin).Delete(&models.ChainCoin{})
	if res.Error != nil {
		return translate(res.Error, "delete chain coin")
	}
	if res.RowsAffected == 0 {
		return errs.NotFound("chain coin not found: %s/%s", chain, coin)
	}
	return nil
}

func (r *chainCoinRepository) List(ctx context.Context, chain string) ([]*models.ChainCoin, error) {
	var rows []*models.ChainCoin
	q := r.db.WithContext(ctx).Order("chain ASC, coin_code ASC")
	if chain != "" {
		q = q.Where("chain = ?", chain)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, translate(err, "list chain coins")
	}
	return rows, nil
}

func (r *chainCoinRepository) CountByChain(ctx context.Context, chain string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ChainCoin{}).Where("chain = ?", chain).Count(&count).Error
	return count, translate(err, "count chain coins by chain")
}

func (r *chainCoinRepository) CountByCoin(ctx context.Context, coin string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ChainCoin{}).Where("coin_code = ?", coin).Count(&count).Error
	return count, translate(err, "count chain coins by coin")
}
