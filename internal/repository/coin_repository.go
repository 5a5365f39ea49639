package repository

import (
	"context"

	"gorm.io/gorm"

	"xchain-backend/internal/errs"
	"xchain-backend/internal/models"
)

// CoinRepository defines the interface for Coin data access
type CoinRepository interface {
	Create(ctx context.Context, coin *models.Coin) error
	Get(ctx context.Context, code string) (*models.Coin, error)
	Exists(ctx context.Context, code string) (bool, error)
	Delete(ctx context.Context, code string) error
	List(ctx context.Context) ([]*models.Coin, error)
}

type coinRepository struct {
	db *gorm.DB
}

// NewCoinRepository creates a new CoinRepository instance
func NewCoinRepository(db *gorm.DB) CoinRepository {
	return &coinRepository{db: db}
}

func (r *coinRepository) Create(ctx context.Context, coin *models.Coin) error {
	return translate(r.db.WithContext(ctx).Create(coin).Error, "create coin")
}

func (r *coinRepository) Get(ctx context.Context, code string) (*models.Coin, error) {
	var coin models.Coin
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&coin).Error
	if err != nil {
		if IsNotFound(translate(err, "")) {
			return nil, errs.NotFound("coin not found: %s", code)
		}
		return nil, translate(err, "get coin")
	}
	return &coin, nil
}

func (r *coinRepository) Exists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Coin{}).Where("code = ?", code).Count(&count).Error
	if err != nil {
		return false, translate(err, "count coin")
	}
	return count > 0, nil
}

func (r *coinRepository) Delete(ctx context.Context, code string) error {
	res := r.db.WithContext(ctx).Where("code = ?", code).Delete(&models.Coin{})
	if res.Error != nil {
		return translate(res.Error, "delete coin")
	}
	if res.RowsAffected == 0 {
		return errs.NotFound("coin not found: %s", code)
	}
	return nil
}

func (r *coinRepository) List(ctx context.Context) ([]*models.Coin, error) {
	var coins []*models.Coin
	if err := r.db.WithContext(ctx).Order("code ASC").Find(&coins).Error; err != nil {
		return nil, translate(err, "list coins")
	}
	return coins, nil
}
