package repository

import (
	"context"

	"gorm.io/gorm"

	"xchain-backend/internal/errs"
	"xchain-backend/internal/models"
)

// AddressRepository defines the interface for AccountXChainAddress data access
type AddressRepository interface {
	Create(ctx context.Context, addr *models.AccountXChainAddress) error
	Update(ctx context.Context, addr *models.AccountXChainAddress) error
	Get(ctx context.Context, account, baseChain string, walletID uint32) (*models.AccountXChainAddress, error)
	GetByXinToHash(ctx context.Context, hash string) (*models.AccountXChainAddress, error)
	ListByAccount(ctx context.Context, account string) ([]*models.AccountXChainAddress, error)
}

type addressRepository struct {
	db *gorm.DB
}

// NewAddressRepository creates a new AddressRepository instance
func NewAddressRepository(db *gorm.DB) AddressRepository {
	return &addressRepository{db: db}
}

func (r *addressRepository) Create(ctx context.Context, addr *models.AccountXChainAddress) error {
	return translate(r.db.WithContext(ctx).Create(addr).Error, "create xchain address")
}

func (r *addressRepository) Update(ctx context.Context, addr *models.AccountXChainAddress) error {
	return translate(r.db.WithContext(ctx).Save(addr).Error, "update xchain address")
}

func (r *addressRepository) Get(ctx context.Context, account, baseChain string, walletID uint32) (*models.AccountXChainAddress, error) {
	var addr models.AccountXChainAddress
	err := r.db.WithContext(ctx).
		Where("account = ? AND base_chain = ? AND mulsign_wallet_id = ?", account, baseChain, walletID).
		First(&addr).Error
	if err != nil {
		if IsNotFound(translate(err, "")) {
			return nil, errs.NotFound("xchain address not found: %s/%s/%d", account, baseChain, walletID)
		}
		return nil, translate(err, "get xchain address")
	}
	return &addr, nil
}

func (r *addressRepository) GetByXinToHash(ctx context.Context, hash string) (*models.AccountXChainAddress, error) {
	var addr models.AccountXChainAddress
	err := r.db.WithContext(ctx).Where("xin_to_hash = ?", hash).First(&addr).Error
	if err != nil {
		if IsNotFound(translate(err, "")) {
			return nil, errs.NotFound("xin_to address not found")
		}
		return nil, translate(err, "get xchain address by xin_to")
	}
	return &addr, nil
}

func (r *addressRepository) ListByAccount(ctx context.Context, account string) ([]*models.AccountXChainAddress, error) {
	var addrs []*models.AccountXChainAddress
	q := r.db.WithContext(ctx).Order("id ASC")
	if account != "" {
		q = q.Where("account = ?", account)
	}
	if err := q.Find(&addrs).Error; err != nil {
		return nil, translate(err, "list xchain addresses")
	}
	return addrs, nil
}
