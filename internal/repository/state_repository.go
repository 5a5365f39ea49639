package repository

import (
	"context"

	"gorm.io/gorm"

	"xchain-backend/internal/models"
)

// StateRepository persists the singleton GlobalState row
type StateRepository interface {
	// Get returns the stored state, or a zero state when none was saved yet.
	Get(ctx context.Context) (*models.GlobalState, error)
	Save(ctx context.Context, state *models.GlobalState) error
}

type stateRepository struct {
	db *gorm.DB
}

// NewStateRepository creates a new StateRepository instance
func NewStateRepository(db *gorm.DB) StateRepository {
	return &stateRepository{db: db}
}

func (r *stateRepository) Get(ctx context.Context) (*models.GlobalState, error) {
	var state models.GlobalState
	err := r.db.WithContext(ctx).
		Where("id = ?", models.GlobalStateID).
		Attrs(models.GlobalState{ID: models.GlobalStateID}).
		FirstOrInit(&state).Error
	if err != nil {
		return nil, translate(err, "get global state")
	}
	return &state, nil
}

func (r *stateRepository) Save(ctx context.Context, state *models.GlobalState) error {
	state.ID = models.GlobalStateID
	return translate(r.db.WithContext(ctx).Save(state).Error, "save global state")
}
