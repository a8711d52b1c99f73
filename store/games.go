package store

import (
	"context"
	"fmt"

	"gamevault/models"

	"github.com/juju/errors"
	"gorm.io/gorm"
)

// ErrGameNotFound is returned (wrapped) when an id does not resolve.
var ErrGameNotFound = errors.NewNotFound(nil, "game not found!")

// StorageError wraps a failure of the underlying database.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return fmt.Sprintf("storage: %s: %v", e.Op, e.Err) }
func (e *StorageError) Unwrap() error { return e.Err }

// GameStore persists games. Implementations must be safe for concurrent use.
type GameStore interface {
	Create(ctx context.Context, game *models.Game) error
	List(ctx context.Context) ([]models.Game, error)
	Get(ctx context.Context, id uint) (*models.Game, error)
	// Update loads the game, lets mutate change it and saves the result as
	// one unit of work. Nothing is written when mutate returns an error.
	Update(ctx context.Context, id uint, mutate func(*models.Game) error) (*models.Game, error)
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}

// GormGameStore is the GameStore backed by GORM.
type GormGameStore struct{ db *gorm.DB }

var _ GameStore = (*GormGameStore)(nil)

func NewGormGameStore(db *gorm.DB) *GormGameStore { return &GormGameStore{db: db} }

func (s *GormGameStore) Create(ctx context.Context, game *models.Game) error {
	game.ID = 0
	if err := s.db.WithContext(ctx).Create(game).Error; err != nil {
		return &StorageError{Op: "create", Err: err}
	}
	return nil
}

func (s *GormGameStore) List(ctx context.Context) ([]models.Game, error) {
	games := []models.Game{}
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&games).Error; err != nil {
		return nil, &StorageError{Op: "list", Err: err}
	}
	return games, nil
}

func (s *GormGameStore) Get(ctx context.Context, id uint) (*models.Game, error) {
	return first(s.db.WithContext(ctx), id)
}

func (s *GormGameStore) Update(ctx context.Context, id uint, mutate func(*models.Game) error) (*models.Game, error) {
	var updated *models.Game
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		game, err := first(tx, id)
		if err != nil {
			return err
		}
		if err := mutate(game); err != nil {
			return err
		}
		game.ID = id
		if err := tx.Save(game).Error; err != nil {
			return &StorageError{Op: "update", Err: err}
		}
		updated = game
		return nil
	})
	if err != nil {
		var storageErr *StorageError
		if errors.Is(err, errors.NotFound) || errors.Is(err, errors.NotValid) || errors.As(err, &storageErr) {
			return nil, err
		}
		// Transaction begin/commit failures
		return nil, &StorageError{Op: "update", Err: err}
	}
	return updated, nil
}

func (s *GormGameStore) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.Game{}, id)
	if result.Error != nil {
		return &StorageError{Op: "delete", Err: result.Error}
	}
	if result.RowsAffected == 0 {
		return errors.Annotatef(ErrGameNotFound, "game %d", id)
	}
	return nil
}

func (s *GormGameStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Game{}).Count(&n).Error; err != nil {
		return 0, &StorageError{Op: "count", Err: err}
	}
	return n, nil
}

func first(tx *gorm.DB, id uint) (*models.Game, error) {
	var game models.Game
	err := tx.First(&game, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Annotatef(ErrGameNotFound, "game %d", id)
	}
	if err != nil {
		return nil, &StorageError{Op: "get", Err: err}
	}
	return &game, nil
}
