// Package service holds the game record operations. It validates input,
// calls the store and announces committed changes.
package service

import (
	"context"
	"fmt"

	"gamevault/events"
	"gamevault/models"
	"gamevault/monitoring"
	"gamevault/store"
	"gamevault/utils"

	"github.com/juju/errors"
	"github.com/sirupsen/logrus"
)

const (
	MsgMissingBody     = "Missing body in request"
	MsgMissingFields   = "Missing required fields"
	MsgNoValidValues   = "There were no valid values to be changed"
	MsgInvalidBody     = "Invalid request body"
	msgMissingFieldFmt = "Missing %s in request"
)

// ValidationError reports malformed or incomplete input.
func ValidationError(msg string) error {
	return errors.NewNotValid(nil, msg)
}

// GameService implements create, list, get, update and delete for games.
type GameService struct {
	store  store.GameStore
	events events.Publisher
	log    *logrus.Logger
}

func NewGameService(s store.GameStore, p events.Publisher, log *logrus.Logger) *GameService {
	if p == nil {
		p = events.NoopPublisher{}
	}
	return &GameService{store: s, events: p, log: log}
}

// Create stores a new game. Every field of in must be present.
func (s *GameService) Create(ctx context.Context, in models.GameInput) (*models.Game, error) {
	game, err := s.create(ctx, in)
	monitoring.ObserveOperation("create", outcome(err))
	if err != nil {
		return nil, err
	}
	monitoring.GamesStored.Inc()
	s.publish(ctx, events.NewEvent(events.GameCreated, game.ID, game))
	return game, nil
}

func (s *GameService) create(ctx context.Context, in models.GameInput) (*models.Game, error) {
	if err := utils.ValidateStruct(in); err != nil {
		if fieldErrors := utils.FieldErrors(err); len(fieldErrors) > 0 {
			return nil, ValidationError(fmt.Sprintf(msgMissingFieldFmt, fieldErrors[0].Field()))
		}
		return nil, errors.Trace(err)
	}
	game := in.Game()
	if err := validateGame(&game); err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, &game); err != nil {
		return nil, err
	}
	return &game, nil
}

// List returns every game in insertion order.
func (s *GameService) List(ctx context.Context) ([]models.Game, error) {
	games, err := s.store.List(ctx)
	monitoring.ObserveOperation("list", outcome(err))
	if err != nil {
		return nil, err
	}
	monitoring.GamesStored.Set(float64(len(games)))
	return games, nil
}

func (s *GameService) Get(ctx context.Context, id uint) (*models.Game, error) {
	game, err := s.store.Get(ctx, id)
	monitoring.ObserveOperation("get", outcome(err))
	return game, err
}

// Update merges the fields present in patch into the stored game. The game
// must exist before the patch itself is looked at.
func (s *GameService) Update(ctx context.Context, id uint, patch models.GamePatch) (*models.Game, error) {
	game, err := s.store.Update(ctx, id, func(g *models.Game) error {
		if patch.Empty() {
			return ValidationError(MsgMissingFields)
		}
		if len(patch.Recognized()) == 0 {
			return ValidationError(MsgNoValidValues)
		}
		if name, ok := patch.NullField(); ok {
			return ValidationError(name + " must not be null")
		}
		patch.ApplyTo(g)
		return validateGame(g)
	})
	monitoring.ObserveOperation("update", outcome(err))
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.NewEvent(events.GameUpdated, game.ID, game))
	return game, nil
}

func (s *GameService) Delete(ctx context.Context, id uint) error {
	err := s.store.Delete(ctx, id)
	monitoring.ObserveOperation("delete", outcome(err))
	if err != nil {
		return err
	}
	monitoring.GamesStored.Dec()
	s.publish(ctx, events.NewEvent(events.GameDeleted, id, nil))
	return nil
}

func validateGame(g *models.Game) error {
	if err := utils.ValidateStruct(g); err != nil {
		if len(utils.FieldErrors(err)) > 0 {
			return ValidationError(utils.ValidationMessage(err))
		}
		return errors.Trace(err)
	}
	return nil
}

// publish never fails the request; the change is already committed.
func (s *GameService) publish(ctx context.Context, event events.Event) {
	if err := s.events.Publish(ctx, event); err != nil {
		s.log.WithFields(logrus.Fields{
			"event":   event.Type,
			"game_id": event.GameID,
			"error":   err.Error(),
		}).Warn("Failed to publish game event")
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, errors.NotValid):
		return "invalid"
	case errors.Is(err, errors.NotFound):
		return "not_found"
	default:
		return "error"
	}
}
