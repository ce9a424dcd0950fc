package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jengzang/grenades-backend-go/internal/database"
	"github.com/jengzang/grenades-backend-go/internal/models"
	"github.com/jengzang/grenades-backend-go/internal/repository"
	"github.com/jengzang/grenades-backend-go/internal/sanitize"
)

// GrenadeService creates, edits and deletes setups on behalf of an admin
type GrenadeService struct {
	db        *sql.DB
	grenades  *repository.GrenadeRepository
	positions *repository.PositionRepository
	combos    *repository.KeyComboRepository
	catalog   *CatalogService
	log       zerolog.Logger
}

// NewGrenadeService creates a new grenade service
func NewGrenadeService(db *sql.DB, catalog *CatalogService, log zerolog.Logger) *GrenadeService {
	return &GrenadeService{
		db:        db,
		grenades:  repository.NewGrenadeRepository(db),
		positions: repository.NewPositionRepository(db),
		combos:    repository.NewKeyComboRepository(db),
		catalog:   catalog,
		log:       log,
	}
}

// SaveResult is the stored grenade plus what happened while saving it
type SaveResult struct {
	Grenade  *models.Grenade `json:"grenade"`
	Messages []string        `json:"messages"`
}

// Save creates the grenade when ng.ID is 0 and updates it otherwise.
// New positions and key combos are created in the same transaction.
func (s *GrenadeService) Save(ctx context.Context, ng models.NewGrenade) (SaveResult, error) {
	ng.Data.AdditionalInfo = sanitize.Rich(ng.Data.AdditionalInfo)
	ng.InitialPosition.Name = sanitize.Text(ng.InitialPosition.Name)
	ng.FinalPosition.Name = sanitize.Text(ng.FinalPosition.Name)
	ng.KeyCombo.Text = sanitize.Text(ng.KeyCombo.Text)
	if err := ng.Validate(); err != nil {
		return SaveResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	rec := repository.GrenadeRecord{
		ID:        ng.ID,
		Map:       ng.Map,
		Type:      ng.Type,
		Side:      ng.Side,
		Difficult: ng.Difficult,
		Data:      ng.Data,
		TgPostID:  ng.TgPostID,
		TgData:    ng.TgData,
	}
	if ng.BestTime != nil {
		score, _ := models.TimingScore(ng.BestTime.Minutes, ng.BestTime.Seconds)
		rec.Data.BestTiming = &score
	}

	var (
		messages []string
		oldMap   models.CsMap
	)
	err := database.Transaction(ctx, s.db, func(tx *sql.Tx) error {
		grenades := s.grenades.WithTx(tx)
		positions := s.positions.WithTx(tx)
		combos := s.combos.WithTx(tx)

		if ng.ID != 0 {
			old, err := grenades.GetByID(ctx, ng.ID, 0)
			if err != nil {
				return err
			}
			oldMap = old.Map
		}

		var (
			msg string
			err error
		)
		if rec.InitialPositionID, msg, err = resolvePosition(ctx, positions, ng.Map, ng.InitialPosition, "initial"); err != nil {
			return err
		}
		messages = appendMessage(messages, msg)
		if rec.FinalPositionID, msg, err = resolvePosition(ctx, positions, ng.Map, ng.FinalPosition, "final"); err != nil {
			return err
		}
		messages = appendMessage(messages, msg)
		if rec.InitialPositionID == rec.FinalPositionID {
			return fmt.Errorf("%w: initial and final position must differ", ErrInvalidInput)
		}
		if rec.KeyComboID, msg, err = resolveKeyCombo(ctx, combos, ng.KeyCombo); err != nil {
			return err
		}
		messages = appendMessage(messages, msg)

		if ng.ID == 0 {
			if err := grenades.Create(ctx, &rec); err != nil {
				return err
			}
			messages = append(messages, fmt.Sprintf("Grenade %d created", rec.ID))
			return nil
		}
		if err := grenades.Update(ctx, rec); err != nil {
			return err
		}
		messages = append(messages, fmt.Sprintf("Grenade %d updated", rec.ID))
		return nil
	})
	if err != nil {
		return SaveResult{}, err
	}

	s.catalog.Invalidate(ng.Map)
	if oldMap != "" && oldMap != ng.Map {
		s.catalog.Invalidate(oldMap)
	}

	saved, err := s.grenades.GetByID(ctx, rec.ID, 0)
	if err != nil {
		return SaveResult{}, err
	}
	s.log.Info().Int64("grenade_id", rec.ID).Str("map", string(ng.Map)).
		Strs("messages", messages).Msg("Grenade saved")
	return SaveResult{Grenade: saved, Messages: messages}, nil
}

// Delete removes a grenade
func (s *GrenadeService) Delete(ctx context.Context, id int64) error {
	g, err := s.grenades.GetByID(ctx, id, 0)
	if err != nil {
		return err
	}
	if err := s.grenades.Delete(ctx, id); err != nil {
		return err
	}
	s.catalog.Invalidate(g.Map)
	s.log.Info().Int64("grenade_id", id).Str("map", string(g.Map)).Msg("Grenade deleted")
	return nil
}

func resolvePosition(ctx context.Context, repo *repository.PositionRepository, m models.CsMap, np models.NewMapPosition, label string) (int64, string, error) {
	if np.IsReference() {
		p, err := repo.GetByID(ctx, np.ID)
		if err != nil {
			return 0, "", fmt.Errorf("%s position: %w", label, err)
		}
		if p.Map != m {
			return 0, "", fmt.Errorf("%w: %s position %d belongs to %s", ErrInvalidInput, label, p.ID, p.Map)
		}
		return p.ID, "", nil
	}

	p := models.MapPosition{Map: m, Name: np.Name, Position: *np.Position}
	if err := repo.Create(ctx, &p); err != nil {
		return 0, "", fmt.Errorf("%s position: %w", label, err)
	}
	return p.ID, fmt.Sprintf("Created %s position %q (%d)", label, p.Name, p.ID), nil
}

func resolveKeyCombo(ctx context.Context, repo *repository.KeyComboRepository, nk models.NewKeyCombo) (int64, string, error) {
	if nk.ID != 0 {
		k, err := repo.GetByID(ctx, nk.ID)
		if err != nil {
			return 0, "", fmt.Errorf("key combo: %w", err)
		}
		return k.ID, "", nil
	}

	k := models.KeyCombo{Text: nk.Text}
	if err := repo.Create(ctx, &k); err != nil {
		return 0, "", fmt.Errorf("key combo: %w", err)
	}
	return k.ID, fmt.Sprintf("Created key combo %q (%d)", k.Text, k.ID), nil
}

func appendMessage(messages []string, msg string) []string {
	if msg == "" {
		return messages
	}
	return append(messages, msg)
}
