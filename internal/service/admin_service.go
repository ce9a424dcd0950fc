package service

import (
	"context"
	"crypto/subtle"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jengzang/grenades-backend-go/internal/auth"
	"github.com/jengzang/grenades-backend-go/internal/models"
	"github.com/jengzang/grenades-backend-go/internal/repository"
	"github.com/jengzang/grenades-backend-go/internal/sanitize"
	"github.com/jengzang/grenades-backend-go/internal/spatial"
)

// AdminConfig holds the admin credentials
type AdminConfig struct {
	Username     string
	PasswordHash string
	SnapRadius   float64
}

// AdminService serves the setup editor: login, reusable data and position helpers
type AdminService struct {
	cfg       AdminConfig
	issuer    *auth.Issuer
	positions *repository.PositionRepository
	combos    *repository.KeyComboRepository
	users     *repository.UserRepository
	catalog   *CatalogService
	log       zerolog.Logger
}

// NewAdminService creates a new admin service
func NewAdminService(
	cfg AdminConfig,
	issuer *auth.Issuer,
	positions *repository.PositionRepository,
	combos *repository.KeyComboRepository,
	users *repository.UserRepository,
	catalog *CatalogService,
	log zerolog.Logger,
) *AdminService {
	return &AdminService{
		cfg:       cfg,
		issuer:    issuer,
		positions: positions,
		combos:    combos,
		users:     users,
		catalog:   catalog,
		log:       log,
	}
}

// Username is the keyword carried by admin tokens
func (s *AdminService) Username() string {
	return s.cfg.Username
}

// Login checks the admin password and issues an admin token
func (s *AdminService) Login(username, password string) (models.TokenResponse, error) {
	nameOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.cfg.Username)) == 1
	if !nameOK || !auth.CheckPassword(s.cfg.PasswordHash, password) {
		s.log.Warn().Str("username", username).Msg("Admin login rejected")
		return models.TokenResponse{}, fmt.Errorf("%w: incorrect username or password", ErrUnauthorized)
	}

	token, err := s.issuer.Issue(s.cfg.Username)
	if err != nil {
		return models.TokenResponse{}, err
	}
	return models.TokenResponse{AccessToken: token, TokenType: "bearer"}, nil
}

// Data lists the saved positions of a map and every key combo
func (s *AdminService) Data(ctx context.Context, m models.CsMap) (models.AdminData, error) {
	if !m.Valid() {
		return models.AdminData{}, fmt.Errorf("%w: unknown map %q", ErrInvalidInput, m)
	}
	positions, err := s.positions.ListByMap(ctx, m)
	if err != nil {
		return models.AdminData{}, err
	}
	combos, err := s.combos.List(ctx)
	if err != nil {
		return models.AdminData{}, err
	}
	return models.AdminData{MapPositions: positions, KeyCombos: combos}, nil
}

// Enums lists every accepted enumeration value
func (s *AdminService) Enums() models.EnumValues {
	return models.AllEnumValues()
}

// SuggestRequest is a click on the rendered radar image
type SuggestRequest struct {
	Map    models.CsMap `json:"map_name" binding:"required"`
	X      float64      `json:"x"`
	Y      float64      `json:"y"`
	Width  float64      `json:"width" binding:"required"`
	Height float64      `json:"height" binding:"required"`
}

// Suggestion is the position derived from a click and the saved one it snaps to, if any
type Suggestion struct {
	Position models.Position     `json:"position"`
	Existing *models.MapPosition `json:"existing,omitempty"`
}

// SuggestPosition converts a click into a position and looks for a saved position nearby,
// so the editor can reuse it instead of creating a duplicate
func (s *AdminService) SuggestPosition(ctx context.Context, req SuggestRequest) (Suggestion, error) {
	if !req.Map.Valid() {
		return Suggestion{}, fmt.Errorf("%w: unknown map %q", ErrInvalidInput, req.Map)
	}
	if req.Width <= 0 || req.Height <= 0 {
		return Suggestion{}, fmt.Errorf("%w: image size must be positive", ErrInvalidInput)
	}

	out := Suggestion{Position: spatial.FromClick(req.X, req.Y, req.Width, req.Height)}
	positions, err := s.positions.ListByMap(ctx, req.Map)
	if err != nil {
		return Suggestion{}, err
	}
	if p, ok := spatial.Nearest(positions, out.Position, s.cfg.SnapRadius); ok {
		out.Existing = &p
	}
	return out, nil
}

// UpdatePosition renames or moves a saved position
func (s *AdminService) UpdatePosition(ctx context.Context, p models.MapPosition) (*models.MapPosition, error) {
	p.Name = sanitize.Text(p.Name)
	if p.Name == "" {
		return nil, fmt.Errorf("%w: position name is required", ErrInvalidInput)
	}
	p.Position = models.NewPosition(p.Position.Top, p.Position.Left)
	if err := p.Position.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.positions.Update(ctx, p); err != nil {
		return nil, err
	}
	saved, err := s.positions.GetByID(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	s.catalog.Invalidate(saved.Map)
	return saved, nil
}

// DeletePosition removes a position along with every grenade using it
func (s *AdminService) DeletePosition(ctx context.Context, id int64) error {
	p, err := s.positions.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.positions.Delete(ctx, id); err != nil {
		return err
	}
	s.catalog.Invalidate(p.Map)
	s.log.Info().Int64("position_id", id).Str("map", string(p.Map)).Msg("Map position deleted")
	return nil
}

// UpdateKeyCombo changes the text of a key combo
func (s *AdminService) UpdateKeyCombo(ctx context.Context, k models.KeyCombo) error {
	k.Text = sanitize.Text(k.Text)
	if k.Text == "" {
		return fmt.Errorf("%w: key combo text is required", ErrInvalidInput)
	}
	if err := s.combos.Update(ctx, k); err != nil {
		return err
	}
	s.catalog.InvalidateAll()
	return nil
}

// DeleteKeyCombo removes a key combo along with every grenade using it
func (s *AdminService) DeleteKeyCombo(ctx context.Context, id int64) error {
	if err := s.combos.Delete(ctx, id); err != nil {
		return err
	}
	s.catalog.InvalidateAll()
	return nil
}

// SetSubscribed records whether a user follows the channel
func (s *AdminService) SetSubscribed(ctx context.Context, userID int64, subscribed bool) error {
	return s.users.SetSubscribed(ctx, userID, subscribed)
}
