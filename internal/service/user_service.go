package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jengzang/grenades-backend-go/internal/auth"
	"github.com/jengzang/grenades-backend-go/internal/models"
	"github.com/jengzang/grenades-backend-go/internal/repository"
)

// UserService logs mini app users in from their Telegram init data
type UserService struct {
	botToken string
	issuer   *auth.Issuer
	users    *repository.UserRepository
	log      zerolog.Logger
}

// NewUserService creates a new user service. Regular tokens are signed by issuer.
func NewUserService(botToken string, issuer *auth.Issuer, users *repository.UserRepository, log zerolog.Logger) *UserService {
	return &UserService{botToken: botToken, issuer: issuer, users: users, log: log}
}

// Authenticate verifies the init data, records the user and issues a regular token
func (s *UserService) Authenticate(ctx context.Context, initData string) (models.TokenResponse, error) {
	if !auth.CheckWebAppSignature(s.botToken, initData) {
		return models.TokenResponse{}, fmt.Errorf("%w: %v", ErrUnauthorized, auth.ErrBadSignature)
	}
	data, err := auth.ParseInitData(initData)
	if err != nil {
		return models.TokenResponse{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	subscribed, err := s.users.Upsert(ctx, models.User{
		ID:           data.User.ID,
		Username:     data.User.Username,
		Name:         data.User.FullName(),
		LanguageCode: data.User.LanguageCode,
		InviteURL:    data.StartParam,
	})
	if err != nil {
		return models.TokenResponse{}, err
	}

	token, err := s.issuer.Issue(auth.RegularKeyword)
	if err != nil {
		return models.TokenResponse{}, err
	}
	s.log.Info().Int64("user_id", data.User.ID).Bool("subscribed", subscribed).Msg("User authenticated")
	return models.TokenResponse{AccessToken: token, TokenType: "bearer", IsSubscribed: &subscribed}, nil
}
