package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/teamkrews/krews-chat/internal/apperr"
	"github.com/teamkrews/krews-chat/internal/database"
	"github.com/teamkrews/krews-chat/internal/handlers/dto"
	"github.com/teamkrews/krews-chat/internal/models"
	"github.com/teamkrews/krews-chat/pkg/auth"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	db         *database.Database
	jwtManager *auth.JWTManager
}

func NewUserService(db *database.Database, jwtManager *auth.JWTManager) *UserService {
	return &UserService{db: db, jwtManager: jwtManager}
}

func (s *UserService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.RegisterResponse, error) {
	_, err := s.db.FindUserByLoginID(ctx, req.LoginID)
	switch {
	case err == nil:
		return nil, apperr.New(apperr.LoginIDDuplicated)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("find user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		LoginID:         req.LoginID,
		NickName:        req.NickName,
		ProfileImageURL: req.ProfileImageURL,
		PasswordHash:    string(hash),
	}
	if err := s.db.SaveUser(ctx, user); err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}

	slog.InfoContext(ctx, "user registered", "user_id", user.ID)

	return &dto.RegisterResponse{UserID: user.ID}, nil
}

// Login checks the credentials and issues an access token.
func (s *UserService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.db.FindUserByLoginID(ctx, req.LoginID)
	if err != nil {
		return nil, notFound(err, apperr.LoginFailed, "find user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperr.New(apperr.LoginFailed)
	}

	token, err := s.jwtManager.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	return &dto.LoginResponse{Token: token}, nil
}

func (s *UserService) GetByID(ctx context.Context, id uint64) (*models.User, error) {
	user, err := s.db.GetUser(ctx, id)
	if err != nil {
		return nil, notFound(err, apperr.UserNotFound, "get user")
	}
	return user, nil
}

func (s *UserService) GetMe(ctx context.Context, id uint64) (*dto.MeResponse, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.MeResponse{
		UserID:          user.ID,
		LoginID:         user.LoginID,
		NickName:        user.NickName,
		ProfileImageURL: user.ProfileImageURL,
	}, nil
}
