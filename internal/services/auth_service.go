package services

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"orgaclients/internal/models/db_models"
	"orgaclients/internal/models/request_models"
	resp "orgaclients/internal/models/response_models"
	"orgaclients/internal/repositories"
	mem "orgaclients/pkg/memcache"
	"orgaclients/pkg/utils"
)

type AuthServiceInterface interface {
	Register(ctx context.Context, request request_models.RegisterRequest) (*db_models.User, error)
	Login(ctx context.Context, request request_models.LoginRequest) (*resp.LoginResponse, error)
	Logout(ctx context.Context, claims *utils.Claims) error
	Me(ctx context.Context, p Principal) (*resp.MeResponse, error)
}

type AuthService struct {
	userRepo  repositories.UserRepository
	orderRepo repositories.OrderRepository
	tokens    *utils.TokenManager
	denylist  mem.TokenDenylist
}

func NewAuthService(
	userRepo repositories.UserRepository,
	orderRepo repositories.OrderRepository,
	tokens *utils.TokenManager,
	denylist mem.TokenDenylist,
) AuthServiceInterface {
	return &AuthService{
		userRepo:  userRepo,
		orderRepo: orderRepo,
		tokens:    tokens,
		denylist:  denylist,
	}
}

// Register always creates a client; admins come from the seed command.
func (a *AuthService) Register(ctx context.Context, request request_models.RegisterRequest) (*db_models.User, error) {
	email := NormalizeEmail(request.Email)

	existing, err := a.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, dbFailure("find user", err)
	}
	if existing != nil {
		return nil, utils.ErrEmailAlreadyExists
	}

	hashedPassword, err := utils.HashPassword(request.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &db_models.User{
		Email:        email,
		PasswordHash: hashedPassword,
		Name:         request.Name,
		Phone:        request.Phone,
		Role:         db_models.RoleClient,
	}
	if err := a.userRepo.Insert(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, utils.ErrEmailAlreadyExists
		}
		return nil, dbFailure("insert user", err)
	}

	log.WithFields(log.Fields{"user_id": user.ID, "email": user.Email}).Info("user registered")
	return user, nil
}

func (a *AuthService) Login(ctx context.Context, request request_models.LoginRequest) (*resp.LoginResponse, error) {
	user, err := a.userRepo.FindByEmail(ctx, NormalizeEmail(request.Email))
	if err != nil {
		return nil, dbFailure("find user", err)
	}
	// Unknown email and wrong password are indistinguishable to the caller.
	if user == nil {
		return nil, utils.ErrInvalidCredentials
	}
	if err := utils.ComparePasswords(user.PasswordHash, request.Password); err != nil {
		return nil, utils.ErrInvalidCredentials
	}

	token, err := a.tokens.CreateToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	claims, err := a.tokens.ValidateToken(token)
	if err != nil {
		return nil, err
	}

	return &resp.LoginResponse{
		Token:     token,
		Role:      string(user.Role),
		ExpiresAt: claims.ExpiresAt.Unix(),
	}, nil
}

// Logout denies the token's id for the rest of its lifetime.
func (a *AuthService) Logout(ctx context.Context, claims *utils.Claims) error {
	if claims == nil || claims.ID == "" {
		return utils.ErrUnauthorized
	}
	if err := a.denylist.Revoke(ctx, claims.ID, a.tokens.Remaining(claims)); err != nil {
		log.WithError(err).Error("revoke token")
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (a *AuthService) Me(ctx context.Context, p Principal) (*resp.MeResponse, error) {
	user, err := a.userRepo.FindByID(ctx, p.UserID)
	if err != nil {
		return nil, dbFailure("find user", err)
	}
	if user == nil {
		return nil, utils.ErrUserNotFound
	}

	out := &resp.MeResponse{User: resp.NewUserView(user)}
	order, err := a.orderRepo.FindByEmail(ctx, user.Email)
	if err != nil {
		return nil, dbFailure("find order", err)
	}
	if order != nil {
		out.Order = resp.NewOrderView(order)
	}
	return out, nil
}
