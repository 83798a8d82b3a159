package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/tra18/systeme-gestion-stock/internal/application/dto"
	"github.com/tra18/systeme-gestion-stock/internal/domain"
	"github.com/tra18/systeme-gestion-stock/internal/domain/entity"
	"github.com/tra18/systeme-gestion-stock/internal/domain/repository"
	"github.com/tra18/systeme-gestion-stock/pkg/jwt"
)

// UseCase autenticación y alta de usuarios. Emite tokens JWT con el conjunto
// de capabilities ya resuelto, para que el resto del sistema no consulte la DB
// por permisos.
type UseCase struct {
	userRepo   repository.UserRepository
	jwtSecret  string
	jwtIssuer  string
	expMinutes int
	now        func() time.Time
}

// NewUseCase construye el caso de uso de autenticación.
func NewUseCase(userRepo repository.UserRepository, jwtSecret, jwtIssuer string, expMinutes int) *UseCase {
	return &UseCase{
		userRepo:   userRepo,
		jwtSecret:  jwtSecret,
		jwtIssuer:  jwtIssuer,
		expMinutes: expMinutes,
		now:        time.Now,
	}
}

// Login valida credenciales y emite un token. Credenciales inválidas y usuario
// inexistente responden igual, sin distinguir el caso.
func (uc *UseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	if in.Username == "" || in.Password == "" {
		return nil, domain.ErrInvalidInput
	}
	user, err := uc.userRepo.GetByUsername(in.Username)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}

	caps := entity.CapabilitiesForRole(user.Role, user.CanAccessPurchases, user.CanManageUsers)
	token, err := jwt.Generate(uc.jwtSecret, user.ID, user.FullName, user.Role, caps.Strings(), uc.jwtIssuer, uc.expMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:        token,
		UserID:       user.ID,
		Name:         user.FullName,
		Role:         user.Role,
		Capabilities: caps.Strings(),
	}, nil
}

// Register crea un usuario nuevo. Requiere capability manage_users en el actor.
func (uc *UseCase) Register(ctx context.Context, actor entity.Actor, in dto.RegisterUserRequest) (*entity.User, error) {
	if !actor.Can(entity.CapManageUsers) {
		return nil, domain.ErrUnauthorized
	}
	if in.Username == "" || in.Password == "" || in.FullName == "" {
		return nil, domain.ErrInvalidInput
	}
	if len(in.Password) < 6 {
		return nil, domain.ErrInvalidInput
	}
	role := in.Role
	if role == "" {
		role = entity.RoleUser
	}
	switch role {
	case entity.RoleAdmin, entity.RoleManager, entity.RoleUser, entity.RoleViewer:
	default:
		return nil, domain.ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	user := &entity.User{
		ID:                 uuid.New().String(),
		Username:           strings.ToLower(strings.TrimSpace(in.Username)),
		Email:              strings.ToLower(strings.TrimSpace(in.Email)),
		FullName:           in.FullName,
		PasswordHash:       string(hash),
		Role:               role,
		IsActive:           true,
		CanAccessPurchases: in.CanAccessPurchases,
		CanManageUsers:     in.CanManageUsers,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := uc.userRepo.Create(user); err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

// ListUsers lista usuarios (requiere manage_users).
func (uc *UseCase) ListUsers(ctx context.Context, actor entity.Actor, limit, offset int) ([]*entity.User, error) {
	if !actor.Can(entity.CapManageUsers) {
		return nil, domain.ErrUnauthorized
	}
	users, err := uc.userRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		u.PasswordHash = ""
	}
	return users, nil
}
