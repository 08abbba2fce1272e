package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/vericert-api/internal/application/dto"
	"github.com/jhoicas/vericert-api/internal/application/ports"
	"github.com/jhoicas/vericert-api/internal/domain"
	"github.com/jhoicas/vericert-api/internal/domain/entity"
	"github.com/jhoicas/vericert-api/internal/domain/repository"
	"github.com/jhoicas/vericert-api/pkg/jwt"
	"github.com/jhoicas/vericert-api/pkg/logger"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro, login y perfil.
type AuthUseCase struct {
	userRepo repository.UserRepository
	mailer   ports.Mailer
	jwtCfg   JWTConfig
	log      *logger.Logger
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, mailer ports.Mailer, jwtCfg JWTConfig, log *logger.Logger) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, mailer: mailer, jwtCfg: jwtCfg, log: log}
}

// Register crea una cuenta: hashea password con bcrypt y persiste.
// Devuelve ErrEmailAlreadyExists / ErrUsernameAlreadyExists si hay colisión.
// El correo de bienvenida es best-effort: un fallo de SMTP no revierte el registro.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	if existing, _ := uc.userRepo.FindByEmail(ctx, in.Email); existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	if existing, _ := uc.userRepo.FindByUsername(ctx, in.Username); existing != nil {
		return nil, domain.ErrUsernameAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         in.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	uc.log.Info().Str("email", user.Email).Msg("usuario registrado")

	body := fmt.Sprintf("Hello %s,\n\nYour account has been successfully registered.\n\nBest,\nVeriCert Team", user.Username)
	if err := uc.mailer.Send(ctx, user.Email, "Welcome to VeriCert!", body); err != nil {
		uc.log.Warn().Err(err).Str("email", user.Email).Msg("correo de bienvenida no enviado")
	}

	return toUserResponse(user), nil
}

// Login verifica email/password, genera JWT y retorna token + usuario.
// Usuario inexistente y password incorrecto devuelven el mismo ErrUnauthorized
// para no revelar qué cuentas existen.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("email", user.Email).Msg("login correcto")

	body := fmt.Sprintf("Hello %s,\n\nWe noticed a login to your account.\nIf this wasn't you, please reset your password.\n\nBest,\nVeriCert Team", user.Username)
	if err := uc.mailer.Send(ctx, user.Email, "New Login Alert", body); err != nil {
		uc.log.Warn().Err(err).Str("email", user.Email).Msg("alerta de login no enviada")
	}

	return &dto.LoginResponse{
		Token: token,
		User:  *toUserResponse(user),
	}, nil
}

// UpdateProfile actualiza username y email de la cuenta autenticada.
// Devuelve ErrUserNotFound si el ID del token ya no existe.
func (uc *AuthUseCase) UpdateProfile(ctx context.Context, userID string, in dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	user, err := uc.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if other, _ := uc.userRepo.FindByEmail(ctx, in.Email); other != nil && other.ID != user.ID {
		return nil, domain.ErrEmailAlreadyExists
	}
	if other, _ := uc.userRepo.FindByUsername(ctx, in.Username); other != nil && other.ID != user.ID {
		return nil, domain.ErrUsernameAlreadyExists
	}
	user.Username = in.Username
	user.Email = in.Email
	user.UpdatedAt = time.Now()
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
