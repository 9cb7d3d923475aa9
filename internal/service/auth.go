package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"classbook-backend/internal/domain"
	"classbook-backend/internal/logger"
	"classbook-backend/internal/repository"
	"classbook-backend/internal/security"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("an account with this email already exists")
)

type authService struct {
	memberRepo repository.MemberRepository
	tokens     security.TokenManager
}

func NewAuthService(memberRepo repository.MemberRepository, tokens security.TokenManager) AuthService {
	return &authService{
		memberRepo: memberRepo,
		tokens:     tokens,
	}
}

func (s *authService) Register(ctx context.Context, email, name, phone, password string) (*domain.Member, string, error) {
	if existing, err := s.memberRepo.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, "", ErrEmailTaken
	} else if err != nil && !domain.IsNotFound(err) {
		return nil, "", err
	}

	if len(password) < 8 {
		return nil, "", fmt.Errorf("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	member := &domain.Member{
		Email:        email,
		Name:         name,
		Phone:        phone,
		PasswordHash: string(hash),
	}
	if err := s.memberRepo.Create(ctx, member); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.GenerateAccessToken(member.ID, member.Email)
	if err != nil {
		return nil, "", err
	}

	logger.Info("member registered", "member_id", member.ID)
	return member, token, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*domain.Member, string, error) {
	member, err := s.memberRepo.GetByEmail(ctx, email)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(member.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateAccessToken(member.ID, member.Email)
	if err != nil {
		return nil, "", err
	}
	return member, token, nil
}

func (s *authService) ChangePassword(ctx context.Context, memberID int32, oldPassword, newPassword string) error {
	member, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(member.PasswordHash), []byte(oldPassword)); err != nil {
		return ErrInvalidCredentials
	}
	if len(newPassword) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	member.PasswordHash = string(hash)
	return s.memberRepo.Update(ctx, member)
}
