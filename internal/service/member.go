package service

import (
	"context"

	"classbook-backend/internal/domain"
	"classbook-backend/internal/repository"
)

type memberService struct {
	memberRepo repository.MemberRepository
}

func NewMemberService(memberRepo repository.MemberRepository) MemberService {
	return &memberService{memberRepo: memberRepo}
}

func (s *memberService) GetProfile(ctx context.Context, memberID int32) (*domain.Member, error) {
	return s.memberRepo.GetByID(ctx, memberID)
}

func (s *memberService) UpdateProfile(ctx context.Context, memberID int32, name, phone string) (*domain.Member, error) {
	member, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if name != "" {
		member.Name = name
	}
	if phone != "" {
		member.Phone = phone
	}
	if err := s.memberRepo.Update(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}
