package service

import (
	"context"

	"classbook-backend/internal/domain"
	"classbook-backend/internal/repository"
)

type notificationService struct {
	noteRepo repository.NotificationRepository
}

func NewNotificationService(noteRepo repository.NotificationRepository) NotificationService {
	return &notificationService{noteRepo: noteRepo}
}

func (s *notificationService) List(ctx context.Context, memberID int32, limit, offset int32) ([]domain.Notification, int32, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.noteRepo.List(ctx, memberID, limit, offset)
}

func (s *notificationService) MarkAsRead(ctx context.Context, memberID, notificationID int32) error {
	return s.noteRepo.MarkAsRead(ctx, notificationID, memberID)
}
