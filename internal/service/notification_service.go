package service

import (
	"context"

	"github.com/d60-Lab/social-graph/internal/model"
	"github.com/d60-Lab/social-graph/internal/repository"
)

const notificationLimit = 50

type NotificationService interface {
	List(ctx context.Context, userID string) ([]model.NotificationView, error)
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
}

type notificationService struct {
	repo repository.NotificationRepository
}

func NewNotificationService(repo repository.NotificationRepository) NotificationService {
	return &notificationService{repo: repo}
}

func (s *notificationService) List(ctx context.Context, userID string) ([]model.NotificationView, error) {
	res, err := s.repo.List(ctx, userID, notificationLimit)
	if err != nil {
		return nil, err
	}
	if res == nil {
		res = []model.NotificationView{}
	}
	return res, nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	return s.repo.MarkAllRead(ctx, userID)
}

func (s *notificationService) CountUnread(ctx context.Context, userID string) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}
