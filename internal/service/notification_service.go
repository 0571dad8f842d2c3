package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/raulk/clock"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/campus-market/internal/domain/entity"
	"github.com/ignatzorin/campus-market/internal/domain/repository"
	"github.com/ignatzorin/campus-market/internal/logger"
)

// EventNotification имя события WebSocket для системного уведомления.
const EventNotification = "notification"

// Publisher доставляет событие подключённым клиентам пользователя.
type Publisher interface {
	BroadcastToUser(userID uuid.UUID, event string, data any) error
}

// NotificationEvent полезная нагрузка события notification.
type NotificationEvent struct {
	ID        uuid.UUID  `json:"id"`
	Type      string     `json:"type"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	RelatedID *uuid.UUID `json:"related_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// NotificationService сохраняет системные уведомления и рассылает их по WebSocket.
type NotificationService struct {
	repo      repository.NotificationRepository
	publisher Publisher
	clock     clock.Clock
	log       *logrus.Entry
}

// NewNotificationService создаёт новый сервис уведомлений. publisher может быть nil.
func NewNotificationService(repo repository.NotificationRepository, publisher Publisher, clk clock.Clock) *NotificationService {
	if clk == nil {
		clk = clock.New()
	}
	return &NotificationService{
		repo:      repo,
		publisher: publisher,
		clock:     clk,
		log:       logger.WithComponent("notifications"),
	}
}

// Notify сохраняет уведомление и отправляет его онлайн-клиентам получателя.
// Ошибка доставки по WebSocket только логируется.
func (s *NotificationService) Notify(ctx context.Context, userID uuid.UUID, kind, title, content string, relatedID uuid.UUID) error {
	n := &entity.Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      kind,
		Title:     title,
		Content:   content,
		CreatedAt: s.clock.Now().UTC(),
	}
	if relatedID != uuid.Nil {
		n.RelatedID = &relatedID
	}

	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}

	if s.publisher != nil {
		event := NotificationEvent{
			ID:        n.ID,
			Type:      n.Type,
			Title:     n.Title,
			Content:   n.Content,
			RelatedID: n.RelatedID,
			CreatedAt: n.CreatedAt,
		}
		if err := s.publisher.BroadcastToUser(userID, EventNotification, event); err != nil {
			s.log.WithFields(logrus.Fields{
				"user_id": userID,
				"error":   err,
			}).Warn("не удалось отправить уведомление по WebSocket")
		}
	}
	return nil
}

// ListNotifications возвращает список уведомлений пользователя.
func (s *NotificationService) ListNotifications(ctx context.Context, userID uuid.UUID, limit, offset int, unreadOnly bool) ([]*entity.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	return s.repo.List(ctx, userID, limit, offset, unreadOnly)
}

// MarkAsRead отмечает уведомление как прочитанное.
func (s *NotificationService) MarkAsRead(ctx context.Context, id, userID uuid.UUID) error {
	return s.repo.MarkAsRead(ctx, id, userID)
}

// MarkAllAsRead отмечает все уведомления пользователя как прочитанные.
func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

// CountUnread возвращает количество непрочитанных уведомлений.
func (s *NotificationService) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.CountUnread(ctx, userID)
}
