package entity

import (
	"time"

	"github.com/google/uuid"
)

// Типы системных уведомлений.
const (
	NotificationOrder   = "ORDER"
	NotificationBargain = "BARGAIN"
	NotificationRefund  = "REFUND"
	NotificationDispute = "DISPUTE"
)

type Notification struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Type      string
	Title     string
	Content   string
	RelatedID *uuid.UUID
	IsRead    bool
	CreatedAt time.Time
}
