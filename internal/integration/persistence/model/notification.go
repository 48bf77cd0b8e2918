package model

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/pantry-ledger/backend/internal/domain/entity"
)

// NotificationModel represents the notifications table in the database.
type NotificationModel struct {
	ID                uuid.UUID         `gorm:"type:uuid;primaryKey"`
	Kind              string            `gorm:"type:varchar(50);not null;index:idx_notifications_product,priority:2"`
	ProductID         *uuid.UUID        `gorm:"type:uuid;index:idx_notifications_product,priority:1"`
	PurchaseID        *uuid.UUID        `gorm:"type:uuid;index"`
	RecipientEmail    string            `gorm:"type:varchar(255);not null"`
	RecipientName     string            `gorm:"type:varchar(255)"`
	Subject           string            `gorm:"type:varchar(500);not null"`
	Fields            map[string]string `gorm:"type:jsonb;serializer:json;not null"`
	Status            string            `gorm:"type:varchar(20);not null;default:'pending';index:idx_notifications_due,priority:1"`
	Attempts          int               `gorm:"not null;default:0"`
	LastError         string            `gorm:"type:text"`
	ProviderMessageID string            `gorm:"type:varchar(100)"`
	CreatedAt         time.Time         `gorm:"not null"`
	ScheduledAt       time.Time         `gorm:"not null;index:idx_notifications_due,priority:2"`
	ProcessedAt       sql.NullTime      `gorm:"type:timestamptz"`
}

// TableName returns the table name for the NotificationModel.
func (NotificationModel) TableName() string {
	return "notifications"
}

// ToEntity converts a NotificationModel to a domain Notification.
func (m *NotificationModel) ToEntity() *entity.Notification {
	var processedAt *time.Time
	if m.ProcessedAt.Valid {
		t := m.ProcessedAt.Time
		processedAt = &t
	}

	fields := m.Fields
	if fields == nil {
		fields = map[string]string{}
	}

	return &entity.Notification{
		ID:                m.ID,
		Kind:              entity.NotificationKind(m.Kind),
		ProductID:         m.ProductID,
		PurchaseID:        m.PurchaseID,
		RecipientEmail:    m.RecipientEmail,
		RecipientName:     m.RecipientName,
		Subject:           m.Subject,
		Fields:            fields,
		Status:            entity.NotificationStatus(m.Status),
		Attempts:          m.Attempts,
		LastError:         m.LastError,
		ProviderMessageID: m.ProviderMessageID,
		CreatedAt:         m.CreatedAt,
		ScheduledAt:       m.ScheduledAt,
		ProcessedAt:       processedAt,
	}
}

// NotificationFromEntity creates a NotificationModel from a domain Notification.
func NotificationFromEntity(n *entity.Notification) *NotificationModel {
	var processedAt sql.NullTime
	if n.ProcessedAt != nil {
		processedAt = sql.NullTime{Time: *n.ProcessedAt, Valid: true}
	}

	return &NotificationModel{
		ID:                n.ID,
		Kind:              string(n.Kind),
		ProductID:         n.ProductID,
		PurchaseID:        n.PurchaseID,
		RecipientEmail:    n.RecipientEmail,
		RecipientName:     n.RecipientName,
		Subject:           n.Subject,
		Fields:            n.Fields,
		Status:            string(n.Status),
		Attempts:          n.Attempts,
		LastError:         n.LastError,
		ProviderMessageID: n.ProviderMessageID,
		CreatedAt:         n.CreatedAt,
		ScheduledAt:       n.ScheduledAt,
		ProcessedAt:       processedAt,
	}
}
