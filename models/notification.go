package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationType defines what event produced a notification.
type NotificationType string

const (
	NotificationTypeJobAssigned   NotificationType = "job_assigned"
	NotificationTypeJobUnassigned NotificationType = "job_unassigned"
	NotificationTypeJobCompleted  NotificationType = "job_completed"
	NotificationTypeImportDone    NotificationType = "import_done"
	NotificationTypeSystemAlert   NotificationType = "system_alert"
)

// NotificationPriority defines the priority level.
type NotificationPriority string

const (
	NotificationPriorityLow    NotificationPriority = "low"
	NotificationPriorityNormal NotificationPriority = "normal"
	NotificationPriorityHigh   NotificationPriority = "high"
)

// Notification is an in-app notification row. Delivery to outside
// channels (SMS, email) is simulated: the rendered message is logged
// and stored here, nothing is sent.
type Notification struct {
	ID           uuid.UUID            `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	DealershipID uuid.UUID            `gorm:"type:uuid;index;not null" json:"dealershipId"`
	Type         NotificationType     `gorm:"size:30;index;not null" json:"type"`
	Priority     NotificationPriority `gorm:"size:10;not null;default:normal" json:"priority"`
	Title        string               `gorm:"size:255;not null" json:"title"`
	Body         string               `json:"body"`
	DeepLink     *string              `gorm:"size:255" json:"deepLink,omitempty"`

	// Recipient: a portal user, or a contractor for the simulated
	// contractor-facing channel.
	RecipientUserID       *uuid.UUID `gorm:"type:uuid;index" json:"recipientUserId,omitempty"`
	RecipientContractorID *uuid.UUID `gorm:"type:uuid;index" json:"recipientContractorId,omitempty"`

	IsRead bool       `gorm:"default:false;index" json:"isRead"`
	ReadAt *time.Time `json:"readAt,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
