package handlers

import (
	"bytes"
	"fmt"
	"log"
	"text/template"

	"gorm.io/gorm"

	"github.com/parksidehq/portal/config"
	"github.com/parksidehq/portal/models"
)

// NotificationService renders and records dispatch notifications.
// Delivery is simulated: the rendered message is written to the log
// and stored as an in-app Notification row, nothing leaves the system.
type NotificationService struct {
	db *gorm.DB
}

// NewNotificationService creates a new notification service instance
func NewNotificationService() *NotificationService {
	return &NotificationService{
		db: config.DB,
	}
}

// AssignmentContext holds data for template rendering
type AssignmentContext struct {
	ContractorName string
	ContractorID   string
	Phone          string
	UnitAddress    string
	JobID          string
	JobType        string
	ScheduledDate  string
	Priority       string
}

var assignmentBodyTmpl = template.Must(template.New("assigned").Parse(
	"{{.ContractorName}} ({{.Phone}}) has been dispatched to {{.UnitAddress}} " +
		"for {{.JobType}} work on {{.ScheduledDate}} [{{.Priority}} priority]"))

var unassignmentBodyTmpl = template.Must(template.New("unassigned").Parse(
	"{{.ContractorName}} ({{.Phone}}) is no longer dispatched to {{.UnitAddress}}"))

// NotifyJobAssigned emits the simulated outbound message for a fresh
// assignment and persists the contractor-facing notification row on
// the caller's transaction.
func (ns *NotificationService) NotifyJobAssigned(tx *gorm.DB, job *models.ContractorJob, contractor *models.Contractor) error {
	ctx := AssignmentContext{
		ContractorName: contractor.Name,
		ContractorID:   contractor.ID.String(),
		Phone:          contractor.Phone,
		UnitAddress:    job.UnitAddress,
		JobID:          job.ID.String(),
		JobType:        string(job.JobType),
		ScheduledDate:  job.ScheduledDate,
		Priority:       job.Priority,
	}

	body, err := renderTemplate(assignmentBodyTmpl, ctx)
	if err != nil {
		return fmt.Errorf("failed to render assignment template: %w", err)
	}

	deepLink := fmt.Sprintf("/portal/contractor/%s/jobs/%s", contractor.ID, job.ID)
	notification := models.Notification{
		DealershipID:          job.DealershipID,
		Type:                  models.NotificationTypeJobAssigned,
		Priority:              notificationPriorityFor(job.Priority),
		Title:                 "New job assignment",
		Body:                  body,
		DeepLink:              &deepLink,
		RecipientContractorID: &contractor.ID,
	}
	if err := tx.Create(&notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	// Simulated delivery channel
	log.Printf("📣 [dispatch] %s -> %s", body, deepLink)
	return nil
}

// NotifyJobUnassigned records the reversal counterpart.
func (ns *NotificationService) NotifyJobUnassigned(tx *gorm.DB, job *models.ContractorJob, contractor *models.Contractor) error {
	ctx := AssignmentContext{
		ContractorName: contractor.Name,
		Phone:          contractor.Phone,
		UnitAddress:    job.UnitAddress,
	}
	body, err := renderTemplate(unassignmentBodyTmpl, ctx)
	if err != nil {
		return fmt.Errorf("failed to render unassignment template: %w", err)
	}

	notification := models.Notification{
		DealershipID:          job.DealershipID,
		Type:                  models.NotificationTypeJobUnassigned,
		Priority:              models.NotificationPriorityNormal,
		Title:                 "Job assignment removed",
		Body:                  body,
		RecipientContractorID: &contractor.ID,
	}
	if err := tx.Create(&notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	log.Printf("📣 [dispatch] %s", body)
	return nil
}

func renderTemplate(tmpl *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func notificationPriorityFor(jobPriority string) models.NotificationPriority {
	switch jobPriority {
	case models.JobPriorityUrgent, models.JobPriorityHigh:
		return models.NotificationPriorityHigh
	case models.JobPriorityLow:
		return models.NotificationPriorityLow
	default:
		return models.NotificationPriorityNormal
	}
}
