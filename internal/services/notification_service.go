package services

import (
	"context"
	"fmt"

	"chatzilla-notification-server/internal/models"
)

const (
	defaultIndividualTitle = "New Message"
	defaultIndividualBody  = "You have a new message."
	defaultGroupTitle      = "Group"
	defaultGroupSender     = "Someone"
	defaultGroupContent    = "New message in group."
)

// Dispatcher delivers one notification to a push provider.
type Dispatcher interface {
	Send(ctx context.Context, n models.Notification) (any, error)
}

type INotificationService interface {
	SendIndividual(ctx context.Context, req models.IndividualNotificationRequest) (any, error)
	SendGroup(ctx context.Context, req models.GroupNotificationRequest) (any, error)
}

type NotificationService struct {
	dispatcher Dispatcher
}

func NewNotificationService(dispatcher Dispatcher) INotificationService {
	return &NotificationService{dispatcher: dispatcher}
}

func (s *NotificationService) SendIndividual(ctx context.Context, req models.IndividualNotificationRequest) (any, error) {
	return s.dispatcher.Send(ctx, IndividualNotification(req))
}

func (s *NotificationService) SendGroup(ctx context.Context, req models.GroupNotificationRequest) (any, error) {
	return s.dispatcher.Send(ctx, GroupNotification(req))
}

func IndividualNotification(req models.IndividualNotificationRequest) models.Notification {
	return models.Notification{
		SubscriptionIDs: []string{req.SubscriptionID},
		Title:           orDefault(req.SenderName, defaultIndividualTitle),
		Body:            orDefault(req.Content, defaultIndividualBody),
	}
}

// GroupNotification always prefixes the body with the sender.
func GroupNotification(req models.GroupNotificationRequest) models.Notification {
	return models.Notification{
		SubscriptionIDs: req.SubscriptionIDs,
		Title:           orDefault(req.GroupName, defaultGroupTitle),
		Body: fmt.Sprintf("%s: %s",
			orDefault(req.SenderName, defaultGroupSender),
			orDefault(req.Content, defaultGroupContent)),
	}
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
