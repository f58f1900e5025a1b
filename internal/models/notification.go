package models

type IndividualNotificationRequest struct {
	SenderName     string `json:"senderName"`
	Content        string `json:"content"`
	SubscriptionID string `json:"subscriptionId" validate:"required"`
}

type GroupNotificationRequest struct {
	GroupName       string   `json:"groupName"`
	SenderName      string   `json:"senderName"`
	Content         string   `json:"content"`
	SubscriptionIDs []string `json:"subscriptionIds" validate:"required,min=1"`
}

// Notification is the provider neutral message handed to a dispatcher.
type Notification struct {
	SubscriptionIDs []string
	Title           string
	Body            string
}

type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}
