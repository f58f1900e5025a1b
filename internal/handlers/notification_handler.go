package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog"

	"chatzilla-notification-server/internal/models"
	"chatzilla-notification-server/internal/services"
	"chatzilla-notification-server/internal/utils"
)

const (
	ServiceName = "chatzilla-notification-server"

	msgInvalidBody        = "Invalid request body"
	msgSubscriptionID     = "subscriptionId is required."
	msgSubscriptionIDs    = "subscriptionIds array is required."
	msgFailedNotification = "Failed to send notification."
)

type NotificationHandler struct {
	notificationService services.INotificationService
	validator           *StructValidator
	logger              zerolog.Logger
}

func NewNotificationHandler(notificationService services.INotificationService, logger zerolog.Logger) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		validator:           NewStructValidator(),
		logger:              logger,
	}
}

func (h *NotificationHandler) Register(app *fiber.App) {
	app.Get("/", h.Health)
	app.Get("/checkhealth", h.Health)

	notificationGr := app.Group("/api/notifications")
	notificationGr.Post("/individual", h.SendIndividual)
	notificationGr.Post("/group", h.SendGroup)
}

func (h *NotificationHandler) Health(c fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(models.HealthResponse{
		Status:  "ok",
		Service: ServiceName,
	})
}

func (h *NotificationHandler) SendIndividual(c fiber.Ctx) error {
	var req models.IndividualNotificationRequest
	if err := h.bind(c, &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.CreateErrorResponse(msgInvalidBody))
	}
	if err := h.validator.Validate(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.CreateErrorResponse(msgSubscriptionID))
	}

	result, err := h.notificationService.SendIndividual(c.Context(), req)
	if err != nil {
		return h.providerFailure(c, "individual", err)
	}

	h.logger.Info().
		Str("kind", "individual").
		Str("subscription_id", req.SubscriptionID).
		Msg("notification sent")
	return c.Status(fiber.StatusOK).JSON(utils.CreateSuccessResponse(result))
}

func (h *NotificationHandler) SendGroup(c fiber.Ctx) error {
	var req models.GroupNotificationRequest
	if err := h.bind(c, &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.CreateErrorResponse(msgInvalidBody))
	}
	if err := h.validator.Validate(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.CreateErrorResponse(msgSubscriptionIDs))
	}

	result, err := h.notificationService.SendGroup(c.Context(), req)
	if err != nil {
		return h.providerFailure(c, "group", err)
	}

	h.logger.Info().
		Str("kind", "group").
		Int("members", len(req.SubscriptionIDs)).
		Str("group_name", req.GroupName).
		Msg("notification sent")
	return c.Status(fiber.StatusOK).JSON(utils.CreateSuccessResponse(result))
}

// bind treats an empty body as an empty request so that validation reports the missing field.
func (h *NotificationHandler) bind(c fiber.Ctx, out any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	return c.Bind().Body(out)
}

func (h *NotificationHandler) providerFailure(c fiber.Ctx, kind string, err error) error {
	var details any = err.Error()
	var providerErr *models.ProviderError
	if errors.As(err, &providerErr) {
		details = providerErr.Details
	}

	h.logger.Error().
		Err(err).
		Str("kind", kind).
		Interface("details", details).
		Msg("failed to send notification")
	return c.Status(fiber.StatusInternalServerError).JSON(utils.CreateErrorResponseWithDetails(msgFailedNotification, details))
}
