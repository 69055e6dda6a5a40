package services

import (
	"context"
	"errors"
	"math/big"
	"strings"

	"popup-backend-go/internal/models"
)

const restrictedAnswer = "popup restricted from displaying, prompt_group is not a number"

type PopupCheck struct {
	ShowAppWindowOnceMore bool         `json:"show_app_window_once_more"`
	AppConfiguration      []models.Row `json:"app_configuration"`
	PromptGroupIsNumber   bool         `json:"prompt_group_is_number"`
}

// CheckPopup reports whether the popup should be shown again today. The response is always
// usable; on failure it carries whatever was computed before the error.
func (s *Survey) CheckPopup(ctx context.Context, ns models.Namespace, deviceID string) (PopupCheck, error) {
	source := SourceFor(ns, OpPopupCheck)
	check := PopupCheck{AppConfiguration: []models.Row{}}
	if deviceID == "" {
		return check, Soft(source, "", missing("device_id"))
	}

	seenToday, err := s.Repo.ReceiptOn(ctx, ns, NormalizeSpaces(deviceID), s.now())
	if err != nil {
		return check, Soft(source, deviceID, WrapError(err, "look up today's receipt"))
	}
	check.ShowAppWindowOnceMore = !seenToday

	config, err := s.Repo.AppConfiguration(ctx)
	if err != nil {
		return check, Soft(source, deviceID, WrapError(err, "load app configuration"))
	}
	if config != nil {
		check.AppConfiguration = config
	}

	device, err := s.Repo.FindDevice(ctx, ns, deviceID)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return check, Soft(source, deviceID, WrapError(err, "load device"))
	}
	if device != nil && device.PromptGroup != nil {
		check.PromptGroupIsNumber = IsInteger(*device.PromptGroup)
	}

	if check.PromptGroupIsNumber || !check.ShowAppWindowOnceMore {
		return check, nil
	}
	if device == nil {
		return check, Soft(source, deviceID, ErrUnknownDevice)
	}
	entry := models.DeliveryLog{
		DeviceID:      deviceID,
		Company:       device.Company,
		Department:    device.Department,
		PromptGroup:   device.PromptGroup,
		PromptID:      "n/a",
		Answer:        restrictedAnswer,
		RecivedStatus: "true",
		ErrorLog:      "n/a",
		CreatedAt:     s.now(),
	}
	if err := s.Repo.InsertLog(ctx, ns, entry); err != nil {
		return check, Soft(source, deviceID, WrapError(err, "insert restriction log"))
	}
	s.Feed.Publish(FeedEvent{Kind: FeedDelivery, Namespace: ns.Name, Entry: entry, At: entry.CreatedAt})
	return check, nil
}

// IsInteger reports whether value is a base-10 integer of any size. Surrounding whitespace, a
// leading sign and single underscores between digits are accepted.
func IsInteger(value string) bool {
	digits := strings.TrimSpace(value)
	if strings.HasPrefix(digits, "+") || strings.HasPrefix(digits, "-") {
		digits = digits[1:]
	}
	if digits == "" || !isDigit(digits[0]) || !isDigit(digits[len(digits)-1]) || strings.Contains(digits, "__") {
		return false
	}
	_, ok := new(big.Int).SetString(strings.ReplaceAll(digits, "_", ""), 10)
	return ok
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
