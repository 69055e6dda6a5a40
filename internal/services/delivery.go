package services

import (
	"context"
	"errors"

	"popup-backend-go/internal/models"
)

// RecordDelivery stores a client delivery report together with the device's current company,
// department and prompt group.
func (s *Survey) RecordDelivery(ctx context.Context, ns models.Namespace, in DeliveryInput) error {
	source := SourceFor(ns, OpDelivery)
	deviceID, err := in.DeviceID.required("device_id")
	if err != nil {
		return Soft(source, "", err)
	}
	fields := []struct {
		name  string
		value Text
	}{
		{"prompt_id", in.PromptID},
		{"answer", in.Answer},
		{"recieved_status", in.RecievedStatus},
		{"error_log", in.ErrorLog},
	}
	for _, field := range fields {
		if _, err := field.value.required(field.name); err != nil {
			return Soft(source, deviceID, err)
		}
	}

	device, err := s.Repo.FindDevice(ctx, ns, deviceID)
	if errors.Is(err, models.ErrNotFound) {
		return Soft(source, deviceID, ErrUnknownDevice)
	}
	if err != nil {
		return Soft(source, deviceID, WrapError(err, "load device"))
	}

	entry := models.DeliveryLog{
		DeviceID:      deviceID,
		Company:       device.Company,
		Department:    device.Department,
		PromptGroup:   device.PromptGroup,
		PromptID:      in.PromptID.Value,
		Answer:        in.Answer.Value,
		RecivedStatus: in.RecievedStatus.Value,
		ErrorLog:      in.ErrorLog.Value,
		CreatedAt:     s.now(),
	}
	if err := s.Repo.InsertLog(ctx, ns, entry); err != nil {
		return Soft(source, deviceID, WrapError(err, "insert log"))
	}
	s.Feed.Publish(FeedEvent{Kind: FeedDelivery, Namespace: ns.Name, Entry: entry, At: entry.CreatedAt})
	return nil
}
