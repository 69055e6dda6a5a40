package services

import (
	"context"
	"errors"

	"popup-backend-go/internal/models"
)

const PromptCustomerRegister = "customer_register"

// defaultDemoGroup is assigned to demo devices that have no prompt group yet. Production devices
// keep a null group and therefore match no question until an operator assigns one.
const defaultDemoGroup = "1"

// NextPrompt returns the question the device should be shown. An unknown device gets the
// customer_register prompt; a device with no matching question gets an empty row. In the demo
// namespace every lookup advances the device's occurrence counter.
func (s *Survey) NextPrompt(ctx context.Context, ns models.Namespace, deviceID string) (models.Row, error) {
	source := SourceFor(ns, OpPrompt)
	if deviceID == "" {
		return nil, Soft(source, "", missing("device_id"))
	}

	device, err := s.Repo.FindDevice(ctx, ns, deviceID)
	if errors.Is(err, models.ErrNotFound) {
		return models.Row{"prompt_type": PromptCustomerRegister}, nil
	}
	if err != nil {
		return nil, Soft(source, deviceID, WrapError(err, "load device"))
	}

	if device.PromptGroup == nil {
		var group *string
		if ns.Demo {
			value := defaultDemoGroup
			group = &value
		}
		if err := s.Repo.SetPromptGroup(ctx, ns, deviceID, group); err != nil {
			return nil, Soft(source, deviceID, WrapError(err, "assign prompt group"))
		}
		device, err = s.Repo.FindDevice(ctx, ns, deviceID)
		if err != nil {
			return nil, Soft(source, deviceID, WrapError(err, "reload device"))
		}
	}

	query := models.QuestionQuery{
		Company:     NormalizeSpaces(device.Company),
		Department:  NormalizeSpaces(device.Department),
		PromptGroup: device.PromptGroup,
	}
	if ns.Demo {
		occurrence := device.CallCount
		query.Occurrence = &occurrence
	}
	row, lookupErr := s.Repo.FindQuestion(ctx, ns, query)

	if ns.Demo {
		if err := s.Repo.IncrementCallCount(ctx, ns, deviceID); err != nil {
			return nil, Soft(source, deviceID, WrapError(err, "advance occurrence"))
		}
	}

	if errors.Is(lookupErr, models.ErrNotFound) {
		return models.Row{}, nil
	}
	if lookupErr != nil {
		return nil, Soft(source, deviceID, WrapError(lookupErr, "select question"))
	}
	return row, nil
}
