package services

import (
	"context"

	"popup-backend-go/internal/models"

	log "github.com/sirupsen/logrus"
)

func (s *Survey) Register(ctx context.Context, ns models.Namespace, in RegisterInput) error {
	source := SourceFor(ns, OpRegister)
	deviceID, err := in.DeviceID.required("device_id")
	if err != nil {
		return Soft(source, "", err)
	}
	company, err := in.Company.required("company")
	if err != nil {
		return Soft(source, deviceID, err)
	}
	department, err := in.Department.required("department")
	if err != nil {
		return Soft(source, deviceID, err)
	}

	device := models.Device{
		DeviceID:   deviceID,
		Company:    NormalizeSpaces(company),
		Department: NormalizeSpaces(department),
	}
	if err := s.Repo.InsertDevice(ctx, ns, device); err != nil {
		return Soft(source, deviceID, WrapError(err, "insert device"))
	}
	log.WithFields(log.Fields{"namespace": ns.Name, "device_id": deviceID}).Info("device registered")
	return nil
}
