package services

import (
	"context"

	"popup-backend-go/internal/models"

	log "github.com/sirupsen/logrus"
)

// RecordAnswer appends one answer row. Duplicate submissions are stored as-is.
func (s *Survey) RecordAnswer(ctx context.Context, ns models.Namespace, in AnswerInput) error {
	source := SourceFor(ns, OpAnswer)
	deviceID, err := in.DeviceID.required("device_id")
	if err != nil {
		return Soft(source, "", err)
	}
	questionID, err := in.QuestionID.required("question_id")
	if err != nil {
		return Soft(source, deviceID, err)
	}
	answer, err := in.Answer.required("answer")
	if err != nil {
		return Soft(source, deviceID, err)
	}

	id, err := s.Repo.InsertAnswer(ctx, ns, models.Answer{DeviceID: deviceID, QuestionID: questionID, Answer: answer})
	if err != nil {
		return Soft(source, deviceID, WrapError(err, "insert answer"))
	}
	log.WithFields(log.Fields{"namespace": ns.Name, "device_id": deviceID, "answer_id": id}).Debug("answer recorded")
	return nil
}
