package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Text is a request field that accepts JSON strings, numbers and booleans. Null or an absent key
// leaves it unset.
type Text struct {
	Value string
	Set   bool
}

func NewText(value string) Text {
	return Text{Value: value, Set: true}
}

func (t *Text) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		*t = Text{}
		return nil
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		*t = Text{Value: s, Set: true}
	case '{', '[':
		return fmt.Errorf("expected a scalar value, got %s", raw)
	default:
		if !json.Valid(raw) {
			return fmt.Errorf("invalid value %s", raw)
		}
		*t = Text{Value: string(raw), Set: true}
	}
	return nil
}

func (t Text) MarshalJSON() ([]byte, error) {
	if !t.Set {
		return []byte("null"), nil
	}
	return json.Marshal(t.Value)
}

func (t Text) required(field string) (string, error) {
	if !t.Set {
		return "", missing(field)
	}
	return t.Value, nil
}

type RegisterInput struct {
	DeviceID   Text `json:"device_id"`
	Company    Text `json:"company"`
	Department Text `json:"department"`
}

type AnswerInput struct {
	DeviceID   Text `json:"device_id"`
	QuestionID Text `json:"question_id"`
	Answer     Text `json:"answer"`
}

type DeliveryInput struct {
	DeviceID       Text `json:"device_id"`
	PromptID       Text `json:"prompt_id"`
	Answer         Text `json:"answer"`
	RecievedStatus Text `json:"recieved_status"`
	ErrorLog       Text `json:"error_log"`
}

// NormalizeSpaces replaces non-breaking spaces with regular spaces.
func NormalizeSpaces(s string) string {
	return strings.ReplaceAll(s, "\u00a0", " ")
}
