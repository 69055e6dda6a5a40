package services

import (
	"encoding/json"
	"testing"
)

func TestTextDecoding(t *testing.T) {
	tests := []struct {
		body    string
		want    Text
		wantErr bool
	}{
		{body: `{"question_id": "12"}`, want: NewText("12")},
		{body: `{"question_id": 12}`, want: NewText("12")},
		{body: `{"question_id": true}`, want: NewText("true")},
		{body: `{"question_id": ""}`, want: NewText("")},
		{body: `{"question_id": null}`, want: Text{}},
		{body: `{}`, want: Text{}},
		{body: `{"question_id": {"a": 1}}`, wantErr: true},
	}
	for _, tt := range tests {
		var in AnswerInput
		err := json.Unmarshal([]byte(tt.body), &in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("%s: error = %v, wantErr %v", tt.body, err, tt.wantErr)
		}
		if !tt.wantErr && in.QuestionID != tt.want {
			t.Fatalf("%s: got %+v, want %+v", tt.body, in.QuestionID, tt.want)
		}
	}
}

func TestNormalizeSpaces(t *testing.T) {
	if got := NormalizeSpaces("a\u00a0b\u00a0 c"); got != "a b  c" {
		t.Fatalf("NormalizeSpaces() = %q", got)
	}
}
