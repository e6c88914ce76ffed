package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrNoCVPath      = errors.New("cv analysis carries no cv_path")
	ErrEmptyResult   = errors.New("empty result")
	ErrNoQuestions   = errors.New("question set is empty")
	ErrBlankQuestion = errors.New("question set contains a blank question")
	ErrNoSessionID   = errors.New("no session_id returned")
)

// CVAnalysis is the /analyze response. Raw is forwarded untouched as
// cv_result; CVPath is the storage reference extracted from it.
type CVAnalysis struct {
	Raw    json.RawMessage
	CVPath string
}

func (a *CVAnalysis) UnmarshalJSON(b []byte) error {
	var probe struct {
		CVPath *string `json:"cv_path"`
	}
	if err := json.Unmarshal(b, &probe); err != nil {
		return fmt.Errorf("cv analysis: %w", err)
	}
	a.Raw = append(json.RawMessage(nil), b...)
	if probe.CVPath != nil {
		a.CVPath = *probe.CVPath
	}
	return nil
}

func (a CVAnalysis) MarshalJSON() ([]byte, error) {
	if len(a.Raw) == 0 {
		return []byte("null"), nil
	}
	return a.Raw, nil
}

// Validate requires a CV storage reference.
func (a *CVAnalysis) Validate() error {
	if a.CVPath == "" {
		return ErrNoCVPath
	}
	return nil
}

// ValidateResult rejects empty or null JSON documents.
func ValidateResult(raw json.RawMessage) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ErrEmptyResult
	}
	return nil
}

// QuestionSet is the /generate-questions response. The raw document is
// passed back verbatim as question_set when the session starts.
type QuestionSet struct {
	Raw       json.RawMessage
	Questions []Question
}

func (q *QuestionSet) UnmarshalJSON(b []byte) error {
	var probe struct {
		Questions []Question `json:"questions"`
	}
	if err := json.Unmarshal(b, &probe); err != nil {
		return fmt.Errorf("question set: %w", err)
	}
	q.Raw = append(json.RawMessage(nil), b...)
	q.Questions = probe.Questions
	return nil
}

func (q QuestionSet) MarshalJSON() ([]byte, error) {
	if len(q.Raw) > 0 {
		return q.Raw, nil
	}
	return json.Marshal(struct {
		Questions []Question `json:"questions"`
	}{q.Questions})
}

// Validate requires at least one question and no blank question text.
func (q *QuestionSet) Validate() error {
	if len(q.Questions) == 0 {
		return ErrNoQuestions
	}
	for _, item := range q.Questions {
		if item.Question == "" {
			return ErrBlankQuestion
		}
	}
	return nil
}

// StartInterviewRequest is the /start-interview payload.
type StartInterviewRequest struct {
	CandidateID    string      `json:"candidate_id"`
	CandidateName  string      `json:"candidate_name"`
	CandidatePhone string      `json:"candidate_phone"`
	CandidateEmail string      `json:"candidate_email"`
	QuestionSet    QuestionSet `json:"question_set"`
	Lang           string      `json:"lang"`
	CVPath         string      `json:"cv_path"`
}
