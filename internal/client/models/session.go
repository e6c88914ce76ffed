// Package models defines the data exchanged with the hiring backend and the
// small pieces of logic attached to it (status buckets, Q&A pairing, input
// validation).
package models

import (
	"strconv"
	"strings"

	"github.com/dmitrijs2005/aihr/internal/timex"
)

// Public status values understood by the dashboard. The backend may send
// others (e.g. "UNDER_REVIEW"); those fall into the review bucket.
const (
	StatusPending  = "PENDING"
	StatusReview   = "REVIEW"
	StatusInvited  = "INVITED"
	StatusRejected = "REJECTED"
)

// Question is one generated interview question. Only the text is
// interpreted by the clients.
type Question struct {
	Question string `json:"question"`
}

// Answer is a submitted answer.
type Answer struct {
	AnswerText string `json:"answer_text"`
}

// CandidateSession is one candidate's interview record as listed by
// GET /admin/sessions.
type CandidateSession struct {
	SessionID      string     `json:"session_id"`
	CandidateName  string     `json:"candidate_name"`
	CandidatePhone string     `json:"candidate_phone"`
	CandidateEmail string     `json:"candidate_email"`
	CandidateLang  string     `json:"candidate_lang"`
	CVPath         *string    `json:"cv_path"`
	StatusInternal string     `json:"status_internal"`
	StatusPublic   string     `json:"status_public"`
	Score          *float64   `json:"score"`
	StartTime      timex.Time `json:"start_time"`
	Questions      []Question `json:"questions"`
	Answers        []Answer   `json:"answers"`
}

// QAPair is a question with the answer given at the same index.
type QAPair struct {
	Index    int
	Question string
	Answer   string
	Answered bool
}

// QA pairs questions[i] with answers[i]. Questions without a matching
// answer come back with Answered=false; answers beyond the last question
// are ignored.
func (s *CandidateSession) QA() []QAPair {
	pairs := make([]QAPair, len(s.Questions))
	for i, q := range s.Questions {
		pairs[i] = QAPair{Index: i, Question: q.Question}
		if i < len(s.Answers) {
			pairs[i].Answer = s.Answers[i].AnswerText
			pairs[i].Answered = true
		}
	}
	return pairs
}

// HasCV reports whether a CV reference is stored for the session.
func (s *CandidateSession) HasCV() bool {
	return s.CVPath != nil && CVFileName(*s.CVPath) != ""
}

// Bucket is the visual classification of a public status.
type Bucket int

const (
	BucketReview Bucket = iota
	BucketInvited
	BucketRejected
)

func (b Bucket) String() string {
	switch b {
	case BucketInvited:
		return "invited"
	case BucketRejected:
		return "rejected"
	default:
		return "review"
	}
}

// ClassifyStatus maps a public status to one of the three buckets.
func ClassifyStatus(status string) Bucket {
	switch status {
	case StatusInvited:
		return BucketInvited
	case StatusRejected:
		return BucketRejected
	default:
		return BucketReview
	}
}

// StatusLabelKey is the translation key of a public status. PENDING keeps
// its own label although it shares the review bucket.
func StatusLabelKey(status string) string {
	switch status {
	case StatusInvited:
		return "status_invited"
	case StatusRejected:
		return "status_rejected"
	case StatusPending:
		return "status_pending"
	default:
		return "status_review"
	}
}

// IsDecision reports whether status may be set from the dashboard.
func IsDecision(status string) bool {
	return status == StatusInvited || status == StatusRejected
}

// LangLabel upper-cases a candidate language, defaulting to EN.
func LangLabel(lang string) string {
	if lang == "" {
		lang = "en"
	}
	return strings.ToUpper(lang)
}

// ScoreLabel renders a nullable score; a missing score is "-".
func ScoreLabel(score *float64) string {
	if score == nil {
		return "-"
	}
	return strconv.FormatFloat(*score, 'f', -1, 64)
}
