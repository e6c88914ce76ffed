package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/aihr/internal/client/models"
	"github.com/dmitrijs2005/aihr/internal/common"
	"github.com/dmitrijs2005/aihr/internal/logging"
	"github.com/google/uuid"
)

const maxErrorBody = 512

type HTTPClient struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
	log     logging.Logger
}

// NewHTTPClient returns a client for the backend at serverURL. A positive
// timeout bounds every single request.
func NewHTTPClient(serverURL string, timeout time.Duration, log logging.Logger) (*HTTPClient, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server url %q: scheme must be http or https", serverURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid server url %q: missing host", serverURL)
	}
	if log == nil {
		log = logging.Nop()
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(u.String(), "/"),
		timeout: timeout,
		http:    &http.Client{},
		log:     log,
	}, nil
}

func (c *HTTPClient) AnalyzeCV(ctx context.Context, id models.Identity, fileName string, file io.Reader) (*models.CVAnalysis, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	fw, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(fw, file); err != nil {
		return nil, fmt.Errorf("read cv: %w", err)
	}
	for _, f := range [][2]string{{"name", id.Name}, {"phone", id.Phone}, {"email", id.Email}} {
		if err := mw.WriteField(f[0], f[1]); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	var out models.CVAnalysis
	if err := c.call(ctx, http.MethodPost, "/analyze", nil, mw.FormDataContentType(), &body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) DetectLevel(ctx context.Context, candidateName string, cv *models.CVAnalysis) (json.RawMessage, error) {
	req := struct {
		CandidateName string             `json:"candidate_name"`
		CVResult      *models.CVAnalysis `json:"cv_result"`
	}{candidateName, cv}

	var out json.RawMessage
	if err := c.callJSON(ctx, "/detect-level", req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// InterviewPlan posts the level result as is. The plan itself is not used.
func (c *HTTPClient) InterviewPlan(ctx context.Context, level json.RawMessage) error {
	return c.callJSON(ctx, "/interview-plan", level, nil)
}

func (c *HTTPClient) GenerateQuestions(ctx context.Context, level json.RawMessage, maxQuestions int, lang string) (*models.QuestionSet, error) {
	req := struct {
		LevelResult  json.RawMessage `json:"level_result"`
		MaxQuestions int             `json:"max_questions"`
		Lang         string          `json:"lang"`
	}{level, maxQuestions, lang}

	var out models.QuestionSet
	if err := c.callJSON(ctx, "/generate-questions", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) StartInterview(ctx context.Context, req *models.StartInterviewRequest) (string, error) {
	var out struct {
		SessionID string `json:"session_id"`
	}
	if err := c.callJSON(ctx, "/start-interview", req, &out); err != nil {
		return "", err
	}
	return out.SessionID, nil
}

// SubmitAnswer posts the answer as a bare JSON string.
func (c *HTTPClient) SubmitAnswer(ctx context.Context, sessionID, answer string) error {
	return c.callJSON(ctx, "/submit-answer/"+url.PathEscape(sessionID), answer, nil)
}

func (c *HTTPClient) AnalyzeIntegrity(ctx context.Context, sessionID string) error {
	return c.call(ctx, http.MethodPost, "/analyze-integrity/"+url.PathEscape(sessionID), nil, "", nil, nil)
}

func (c *HTTPClient) GenerateRecommendation(ctx context.Context, sessionID string) error {
	return c.call(ctx, http.MethodPost, "/generate-recommendation/"+url.PathEscape(sessionID), nil, "", nil, nil)
}

func (c *HTTPClient) ListSessions(ctx context.Context) ([]models.CandidateSession, error) {
	var out []models.CandidateSession
	if err := c.call(ctx, http.MethodGet, "/admin/sessions", nil, "", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.CandidateSession{}
	}
	return out, nil
}

func (c *HTTPClient) UpdateSessionStatus(ctx context.Context, sessionID, internalStatus, publicStatus string) error {
	q := url.Values{}
	q.Set("internal_status", internalStatus)
	q.Set("public_status", publicStatus)
	return c.call(ctx, http.MethodPost, "/update-session-status/"+url.PathEscape(sessionID), q, "", nil, nil)
}

// DownloadCV streams the stored CV with the given base name into w.
func (c *HTTPClient) DownloadCV(ctx context.Context, fileName string, w io.Writer) (int64, error) {
	if fileName == "" {
		return 0, fmt.Errorf("%w: empty cv file name", ErrNotFound)
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.send(ctx, http.MethodGet, common.UploadsPath+url.PathEscape(fileName), nil, "", nil)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("download cv: %w", err)
	}
	return n, nil
}

// Ping reports whether the backend answers HTTP at all. Any status code
// counts as reachable.
func (c *HTTPClient) Ping(ctx context.Context) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return c.transportError(ctx, err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.Body.Close()
}

func (c *HTTPClient) callJSON(ctx context.Context, path string, in, out any) error {
	b, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", path, err)
	}
	return c.call(ctx, http.MethodPost, path, nil, "application/json", bytes.NewReader(b), out)
}

// call performs one request and decodes a JSON answer into out. A nil out
// discards the body.
func (c *HTTPClient) call(ctx context.Context, method, path string, query url.Values, contentType string, body io.Reader, out any) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.send(ctx, method, path, query, contentType, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrBadResponse, method, path, err)
	}
	return nil
}

func (c *HTTPClient) send(ctx context.Context, method, path string, query url.Values, contentType string, body io.Reader) (*http.Response, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	requestID := uuid.NewString()
	req.Header.Set(common.RequestIDHeaderName, requestID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug(ctx, "request failed", "method", method, "path", path, "request_id", requestID, "error", err)
		return nil, c.transportError(ctx, err)
	}
	c.log.Debug(ctx, "request done", "method", method, "path", path, "request_id", requestID,
		"status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, mapStatus(method, path, resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return resp, nil
}

func (c *HTTPClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

// transportError keeps caller cancellation visible and reports everything
// else, including the per-request timeout, as ErrUnavailable.
func (c *HTTPClient) transportError(ctx context.Context, err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
