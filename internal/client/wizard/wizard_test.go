package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/aihr/internal/client/models"
	"github.com/dmitrijs2005/aihr/internal/client/pipeline"
	"github.com/dmitrijs2005/aihr/internal/common"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	mu    sync.Mutex
	calls []string

	cvBody      string
	detectName  string
	detectCV    json.RawMessage
	planLevel   json.RawMessage
	genLevel    json.RawMessage
	genMax      int
	genLang     string
	startReq    *models.StartInterviewRequest
	answers     []string
	submitted   chan string
	failAt      string
	failSubmits int

	questions string
}

func newFakeAPI(questions ...string) *fakeAPI {
	qs := make([]models.Question, len(questions))
	for i, q := range questions {
		qs[i] = models.Question{Question: q}
	}
	raw, _ := json.Marshal(map[string]any{"questions": qs, "meta": "kept"})
	return &fakeAPI{questions: string(raw), submitted: make(chan string, 16)}
}

func (f *fakeAPI) record(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
	if f.failAt == name {
		return errors.New(name + " failed")
	}
	return nil
}

func (f *fakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAPI) AnalyzeCV(ctx context.Context, id models.Identity, fileName string, file io.Reader) (*models.CVAnalysis, error) {
	b, _ := io.ReadAll(file)
	f.mu.Lock()
	f.cvBody = string(b)
	f.mu.Unlock()
	if err := f.record("analyze"); err != nil {
		return nil, err
	}
	var cv models.CVAnalysis
	_ = json.Unmarshal([]byte(`{"cv_path":"uploads\\cv.pdf","skills":["go"]}`), &cv)
	return &cv, nil
}

func (f *fakeAPI) DetectLevel(ctx context.Context, name string, cv *models.CVAnalysis) (json.RawMessage, error) {
	f.detectName, f.detectCV = name, cv.Raw
	if err := f.record("detect-level"); err != nil {
		return nil, err
	}
	return json.RawMessage(`{"level":"middle"}`), nil
}

func (f *fakeAPI) InterviewPlan(ctx context.Context, level json.RawMessage) error {
	f.planLevel = level
	return f.record("interview-plan")
}

func (f *fakeAPI) GenerateQuestions(ctx context.Context, level json.RawMessage, max int, lang string) (*models.QuestionSet, error) {
	f.genLevel, f.genMax, f.genLang = level, max, lang
	if err := f.record("generate-questions"); err != nil {
		return nil, err
	}
	var qs models.QuestionSet
	if err := json.Unmarshal([]byte(f.questions), &qs); err != nil {
		return nil, err
	}
	return &qs, nil
}

func (f *fakeAPI) StartInterview(ctx context.Context, req *models.StartInterviewRequest) (string, error) {
	f.startReq = req
	if err := f.record("start-interview"); err != nil {
		return "", err
	}
	return "abc123", nil
}

func (f *fakeAPI) SubmitAnswer(ctx context.Context, sessionID, answer string) error {
	f.mu.Lock()
	fail := f.failSubmits > 0
	if fail {
		f.failSubmits--
	}
	f.mu.Unlock()
	if err := f.record("submit-answer"); err != nil {
		return err
	}
	if fail {
		return errors.New("submit failed")
	}
	f.mu.Lock()
	f.answers = append(f.answers, answer)
	f.mu.Unlock()
	f.submitted <- answer
	return nil
}

func (f *fakeAPI) AnalyzeIntegrity(ctx context.Context, sessionID string) error {
	return f.record("analyze-integrity")
}

func (f *fakeAPI) GenerateRecommendation(ctx context.Context, sessionID string) error {
	return f.record("generate-recommendation")
}

type question struct {
	Index, Total int
	Text         string
}

type fakeView struct {
	mu        sync.Mutex
	steps     []Step
	questions []question
	alerts    []string
	timers    []time.Duration
}

func (v *fakeView) ShowStep(s Step) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.steps = append(v.steps, s)
}

func (v *fakeView) ShowQuestion(i, n int, text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.questions = append(v.questions, question{i, n, text})
}

func (v *fakeView) ShowTimer(d time.Duration) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.timers = append(v.timers, d)
}

func (v *fakeView) Alert(key string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.alerts = append(v.alerts, key)
}

func (v *fakeView) Alerts() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string(nil), v.alerts...)
}

func (v *fakeView) Steps() []Step {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]Step(nil), v.steps...)
}

func writeCV(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "cv.pdf")
	require.NoError(t, os.WriteFile(p, []byte("%PDF cv"), 0o600))
	return p
}

var ali = models.Identity{Name: "Ali Valiyev", Phone: "+998901234567", Email: "a@b.com"}

func newController(api *fakeAPI, view *fakeView, limit time.Duration) *Controller {
	return NewController(api, view, nil, Options{
		MaxQuestions:      5,
		QuestionTimeLimit: limit,
		Tick:              time.Millisecond,
	})
}

func TestStart_RunsFiveStagesInOrder(t *testing.T) {
	api := newFakeAPI("Q1", "Q2")
	view := &fakeView{}
	c := newController(api, view, time.Minute)
	defer c.Close()

	require.NoError(t, c.Start(context.Background(), ali, "uz", writeCV(t)))

	want := []string{"analyze", "detect-level", "interview-plan", "generate-questions", "start-interview"}
	if diff := cmp.Diff(want, api.Calls()); diff != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, want, c.setup.Names())

	assert.Equal(t, "%PDF cv", api.cvBody)
	assert.Equal(t, "Ali Valiyev", api.detectName)
	assert.JSONEq(t, `{"cv_path":"uploads\\cv.pdf","skills":["go"]}`, string(api.detectCV))
	assert.JSONEq(t, `{"level":"middle"}`, string(api.planLevel))
	assert.JSONEq(t, `{"level":"middle"}`, string(api.genLevel))
	assert.Equal(t, 5, api.genMax)
	assert.Equal(t, "uz", api.genLang)

	req := api.startReq
	require.NotNil(t, req)
	_, err := uuid.Parse(req.CandidateID)
	assert.NoError(t, err)
	assert.Equal(t, ali.Name, req.CandidateName)
	assert.Equal(t, ali.Phone, req.CandidatePhone)
	assert.Equal(t, ali.Email, req.CandidateEmail)
	assert.Equal(t, "uz", req.Lang)
	assert.Equal(t, `uploads\cv.pdf`, req.CVPath)
	raw, err := json.Marshal(req.QuestionSet)
	require.NoError(t, err)
	assert.JSONEq(t, api.questions, string(raw))

	assert.Equal(t, StepInterview, c.Step())
	assert.Equal(t, "abc123", c.SessionID())
	assert.Equal(t, []Step{StepLoading, StepInterview}, view.Steps())
	assert.Equal(t, []question{{0, 2, "Q1"}}, view.questions)

	tok, ok := c.timer.Current()
	require.True(t, ok)
	assert.Equal(t, 0, tok.Question)
}

func TestStart_DefaultsLangToEnglish(t *testing.T) {
	api := newFakeAPI("Q1")
	c := newController(api, &fakeView{}, time.Minute)
	defer c.Close()

	require.NoError(t, c.Start(context.Background(), ali, "", writeCV(t)))
	assert.Equal(t, "en", api.genLang)
	assert.Equal(t, "en", api.startReq.Lang)
}

func TestStart_ValidationBlocksWithoutNetwork(t *testing.T) {
	cv := writeCV(t)
	tests := []struct {
		name  string
		id    models.Identity
		cv    string
		alert string
	}{
		{"missing email", models.Identity{Name: "A", Phone: "+998901234567"}, cv, MsgFields},
		{"bad phone", models.Identity{Name: "A", Phone: "+99890123", Email: "e"}, cv, MsgPhone},
		{"no file", ali, "", MsgFile},
		{"unreadable file", ali, filepath.Join(t.TempDir(), "missing.pdf"), MsgFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newFakeAPI("Q1")
			view := &fakeView{}
			c := newController(api, view, time.Minute)

			err := c.Start(context.Background(), tt.id, "en", tt.cv)
			assert.ErrorIs(t, err, common.ErrValidation)
			assert.Empty(t, api.Calls())
			assert.Equal(t, []string{tt.alert}, view.Alerts())
			assert.Equal(t, StepUpload, c.Step())
			assert.Empty(t, view.Steps())
		})
	}
}

func TestStart_FailureReturnsToUpload(t *testing.T) {
	for _, stage := range []string{"analyze", "detect-level", "interview-plan", "generate-questions", "start-interview"} {
		t.Run(stage, func(t *testing.T) {
			api := newFakeAPI("Q1")
			api.failAt = stage
			view := &fakeView{}
			c := newController(api, view, time.Minute)

			err := c.Start(context.Background(), ali, "en", writeCV(t))
			var se *pipeline.StageError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, stage, se.Stage)

			calls := api.Calls()
			assert.Equal(t, stage, calls[len(calls)-1], "nothing runs after the failed stage")
			assert.Equal(t, StepUpload, c.Step())
			assert.Equal(t, []Step{StepLoading, StepUpload}, view.Steps())
			assert.Equal(t, []string{MsgGeneric}, view.Alerts())
			assert.Empty(t, c.SessionID())

			_, running := c.timer.Current()
			assert.False(t, running)

			api.failAt = ""
			require.NoError(t, c.Start(context.Background(), ali, "en", writeCV(t)), "wizard is re-enterable")
			c.Close()
		})
	}
}

func TestStart_EmptyQuestionSetFails(t *testing.T) {
	api := newFakeAPI()
	view := &fakeView{}
	c := newController(api, view, time.Minute)

	err := c.Start(context.Background(), ali, "en", writeCV(t))
	assert.ErrorIs(t, err, models.ErrNoQuestions)
	assert.NotContains(t, api.Calls(), "start-interview")
	assert.Equal(t, StepUpload, c.Step())
}

func TestStart_WrongStep(t *testing.T) {
	api := newFakeAPI("Q1")
	c := newController(api, &fakeView{}, time.Minute)
	defer c.Close()

	require.NoError(t, c.Start(context.Background(), ali, "en", writeCV(t)))
	assert.ErrorIs(t, c.Start(context.Background(), ali, "en", writeCV(t)), common.ErrWrongStep)
}

func TestSubmit_ManualFlowReachesFinal(t *testing.T) {
	api := newFakeAPI("Q1", "Q2")
	view := &fakeView{}
	c := newController(api, view, time.Minute)
	defer c.Close()

	ctx := context.Background()
	require.NoError(t, c.Start(ctx, ali, "en", writeCV(t)))

	c.SetDraft("first")
	require.NoError(t, c.Submit(ctx))
	assert.Equal(t, "", c.Draft())

	c.SetDraft("second")
	require.NoError(t, c.Submit(ctx))

	select {
	case <-c.Done():
	case <-time.After(time.Second):
		t.Fatal("wizard did not finish")
	}

	assert.Equal(t, []string{"first", "second"}, api.answers)
	calls := api.Calls()
	assert.Equal(t, []string{"submit-answer", "submit-answer", "analyze-integrity", "generate-recommendation"}, calls[5:])
	assert.Equal(t, []Step{StepLoading, StepInterview, StepFinalizing, StepFinal}, view.Steps())
	assert.Equal(t, []question{{0, 2, "Q1"}, {1, 2, "Q2"}}, view.questions)
	assert.Equal(t, StepFinal, c.Step())
	assert.ErrorIs(t, c.Submit(ctx), common.ErrWrongStep)
}

func TestSubmit_EmptyAnswerRefused(t *testing.T) {
	api := newFakeAPI("Q1")
	view := &fakeView{}
	c := newController(api, view, time.Minute)
	defer c.Close()

	require.NoError(t, c.Start(context.Background(), ali, "en", writeCV(t)))
	assert.ErrorIs(t, c.Submit(context.Background()), ErrEmptyAnswer)
	assert.Equal(t, []string{MsgEmptyAnswer}, view.Alerts())
	assert.NotContains(t, api.Calls(), "submit-answer")

	_, running := c.timer.Current()
	assert.True(t, running, "refused submit keeps the countdown")
}

func TestSubmit_FailureKeepsQuestionAndRearms(t *testing.T) {
	api := newFakeAPI("Q1", "Q2")
	api.failSubmits = 1
	view := &fakeView{}
	c := newController(api, view, time.Minute)
	defer c.Close()

	ctx := context.Background()
	require.NoError(t, c.Start(ctx, ali, "en", writeCV(t)))
	first, _ := c.timer.Current()

	c.SetDraft("answer")
	require.Error(t, c.Submit(ctx))
	assert.Equal(t, []string{MsgSubmit}, view.Alerts())
	assert.Equal(t, StepInterview, c.Step())
	assert.Equal(t, "answer", c.Draft())

	second, ok := c.timer.Current()
	require.True(t, ok)
	assert.Equal(t, 0, second.Question)
	assert.NotEqual(t, first, second)

	require.NoError(t, c.Submit(ctx))
	assert.Equal(t, []string{"answer"}, api.answers)
	assert.Len(t, view.questions, 2)
}

func TestExpiry_SubmitsDraftOnce(t *testing.T) {
	api := newFakeAPI("Q1", "Q2")
	view := &fakeView{}
	c := newController(api, view, 20*time.Millisecond)
	defer c.Close()

	ctx := context.Background()
	require.NoError(t, c.Start(ctx, ali, "en", writeCV(t)))
	c.SetDraft("partial")

	for _, want := range []string{"partial", ""} {
		select {
		case got := <-api.submitted:
			assert.Equal(t, want, got)
		case <-time.After(2 * time.Second):
			t.Fatal("countdown did not submit")
		}
	}

	select {
	case <-c.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("wizard did not finish")
	}

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, []string{"partial", ""}, api.answers)
	assert.Contains(t, view.Alerts(), MsgTimeUp)
	assert.Equal(t, StepFinal, c.Step())
}

func TestManualSubmitCancelsCountdown(t *testing.T) {
	api := newFakeAPI("Q1", "Q2")
	c := newController(api, &fakeView{}, 30*time.Millisecond)
	defer c.Close()

	ctx := context.Background()
	require.NoError(t, c.Start(ctx, ali, "en", writeCV(t)))
	c.SetDraft("manual")
	require.NoError(t, c.Submit(ctx))

	c.Close()
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, []string{"manual"}, api.answers, "no duplicate auto-submit for the first question")
}

func TestStaleTimerEventIgnored(t *testing.T) {
	api := newFakeAPI("Q1", "Q2")
	view := &fakeView{}
	c := newController(api, view, time.Minute)
	defer c.Close()

	require.NoError(t, c.Start(context.Background(), ali, "en", writeCV(t)))
	stale, _ := c.timer.Current()

	c.SetDraft("a")
	require.NoError(t, c.Submit(context.Background()))

	c.onTimer(countdownExpired(stale))
	assert.Equal(t, []string{"a"}, api.answers)
	assert.Equal(t, StepInterview, c.Step())
}

func TestFinalization_FailureStillReachesFinal(t *testing.T) {
	for _, stage := range []string{"analyze-integrity", "generate-recommendation"} {
		t.Run(stage, func(t *testing.T) {
			api := newFakeAPI("Q1")
			api.failAt = stage
			view := &fakeView{}
			c := newController(api, view, time.Minute)
			defer c.Close()

			ctx := context.Background()
			require.NoError(t, c.Start(ctx, ali, "en", writeCV(t)))
			c.SetDraft("x")
			require.NoError(t, c.Submit(ctx))

			<-c.Done()
			assert.Equal(t, StepFinal, c.Step())
			assert.Empty(t, view.Alerts())
		})
	}
}

func TestStepString(t *testing.T) {
	assert.Equal(t, "upload", StepUpload.String())
	assert.Equal(t, "final", StepFinal.String())
	assert.Equal(t, "step(9)", Step(9).String())
}
