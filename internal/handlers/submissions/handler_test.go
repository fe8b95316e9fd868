package submissions

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/codecoffee/judge/internal/adapter/logging"
	"github.com/codecoffee/judge/internal/domain"
	"github.com/codecoffee/judge/internal/static/errs"
	"github.com/codecoffee/judge/internal/workerpool"
)

type fakeService struct {
	submitID    uuid.UUID
	submitErr   error
	runID       string
	runErr      error
	stored      *domain.Submission
	problem     *domain.Problem
	queueLength int64

	lastMode string
}

func (f *fakeService) SubmitCode(_ context.Context, userID, problemID, code, language string) (uuid.UUID, error) {
	f.lastMode = "submit"
	return f.submitID, f.submitErr
}

func (f *fakeService) RunCode(_ context.Context, userID, problemID, code, language string) (string, error) {
	f.lastMode = "run"
	return f.runID, f.runErr
}

func (f *fakeService) GetSubmission(_ context.Context, id uuid.UUID) (*domain.Submission, *domain.Problem, error) {
	if f.stored == nil || f.stored.ID != id {
		return nil, nil, nil
	}
	return f.stored, f.problem, nil
}

func (f *fakeService) QueueLength(context.Context) (int64, error) {
	return f.queueLength, nil
}

type fakePool struct{ status workerpool.PoolStatus }

func (f fakePool) Status() workerpool.PoolStatus { return f.status }

func newRouter(svc *fakeService, pool PoolMonitor) *mux.Router {
	r := mux.NewRouter()
	NewSubmissionHandler(svc, pool, []string{"python", "javascript", "cpp"}, logging.NewNopLogger()).
		RegisterRoutes(r)
	return r
}

func submitBody(t *testing.T) *bytes.Buffer {
	t.Helper()
	body, err := json.Marshal(CreateSubmissionRequest{
		ProblemID: "two-sum",
		Code:      "print(1)",
		Language:  "python",
		UserID:    "user-1",
	})
	require.NoError(t, err)
	return bytes.NewBuffer(body)
}

func TestCreateSubmission(t *testing.T) {
	svc := &fakeService{submitID: uuid.New()}
	rec := httptest.NewRecorder()

	newRouter(svc, fakePool{}).ServeHTTP(rec,
		httptest.NewRequest(http.MethodPost, "/api/submissions", submitBody(t)))

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "submit", svc.lastMode, "missing mode defaults to submit")

	var resp CreateSubmissionResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Equal(t, svc.submitID.String(), resp.SubmissionID)
	require.Equal(t, domain.StatusPending, resp.Status)
}

func TestCreateSubmissionRunMode(t *testing.T) {
	svc := &fakeService{runID: "run:two-sum"}
	rec := httptest.NewRecorder()

	newRouter(svc, fakePool{}).ServeHTTP(rec,
		httptest.NewRequest(http.MethodPost, "/api/submissions?mode=run", submitBody(t)))

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "run", svc.lastMode)

	var resp CreateSubmissionResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Equal(t, "run:two-sum", resp.SubmissionID)
}

func TestCreateSubmissionValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
		url  string
		want int
	}{
		{name: "malformed json", body: "{", url: "/api/submissions", want: http.StatusBadRequest},
		{name: "missing fields", body: `{"problemId":"p"}`, url: "/api/submissions", want: http.StatusBadRequest},
		{name: "unknown mode", body: `{"problemId":"p","code":"c","language":"python","userId":"u"}`, url: "/api/submissions?mode=replay", want: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			newRouter(&fakeService{}, fakePool{}).ServeHTTP(rec,
				httptest.NewRequest(http.MethodPost, tt.url, bytes.NewBufferString(tt.body)))
			require.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestCreateSubmissionProblemNotFound(t *testing.T) {
	svc := &fakeService{submitErr: fmt.Errorf("failed to validate problem: %w", errs.ErrProblemNotFound)}
	rec := httptest.NewRecorder()

	newRouter(svc, fakePool{}).ServeHTTP(rec,
		httptest.NewRequest(http.MethodPost, "/api/submissions", submitBody(t)))

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateSubmissionUnsupportedLanguage(t *testing.T) {
	svc := &fakeService{submitErr: fmt.Errorf("%w: ruby", errs.ErrUnsupportedLanguage)}
	rec := httptest.NewRecorder()

	newRouter(svc, fakePool{}).ServeHTTP(rec,
		httptest.NewRequest(http.MethodPost, "/api/submissions", submitBody(t)))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "Unsupported language")
	require.Contains(t, rec.Body.String(), "python, javascript, cpp")
}

func TestGetSubmission(t *testing.T) {
	stored := domain.NewSubmission("user-1", "two-sum", "print(1)", "python")
	stored.Status = domain.StatusAccepted
	stored.TestCasesPassed = 3
	stored.TotalTestCases = 3
	svc := &fakeService{
		stored:  stored,
		problem: &domain.Problem{ID: "two-sum", Title: "Two Sum", Difficulty: "easy"},
	}
	rec := httptest.NewRecorder()

	newRouter(svc, fakePool{}).ServeHTTP(rec,
		httptest.NewRequest(http.MethodGet, "/api/submissions/"+stored.ID.String(), nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp SubmissionResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Equal(t, stored.ID.String(), resp.SubmissionID)
	require.Equal(t, "Two Sum", resp.ProblemTitle)
	require.Equal(t, "easy", resp.Difficulty)
	require.Equal(t, domain.StatusAccepted, resp.Status)
	require.Equal(t, 3, resp.TestCasesPassed)
}

func TestGetSubmissionNotFound(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(&fakeService{}, fakePool{}).ServeHTTP(rec,
		httptest.NewRequest(http.MethodGet, "/api/submissions/"+uuid.NewString(), nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetSubmissionInvalidID(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(&fakeService{}, fakePool{}).ServeHTTP(rec,
		httptest.NewRequest(http.MethodGet, "/api/submissions/not-a-uuid", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQueueStatus(t *testing.T) {
	svc := &fakeService{queueLength: 7}
	pool := fakePool{status: workerpool.PoolStatus{IsRunning: true, ProcessingCount: 2, MaxConcurrentJobs: 3}}
	rec := httptest.NewRecorder()

	newRouter(svc, pool).ServeHTTP(rec,
		httptest.NewRequest(http.MethodGet, "/api/queue/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp QueueStatusResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Equal(t, int64(7), resp.QueueLength)
	require.True(t, resp.Workers.IsRunning)
	require.Equal(t, 3, resp.Workers.MaxConcurrentJobs)
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(&fakeService{}, fakePool{}).ServeHTTP(rec,
		httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "ok")
}
