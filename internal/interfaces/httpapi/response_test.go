package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/1olp1/fch-tippspiel-23-local-version/internal/platform/lock"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/usecase"
	sonic "github.com/bytedance/sonic"
)

type envelopeBody struct {
	APIVersion string `json:"apiVersion"`
	Data       any    `json:"data"`
	Error      *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
		Errors  []struct {
			Domain string `json:"domain"`
			Reason string `json:"reason"`
		} `json:"errors"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelopeBody {
	t.Helper()

	var body envelopeBody
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v (body=%s)", err, rec.Body.String())
	}
	if body.APIVersion != "2.0" {
		t.Fatalf("expected apiVersion=2.0, got %q", body.APIVersion)
	}
	return body
}

func TestWriteSuccess_GoogleEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeSuccess(rec, http.StatusOK, map[string]string{"status": "ok"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body := decodeEnvelope(t, rec)
	if body.Data == nil {
		t.Fatalf("expected data key in success response")
	}
	if body.Error != nil {
		t.Fatalf("did not expect error key in success response")
	}
}

func TestWriteError_MapsSentinels(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   int
		wantStatus string
		wantReason string
	}{
		{name: "invalid input", err: fmt.Errorf("%w: bad payload", usecase.ErrInvalidInput), wantCode: http.StatusBadRequest, wantStatus: "INVALID_ARGUMENT", wantReason: "invalidInput"},
		{name: "not found", err: fmt.Errorf("%w: user 9", usecase.ErrNotFound), wantCode: http.StatusNotFound, wantStatus: "NOT_FOUND", wantReason: "notFound"},
		{name: "match closed", err: fmt.Errorf("%w: match 1", usecase.ErrMatchClosed), wantCode: http.StatusConflict, wantStatus: "FAILED_PRECONDITION", wantReason: "matchClosed"},
		{name: "sync running", err: fmt.Errorf("acquire season lock: %w", errors.Join(lock.ErrNotAcquired, context.DeadlineExceeded)), wantCode: http.StatusConflict, wantStatus: "ABORTED", wantReason: "syncInProgress"},
		{name: "provider down", err: fmt.Errorf("%w: openligadb", usecase.ErrDependencyUnavailable), wantCode: http.StatusServiceUnavailable, wantStatus: "UNAVAILABLE", wantReason: "dependencyUnavailable"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(context.Background(), rec, tc.err)

			if rec.Code != tc.wantCode {
				t.Fatalf("unexpected status code: got=%d want=%d", rec.Code, tc.wantCode)
			}
			body := decodeEnvelope(t, rec)
			if body.Error == nil {
				t.Fatalf("expected error object in response")
			}
			if body.Error.Status != tc.wantStatus {
				t.Fatalf("unexpected error status: got=%q want=%q", body.Error.Status, tc.wantStatus)
			}
			if len(body.Error.Errors) != 1 || body.Error.Errors[0].Reason != tc.wantReason || body.Error.Errors[0].Domain != errorDomain {
				t.Fatalf("unexpected error items: %+v", body.Error.Errors)
			}
		})
	}
}

func TestWriteError_InternalHidesMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, errors.New("pq: relation \"users\" does not exist"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
	body := decodeEnvelope(t, rec)
	if body.Error == nil || body.Error.Message != internalMessage {
		t.Fatalf("expected generic internal message, got %+v", body.Error)
	}
}
