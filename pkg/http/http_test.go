package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

type listRequest struct {
	Symbol string `query:"symbol" validate:"required,max=8"`
	Limit  int    `query:"limit" default:"20" validate:"gte=1,lte=100"`
}

func newContext(target string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	rec := httptest.NewRecorder()
	return e.NewContext(httptest.NewRequest(http.MethodGet, target, nil), rec), rec
}

func TestReadAndValidateRequestAppliesDefaults(t *testing.T) {
	c, _ := newContext("/x?symbol=PETR4")
	req := &listRequest{}
	if verr := ReadAndValidateRequest(c, req); verr != nil {
		t.Fatalf("unexpected validation error %v", verr)
	}
	if req.Symbol != "PETR4" || req.Limit != 20 {
		t.Fatalf("unexpected request %+v", req)
	}
}

func TestReadAndValidateRequestReportsFields(t *testing.T) {
	c, _ := newContext("/x?limit=500")
	verr := ReadAndValidateRequest(c, &listRequest{})
	errs, ok := verr.([]ValidationError)
	if !ok || len(errs) != 2 {
		t.Fatalf("expected two field errors, got %#v", verr)
	}
	if errs[0].Code != "ERR_REQUIRED" || errs[1].Code != "ERR_LTE" {
		t.Fatalf("unexpected codes %+v", errs)
	}
}

func TestAppErrorResponse(t *testing.T) {
	c, rec := newContext("/")
	err := ConflictError("scan already finished").WithError(errors.New("state=done"))
	if werr := AppErrorResponse(c, err); werr != nil {
		t.Fatalf("write: %v", werr)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "state=done") {
		t.Fatalf("wrapped error must not leak: %s", rec.Body.String())
	}

	c, rec = newContext("/")
	_ = AppErrorResponse(c, errors.New("boom"))
	var body APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body.Status != http.StatusInternalServerError {
		t.Fatalf("plain errors become 500: %s", rec.Body.String())
	}
}

type countingHandler struct{ n *int }

func (h countingHandler) RegisterRoutes(*echo.Echo) { *h.n++ }

func TestHandlersAndHealth(t *testing.T) {
	e := echo.New()
	n := 0
	Handlers{NewHealth("test"), nil, countingHandler{&n}}.RegisterRoutes(e)
	if n != 1 {
		t.Fatalf("expected one registration, got %d", n)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	var got healthView
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Status != "ok" || got.Environment != "test" {
		t.Fatalf("unexpected health %+v", got)
	}
}

func TestClientDefaultsToGetAndReportsStatus(t *testing.T) {
	var method, query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, query = r.Method, r.URL.Query().Get("interval")
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := NewClient()
	var out struct {
		OK bool `json:"ok"`
	}
	err := c.SendAndParse(context.Background(), &RequestOptions{URL: srv.URL + "/x", QueryParams: map[string][]string{"interval": {"1d"}}}, &out)
	if err != nil || !out.OK || method != http.MethodGet || query != "1d" {
		t.Fatalf("unexpected result ok=%v method=%s query=%s err=%v", out.OK, method, query, err)
	}

	err = c.SendAndParse(context.Background(), &RequestOptions{URL: srv.URL + "/missing"}, &out)
	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusNotFound {
		t.Fatalf("expected status error, got %v", err)
	}
}
