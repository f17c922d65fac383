package http

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	perr "compsync/internal/platform/errors"
	phttp "compsync/internal/platform/net/http"
	"compsync/internal/platform/net/middleware"
	"compsync/internal/services/importer/domain"
)

const (
	org   = "7b1c0e6a-3f0e-4b5c-9d55-0a6f7d0f5a11"
	other = "0d4f6f0e-07c2-45f3-8a8e-8f0e3a1d2b33"
)

type fakeImporter struct {
	req       domain.Request
	started   bool
	cancelled string
}

func (f *fakeImporter) Start(_ context.Context, req domain.Request) (domain.Accepted, error) {
	f.req, f.started = req, true
	if req.Mode == domain.ModeReplace && !req.Confirmed {
		return domain.Accepted{}, perr.WithField(perr.InvalidArgf("replace requires confirm=true"), "confirm")
	}
	return domain.Accepted{RunID: "run-1", Total: 2}, nil
}

func (f *fakeImporter) Status(id string) (domain.Status, error) {
	if id != "run-1" {
		return domain.Status{}, perr.NotFoundf("import run %s not found", id)
	}
	return domain.Status{RunID: id, OrgID: org, State: domain.StateRunning, Total: 2}, nil
}

func (f *fakeImporter) Cancel(id string) error { f.cancelled = id; return nil }

func (f *fakeImporter) Wait(context.Context, string) (domain.Result, error) {
	return domain.Result{}, nil
}

func (f *fakeImporter) Template() []byte { return []byte("Employee ID,Email\n") }

func router(f *fakeImporter) stdhttp.Handler {
	mux := chi.NewRouter()
	phttp.AdaptChi(mux).Route("/imports", func(r phttp.Router) { Register(r, f) })
	return mux
}

func do(t *testing.T, h stdhttp.Handler, req *stdhttp.Request, orgHdr string) *httptest.ResponseRecorder {
	t.Helper()
	if orgHdr != "" {
		req.Header.Set(middleware.OrgHeader, orgHdr)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func upload(t *testing.T, target, body string) *stdhttp.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "people.csv")
	if err != nil {
		t.Fatal(err)
	}
	_, _ = fw.Write([]byte(body))
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(stdhttp.MethodPost, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestStartAccepted(t *testing.T) {
	f := &fakeImporter{}
	w := do(t, router(f), upload(t, "/imports/?mode=replace&confirm=true", "Employee ID\nE1\n"), org)
	if w.Code != stdhttp.StatusAccepted {
		t.Fatalf("status = %d body=%s", w.Code, w.Body)
	}
	if f.req.OrgID != org || f.req.Mode != domain.ModeReplace || !f.req.Confirmed {
		t.Fatalf("request = %+v", f.req)
	}
	if f.req.Filename != "people.csv" || string(f.req.Data) != "Employee ID\nE1\n" {
		t.Fatalf("upload = %q %q", f.req.Filename, f.req.Data)
	}
	var env struct {
		Data domain.Accepted `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatal(err)
	}
	if env.Data.RunID != "run-1" {
		t.Fatalf("data = %+v", env.Data)
	}
}

func TestStartRejections(t *testing.T) {
	h := router(&fakeImporter{})
	if w := do(t, h, upload(t, "/imports/?mode=merge", "x"), org); w.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("bad mode = %d", w.Code)
	}
	if w := do(t, h, upload(t, "/imports/?mode=replace", "x"), org); w.Code != stdhttp.StatusUnprocessableEntity ||
		!strings.Contains(w.Body.String(), `"field":"confirm"`) {
		t.Fatalf("unconfirmed replace = %d %s", w.Code, w.Body)
	}
	noFile := httptest.NewRequest(stdhttp.MethodPost, "/imports/", strings.NewReader("plain"))
	if w := do(t, h, noFile, org); w.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("no multipart = %d", w.Code)
	}

	f := &fakeImporter{}
	if w := do(t, router(f), upload(t, "/imports/", "x"), ""); w.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("missing org = %d", w.Code)
	}
	if f.started {
		t.Fatal("importer must not run without an org")
	}
}

func TestStatusAndCancel(t *testing.T) {
	f := &fakeImporter{}
	h := router(f)
	if w := do(t, h, httptest.NewRequest(stdhttp.MethodGet, "/imports/run-1", nil), org); w.Code != stdhttp.StatusOK ||
		!strings.Contains(w.Body.String(), `"state":"running"`) {
		t.Fatalf("status = %d %s", w.Code, w.Body)
	}
	if w := do(t, h, httptest.NewRequest(stdhttp.MethodGet, "/imports/run-9", nil), org); w.Code != stdhttp.StatusNotFound {
		t.Fatalf("unknown run = %d", w.Code)
	}
	if w := do(t, h, httptest.NewRequest(stdhttp.MethodGet, "/imports/run-1", nil), other); w.Code != stdhttp.StatusNotFound {
		t.Fatalf("foreign org = %d", w.Code)
	}
	if w := do(t, h, httptest.NewRequest(stdhttp.MethodDelete, "/imports/run-1", nil), other); w.Code != stdhttp.StatusNotFound || f.cancelled != "" {
		t.Fatalf("foreign cancel = %d %q", w.Code, f.cancelled)
	}
	if w := do(t, h, httptest.NewRequest(stdhttp.MethodDelete, "/imports/run-1", nil), org); w.Code != stdhttp.StatusAccepted || f.cancelled != "run-1" {
		t.Fatalf("cancel = %d %q", w.Code, f.cancelled)
	}
}

func TestTemplateNeedsNoOrg(t *testing.T) {
	w := do(t, router(&fakeImporter{}), httptest.NewRequest(stdhttp.MethodGet, "/imports/template", nil), "")
	if w.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("content type = %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "employees_template.csv") {
		t.Fatalf("disposition = %q", cd)
	}
	if w.Body.String() != "Employee ID,Email\n" {
		t.Fatalf("body = %q", w.Body)
	}
}
