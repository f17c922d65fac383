package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	perr "compsync/internal/platform/errors"
	pnet "compsync/internal/platform/net"
	phttp "compsync/internal/platform/net/http"
)

func req(method, path, body string) *http.Request {
	r := httptest.NewRequest(method, path, strings.NewReader(body))
	return r.WithContext(pnet.WithRequest(r.Context(), "rid-1", ""))
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &m); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return m
}

func TestRespondError(t *testing.T) {
	rec := httptest.NewRecorder()
	err := perr.WithField(perr.Newf(perr.ErrorCodeRowLimit, "upload has %d rows", 1200), "file")
	phttp.RespondError(rec, req("POST", "/imports", ""), err)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d", rec.Code)
	}
	m := decode(t, rec)
	if m["code"] != "ROW_LIMIT_EXCEEDED" || m["field"] != "file" || m["request_id"] != "rid-1" {
		t.Fatalf("envelope = %v", m)
	}
}

func TestHandleVariants(t *testing.T) {
	cases := []struct {
		name   string
		resp   phttp.Response
		status int
		check  func(t *testing.T, rec *httptest.ResponseRecorder)
	}{
		{"ok", phttp.OK(map[string]int{"n": 1}), 200, func(t *testing.T, rec *httptest.ResponseRecorder) {
			if decode(t, rec)["data"] == nil {
				t.Fatal("data missing")
			}
		}},
		{"accepted", phttp.Accepted("run"), 202, nil},
		{"error", phttp.Error(perr.NotFoundf("no run")), 404, func(t *testing.T, rec *httptest.ResponseRecorder) {
			if decode(t, rec)["error"] != "no run" {
				t.Fatal("error message missing")
			}
		}},
		{"no content", phttp.Response{Status: 204}, 204, func(t *testing.T, rec *httptest.ResponseRecorder) {
			if rec.Body.Len() != 0 {
				t.Fatal("204 must not have a body")
			}
		}},
		{"attachment", phttp.Attachment("text/csv", "t.csv", []byte("a,b\n")), 200, func(t *testing.T, rec *httptest.ResponseRecorder) {
			if rec.Body.String() != "a,b\n" || !strings.Contains(rec.Header().Get("Content-Disposition"), "t.csv") {
				t.Fatalf("attachment = %q %v", rec.Body.String(), rec.Header())
			}
		}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			resp := c.resp
			phttp.Handle(func(*http.Request) phttp.Response { return resp })(rec, req("GET", "/", ""))
			if rec.Code != c.status {
				t.Fatalf("status = %d, want %d", rec.Code, c.status)
			}
			if c.check != nil {
				c.check(t, rec)
			}
		})
	}
}

type bandBody struct {
	Code string `json:"code" validate:"required"`
}

func TestRouterAndSugar(t *testing.T) {
	srv := phttp.NewServer(newConf(t))
	r := srv.Router()
	r.Route("/api/v1", func(v1 phttp.Router) {
		phttp.GetJSON(v1, "/runs/{id}", func(r *http.Request) (any, error) {
			return phttp.URLParam(r, "id"), nil
		})
		phttp.PutJSON(v1, "/bands", func(_ *http.Request, in bandBody) (any, error) {
			return in.Code, nil
		})
	})

	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, req("GET", "/api/v1/runs/abc", ""))
	if rec.Code != 200 || decode(t, rec)["data"] != "abc" {
		t.Fatalf("GET = %d %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, req("PUT", "/api/v1/bands", `{"code":"P1"}`))
	if rec.Code != 200 || decode(t, rec)["data"] != "P1" {
		t.Fatalf("PUT = %d %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, req("PUT", "/api/v1/bands", `{}`))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid PUT = %d", rec.Code)
	}
}
