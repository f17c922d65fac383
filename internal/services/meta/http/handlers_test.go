package http

import (
	"context"
	"encoding/json"
	"errors"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	phttp "compsync/internal/platform/net/http"
	ptime "compsync/internal/platform/time"
)

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

func get(t *testing.T, d Deps, path string, out any) {
	t.Helper()
	mux := chi.NewRouter()
	phttp.AdaptChi(mux).Route("/meta", func(r phttp.Router) { Register(r, d) })
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(stdhttp.MethodGet, path, nil))
	if w.Code != stdhttp.StatusOK {
		t.Fatalf("%s status = %d", path, w.Code)
	}
	env := struct {
		Data any `json:"data"`
	}{Data: out}
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatal(err)
	}
}

func TestHealthUptime(t *testing.T) {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	var out HealthResponse
	get(t, Deps{ServiceName: "compsync-api", StartedAt: start, Clock: ptime.Fixed(start.Add(90 * time.Second))}, "/meta/health", &out)
	if !out.OK || out.Uptime != 90 || out.Service != "compsync-api" {
		t.Fatalf("health = %+v", out)
	}
}

func TestReadyStatus(t *testing.T) {
	cases := []struct {
		name string
		d    Deps
		want string
	}{
		{"all ok", Deps{PG: pinger{}, Cache: pinger{}}, "ok"},
		{"no cache", Deps{PG: pinger{}}, "ok"},
		{"cache down", Deps{PG: pinger{}, Cache: pinger{errors.New("down")}}, "degraded"},
		{"no pg", Deps{Cache: pinger{}}, "degraded"},
		{"pg down", Deps{PG: pinger{errors.New("down")}}, "fail"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var out ReadyResponse
			get(t, c.d, "/meta/ready", &out)
			if out.Status != c.want || len(out.Checks) != 2 {
				t.Fatalf("ready = %+v", out)
			}
		})
	}
}

func TestVersion(t *testing.T) {
	var out struct {
		Service string `json:"service"`
		Version string `json:"version"`
	}
	get(t, Deps{ServiceName: "compsync-api"}, "/meta/version", &out)
	if out.Service != "compsync-api" || out.Version != "dev" {
		t.Fatalf("version = %+v", out)
	}
}
