package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	service "github.com/okian/handicap/internal/app"
	"github.com/okian/handicap/internal/config"
	"github.com/okian/handicap/pkg/logger"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.New()
	cfg.DataFile = filepath.Join(t.TempDir(), "handicap.json")
	cfg.AdminPIN = "4321"
	cfg.Addr = "127.0.0.1:0"
	return cfg
}

func TestNewHandler(t *testing.T) {
	convey.Convey("Given a handler built from configuration", t, func() {
		ctx := context.Background()
		cfg := testConfig(t)
		svc, err := service.FromConfig(ctx, cfg, logger.NewNop())
		convey.So(err, convey.ShouldBeNil)
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop(ctx)

		h, err := newHandler(cfg, svc, logger.NewNop())
		convey.So(err, convey.ShouldBeNil)

		serve := func(method, path, pin, body string) *httptest.ResponseRecorder {
			req := httptest.NewRequest(method, path, strings.NewReader(body))
			if pin != "" {
				req.Header.Set("X-Admin-PIN", pin)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			return rec
		}

		convey.Convey("Then the API and docs are both routed", func() {
			convey.So(serve(http.MethodGet, "/table", "", "").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(serve(http.MethodGet, "/openapi.yaml", "", "").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(serve(http.MethodGet, "/api-docs", "", "").Code, convey.ShouldEqual, http.StatusOK)
		})

		convey.Convey("Then the configured PIN guards writes", func() {
			body := `{"name":"Alice","start_handicap":-14,"team":"East"}`
			convey.So(serve(http.MethodPut, "/players", "", body).Code, convey.ShouldEqual, http.StatusUnauthorized)
			convey.So(serve(http.MethodPut, "/players", "4321", body).Code, convey.ShouldEqual, http.StatusOK)
		})
	})

	convey.Convey("Given a malformed PIN hash", t, func() {
		cfg := testConfig(t)
		cfg.AdminPINHash = "plain"

		convey.Convey("Then the handler is refused", func() {
			_, err := newHandler(cfg, service.New(), logger.NewNop())
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}

func TestRun(t *testing.T) {
	convey.Convey("Given a valid configuration", t, func() {
		cfg := testConfig(t)
		ctx, cancel := context.WithCancel(context.Background())

		convey.Convey("When the context is cancelled", func() {
			done := make(chan error, 1)
			go func() { done <- run(ctx, cfg, logger.NewNop()) }()
			time.Sleep(50 * time.Millisecond)
			cancel()

			convey.Convey("Then the server shuts down cleanly", func() {
				select {
				case err := <-done:
					convey.So(err, convey.ShouldBeNil)
				case <-time.After(5 * time.Second):
					convey.So("run did not return", convey.ShouldBeEmpty)
				}
			})
		})
	})

	convey.Convey("Given an invalid configuration", t, func() {
		cfg := testConfig(t)
		cfg.MaxGames = 0

		convey.Convey("Then run fails before listening", func() {
			convey.So(run(context.Background(), cfg, logger.NewNop()), convey.ShouldNotBeNil)
		})
	})
}
