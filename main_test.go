package main

import (
	"encoding/json"
	"errors"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/spenceriam/portfolio/internal/starfield"
)

type fakeMailer struct {
	err  error
	sent []ContactMessage
}

func (m *fakeMailer) Send(msg ContactMessage) error {
	m.sent = append(m.sent, msg)
	return m.err
}

type testSite struct {
	router *gin.Engine
	clock  *starfield.FakeClock
	mailer *fakeMailer
}

func newTestSite(t *testing.T) *testSite {
	t.Helper()
	gin.SetMode(gin.TestMode)

	conn, err := openDatabase(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	db = conn
	if err := createVisitorTable(); err != nil {
		t.Fatalf("create visitors: %v", err)
	}

	clock := starfield.NewFakeClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	cfg := starfield.DefaultConfig()
	cfg.DotCount = 25
	background = starfield.NewController(cfg, clock, rand.New(rand.NewSource(1)))
	background.Start()

	fake := &fakeMailer{}
	mailer = fake

	t.Cleanup(func() {
		background.Stop()
		conn.Close()
		db = nil
		mailer = smtpMailer{}
	})

	r := gin.New()
	r.LoadHTMLGlob("templates/*")
	setupRoutes(r)
	setupAdminRoutes(r)

	return &testSite{router: r, clock: clock, mailer: fake}
}

func (s *testSite) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestSendEmailRelaysAndArchives(t *testing.T) {
	site := newTestSite(t)

	rec := site.do(jsonRequest(http.MethodPost, "/api/send-email",
		`{"name":"Ada","email":"ada@example.com","message":"Hello there"}`))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["success"] != true {
		t.Fatalf("expected success true, got %v", body)
	}
	if len(site.mailer.sent) != 1 || site.mailer.sent[0].Name != "Ada" {
		t.Fatalf("expected one relayed message from Ada, got %+v", site.mailer.sent)
	}

	stored, err := listContactMessages(10)
	if err != nil {
		t.Fatalf("list messages: %v", err)
	}
	if len(stored) != 1 || !stored[0].Delivered || stored[0].Message != "Hello there" {
		t.Fatalf("expected one delivered archived message, got %+v", stored)
	}
}

func TestSendEmailFailureReturns500(t *testing.T) {
	site := newTestSite(t)
	site.mailer.err = errors.New("smtp down")

	rec := site.do(jsonRequest(http.MethodPost, "/api/send-email",
		`{"name":"Ada","email":"ada@example.com","message":"Hello"}`))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	var body struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Success || body.Error != "Failed to send email" {
		t.Fatalf("unexpected failure body: %+v", body)
	}

	stored, err := listContactMessages(10)
	if err != nil {
		t.Fatalf("list messages: %v", err)
	}
	if len(stored) != 1 || stored[0].Delivered {
		t.Fatalf("expected the undelivered message to be archived, got %+v", stored)
	}
}

func TestSendEmailRejectsIncompletePayload(t *testing.T) {
	site := newTestSite(t)

	for _, payload := range []string{
		`{"name":"Ada","message":"missing email"}`,
		`{"name":"Ada","email":"not-an-email","message":"hi"}`,
		`not json`,
	} {
		rec := site.do(jsonRequest(http.MethodPost, "/api/send-email", payload))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("payload %s: expected 400, got %d", payload, rec.Code)
		}
	}
	if len(site.mailer.sent) != 0 {
		t.Fatalf("expected nothing to be relayed, got %d messages", len(site.mailer.sent))
	}
}

func TestContactFormReturnsFragments(t *testing.T) {
	site := newTestSite(t)

	form := url.Values{"fullName": {"Grace"}, "email": {"grace@example.com"}, "message": {"Hi"}}
	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := site.do(req)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Thank you for your message") {
		t.Fatalf("expected success fragment, got %d: %s", rec.Code, rec.Body.String())
	}

	site.mailer.err = errors.New("smtp down")
	req = httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec = site.do(req)
	if !strings.Contains(rec.Body.String(), "error sending your message") {
		t.Fatalf("expected error fragment, got %s", rec.Body.String())
	}
}

func TestPagesRender(t *testing.T) {
	site := newTestSite(t)

	cases := map[string]string{
		"/":                  OwnerName,
		"/work-content":      "Digital Agency",
		"/education-content": "ITT Technical Institute",
		"/github-content":    "github.com/" + GithubUser,
		"/contact-form":      `name="fullName"`,
		"/privacy":           "Do Not Track",
	}
	for path, want := range cases {
		rec := site.do(httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), want) {
			t.Fatalf("%s: expected body to contain %q", path, want)
		}
	}
}

func TestHealthz(t *testing.T) {
	site := newTestSite(t)

	rec := site.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" || body["background"] != true {
		t.Fatalf("unexpected health body: %v", body)
	}
}
