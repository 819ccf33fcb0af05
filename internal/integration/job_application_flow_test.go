package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"hirehub/internal/app"
	"hirehub/internal/config"
	"hirehub/internal/database"
	"hirehub/internal/database/migration"
	dbpostgres "hirehub/internal/database/postgres"
	"hirehub/internal/infrastructure/storage"
	"hirehub/internal/ws"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type authBody struct {
	Principal struct {
		ID uuid.UUID `json:"id"`
	} `json:"principal"`
	AccessToken string `json:"accessToken"`
}

type messageBody struct {
	Message string `json:"message"`
}

func TestIntegration_CompanyPostsUserAppliesCompanyApproves(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	db := connectTestDB(t, ctx)
	defer func() { _ = db.Close() }()

	runMigrations(t, ctx, db)

	suffix := uuid.NewString()[:8]
	companyEmail := "hr-" + suffix + "@hirehub.test"
	userEmail := "dana-" + suffix + "@hirehub.test"
	defer cleanupAccounts(t, db, companyEmail, userEmail)

	fiberApp := newTestApp(t, db)

	var company authBody
	doJSON(t, fiberApp, http.MethodPost, "/api/v1/auth/register/company", "", map[string]any{
		"companyName": "Acme " + suffix,
		"email":       companyEmail,
		"password":    "password123",
	}, fiber.StatusCreated, &company)

	var created struct {
		ID uuid.UUID `json:"id"`
	}
	doJSON(t, fiberApp, http.MethodPost, "/api/v1/jobs", company.AccessToken, map[string]any{
		"title":     "Backend Engineer",
		"vacancies": 1,
		"skills":    []string{"Go", "go", "PostgreSQL"},
	}, fiber.StatusCreated, &created)
	if created.ID == uuid.Nil {
		t.Fatalf("create job: missing id")
	}

	var applicant authBody
	doJSON(t, fiberApp, http.MethodPost, "/api/v1/auth/register/user", "", map[string]any{
		"fullName": "Dana",
		"email":    userEmail,
		"password": "password123",
	}, fiber.StatusCreated, &applicant)

	applyPath := "/api/v1/jobs/" + created.ID.String() + "/apply"
	var msg messageBody
	doCV(t, fiberApp, applyPath, applicant.AccessToken, fiber.StatusOK, &msg)
	if msg.Message != "Applied successfully" {
		t.Fatalf("apply: unexpected message %q", msg.Message)
	}
	doCV(t, fiberApp, applyPath, applicant.AccessToken, fiber.StatusBadRequest, &msg)
	if msg.Message != "You have already applied for this job" {
		t.Fatalf("duplicate apply: unexpected message %q", msg.Message)
	}

	var applicants []map[string]any
	doJSON(t, fiberApp, http.MethodGet, "/api/v1/jobs/"+created.ID.String()+"/applicants", company.AccessToken, nil, fiber.StatusOK, &applicants)
	if len(applicants) != 1 || applicants[0]["status"] != "Pending" || applicants[0]["cvFile"] == "" {
		t.Fatalf("applicants: expected one pending, got %v", applicants)
	}

	decision := "/api/v1/jobs/" + created.ID.String() + "/applicants/" + applicant.Principal.ID.String()
	doJSON(t, fiberApp, http.MethodPost, decision+"/approve", company.AccessToken, nil, fiber.StatusOK, &msg)
	if msg.Message != "Application approved" {
		t.Fatalf("approve: unexpected message %q", msg.Message)
	}

	var applied []map[string]any
	doJSON(t, fiberApp, http.MethodGet, "/api/v1/users/me/applied-jobs", applicant.AccessToken, nil, fiber.StatusOK, &applied)
	if len(applied) != 1 {
		t.Fatalf("applied-jobs: expected 1 row, got %d", len(applied))
	}
	if applied[0]["jobId"] != created.ID.String() || applied[0]["status"] != "Approved" {
		t.Fatalf("applied-jobs: unexpected row %v", applied[0])
	}

	cvPath, _ := applicants[0]["cvFile"].(string)
	fetchStatus(t, fiberApp, "/"+cvPath, fiber.StatusOK)

	renamed := "Acme Renamed " + suffix
	doJSON(t, fiberApp, http.MethodPut, "/api/v1/companies/me", company.AccessToken, map[string]any{
		"companyName": renamed,
	}, fiber.StatusOK, nil)

	listed := findJob(t, listJobs(t, fiberApp, "/api/v1/jobs", ""), created.ID)
	if listed == nil {
		t.Fatalf("list jobs: job %s missing before delete", created.ID)
	}
	if summary, _ := listed["company"].(map[string]any); summary == nil || summary["companyName"] != renamed {
		t.Fatalf("list jobs: expected company %q, got %v", renamed, listed["company"])
	}
	if findJob(t, listJobs(t, fiberApp, "/api/v1/jobs/my-job/"+companyEmail, company.AccessToken), created.ID) == nil {
		t.Fatalf("list jobs by company email: job %s missing before delete", created.ID)
	}

	doJSON(t, fiberApp, http.MethodDelete, "/api/v1/jobs/"+created.ID.String(), company.AccessToken, nil, fiber.StatusOK, &msg)
	doJSON(t, fiberApp, http.MethodGet, "/api/v1/jobs/"+created.ID.String(), "", nil, fiber.StatusNotFound, &msg)
	if msg.Message != "Job not found" {
		t.Fatalf("get deleted job: unexpected message %q", msg.Message)
	}
	if findJob(t, listJobs(t, fiberApp, "/api/v1/jobs", ""), created.ID) != nil {
		t.Fatalf("list jobs: deleted job %s still listed", created.ID)
	}
	if mine := listJobs(t, fiberApp, "/api/v1/jobs/my-job/"+companyEmail, company.AccessToken); len(mine) != 0 {
		t.Fatalf("list jobs by company email: expected none after delete, got %v", mine)
	}
}

func listJobs(t *testing.T, a *fiber.App, target, token string) []map[string]any {
	t.Helper()

	var out []map[string]any
	doJSON(t, a, http.MethodGet, target, token, nil, fiber.StatusOK, &out)
	return out
}

func findJob(t *testing.T, jobs []map[string]any, id uuid.UUID) map[string]any {
	t.Helper()

	for _, j := range jobs {
		if j["id"] == id.String() {
			return j
		}
	}
	return nil
}

func fetchStatus(t *testing.T, a *fiber.App, target string, wantStatus int) {
	t.Helper()

	resp, err := a.Test(httptest.NewRequest(http.MethodGet, target, nil), fiber.TestConfig{Timeout: 10 * time.Second})
	if err != nil {
		t.Fatalf("GET %s: %v", target, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		t.Fatalf("GET %s: expected %d, got %d", target, wantStatus, resp.StatusCode)
	}
}

func connectTestDB(t *testing.T, ctx context.Context) database.DB {
	t.Helper()

	host := os.Getenv("HIREHUB_TEST_DB_HOST")
	port := os.Getenv("HIREHUB_TEST_DB_PORT")
	name := os.Getenv("HIREHUB_TEST_DB_NAME")
	user := os.Getenv("HIREHUB_TEST_DB_USER")
	pass := os.Getenv("HIREHUB_TEST_DB_PASSWORD")
	ssl := stringsOrDefault(os.Getenv("HIREHUB_TEST_DB_SSL_MODE"), "disable")

	if host == "" || port == "" || name == "" || user == "" {
		t.Skip("missing test DB env vars: set HIREHUB_TEST_DB_HOST/PORT/NAME/USER/PASSWORD")
	}

	db, err := dbpostgres.Connect(ctx, config.DatabaseConfig{
		DBHost:         host,
		DBPort:         port,
		DBName:         name,
		DBUser:         user,
		DBPassword:     pass,
		DBSSLMode:      ssl,
		ConnectTimeout: 5 * time.Second,
		PoolMaxConns:   4,
	}, nil)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return db
}

func runMigrations(t *testing.T, ctx context.Context, db database.DB) {
	t.Helper()

	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("resolve migrations dir: runtime.Caller failed")
	}
	dir := filepath.Join(filepath.Dir(file), "..", "..", "migrations")

	if _, err := (migration.Runner{Dir: dir}).Run(ctx, db.SQLDB()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
}

func newTestApp(t *testing.T, db database.DB) *fiber.App {
	t.Helper()

	logger := log.New(io.Discard, "", 0)
	uploadDir := t.TempDir()
	files, err := storage.NewLocal(uploadDir, app.UploadURLPrefix, logger)
	if err != nil {
		t.Fatalf("file store: %v", err)
	}

	cfg := config.Config{
		App: config.AppConfig{AppName: "HireHub", Environment: "test", BodyLimitMB: 5},
		JWT: config.JWTConfig{
			AccessSecret:     stringsOrDefault(os.Getenv("HIREHUB_TEST_JWT_ACCESS_SECRET"), "test-access-secret"),
			RefreshSecret:    stringsOrDefault(os.Getenv("HIREHUB_TEST_JWT_REFRESH_SECRET"), "test-refresh-secret"),
			AccessExpiresIn:  15 * time.Minute,
			RefreshExpiresIn: time.Hour,
		},
		Upload: config.UploadConfig{Driver: config.UploadDriverLocal, Dir: uploadDir},
	}

	c := &app.Container{Config: cfg, Logger: logger, DB: db, Files: files, Hub: ws.NewHub(logger)}
	return app.New(cfg, c).Fiber
}

func doJSON(t *testing.T, a *fiber.App, method, target, token string, body any, wantStatus int, out any) {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	decode(t, a, req, wantStatus, out)
}

func doCV(t *testing.T, a *fiber.App, target, token string, wantStatus int, out any) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("cv", "resume.pdf")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	_, _ = part.Write([]byte("%PDF-1.4 test"))
	_ = w.Close()

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	decode(t, a, req, wantStatus, out)
}

func decode(t *testing.T, a *fiber.App, req *http.Request, wantStatus int, out any) {
	t.Helper()

	resp, err := a.Test(req, fiber.TestConfig{Timeout: 10 * time.Second})
	if err != nil {
		t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != wantStatus {
		t.Fatalf("%s %s: expected %d, got %d body=%s", req.Method, req.URL.Path, wantStatus, resp.StatusCode, raw)
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			t.Fatalf("%s %s: decode: %v body=%s", req.Method, req.URL.Path, err, raw)
		}
	}
}

func cleanupAccounts(t *testing.T, db database.DB, companyEmail, userEmail string) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := db.Exec(ctx, `DELETE FROM users WHERE email = $1`, userEmail); err != nil {
		t.Logf("cleanup users: %v", err)
	}
	if _, err := db.Exec(ctx, `DELETE FROM companies WHERE email = $1`, companyEmail); err != nil {
		t.Logf("cleanup companies: %v", err)
	}
}

func stringsOrDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
