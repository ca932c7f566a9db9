package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/gymdesk/internal/db"
	"github.com/terraincognita07/gymdesk/internal/i18n"
	"github.com/terraincognita07/gymdesk/internal/models"
	"github.com/terraincognita07/gymdesk/internal/services"
	"github.com/terraincognita07/gymdesk/internal/storage"
	"github.com/terraincognita07/gymdesk/internal/templates"
	"go.uber.org/zap"
)

const (
	testAdminEmail    = "admin@example.com"
	testAdminPassword = "admin-password-1"
	testSecretKey     = "0123456789abcdef0123456789abcdef"
)

type testEnv struct {
	app     *fiber.App
	handler *Handler
	members *services.MemberService
	photos  *storage.PhotoDirectory
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()

	database, err := db.Open(filepath.Join(t.TempDir(), "gymdesk-api-test.db"), zap.NewNop())
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	photos, err := storage.NewPhotoDirectory(filepath.Join(t.TempDir(), "uploads"), []string{"png", "jpg", "jpeg", "gif"})
	if err != nil {
		t.Fatalf("init photo directory: %v", err)
	}

	passwordHash, err := services.HashPassword(testAdminPassword)
	if err != nil {
		t.Fatalf("hash admin password: %v", err)
	}
	credentials, err := services.NewStaticCredentialStore(testAdminEmail, passwordHash)
	if err != nil {
		t.Fatalf("init credential store: %v", err)
	}

	i18nManager, err := i18n.NewManager("en", i18n.Locales())
	if err != nil {
		t.Fatalf("init i18n: %v", err)
	}

	members := services.NewMemberService(db.NewRepositories(database).Members, photos, time.UTC, zap.NewNop())
	handler, err := NewHandler(Config{
		Members:   members,
		Auth:      services.NewAuthService(credentials, []byte(testSecretKey), time.Hour),
		Photos:    photos,
		I18n:      i18nManager,
		Templates: templates.Files,
		SecretKey: []byte(testSecretKey),
	})
	if err != nil {
		t.Fatalf("init handler: %v", err)
	}

	app := fiber.New()
	app.Use(RequestLogger(zap.NewNop()))
	app.Use(handler.LanguageMiddleware)
	RegisterRoutes(app, handler)
	app.Use(handler.NotFound)

	return testEnv{app: app, handler: handler, members: members, photos: photos}
}

func (env testEnv) do(t *testing.T, request *http.Request) *http.Response {
	t.Helper()

	response, err := env.app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", request.Method, request.URL.Path, err)
	}
	t.Cleanup(func() {
		_ = response.Body.Close()
	})
	return response
}

// loginSession signs the admin in and returns the session cookie value.
func (env testEnv) loginSession(t *testing.T) string {
	t.Helper()

	response := env.do(t, newFormRequest(http.MethodPost, "/login", url.Values{
		"email":    {testAdminEmail},
		"password": {testAdminPassword},
	}))
	if response.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected login status 303, got %d", response.StatusCode)
	}
	session := responseCookieValue(response.Cookies(), sessionCookieName)
	if session == "" {
		t.Fatal("expected session cookie after login")
	}
	return session
}

func (env testEnv) createMember(t *testing.T, username string, admission time.Time, amount float64) models.Member {
	t.Helper()

	member, err := env.members.CreateMember(context.Background(), services.CreateMemberInput{
		Username:      username,
		Email:         username + "@example.com",
		Phone:         "5550100",
		AdmissionDate: admission,
		AmountPaid:    amount,
	})
	if err != nil {
		t.Fatalf("create member %s: %v", username, err)
	}
	return member
}

func newFormRequest(method string, target string, form url.Values) *http.Request {
	request := httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return request
}

func newMultipartRequest(t *testing.T, target string, fields map[string]string, filename string, content []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("write field %s: %v", key, err)
		}
	}
	if filename != "" {
		part, err := writer.CreateFormFile("photo", filename)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write(content); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	request := httptest.NewRequest(http.MethodPost, target, &body)
	request.Header.Set("Content-Type", writer.FormDataContentType())
	return request
}

func withCookies(request *http.Request, cookies map[string]string) *http.Request {
	parts := make([]string, 0, len(cookies))
	for name, value := range cookies {
		parts = append(parts, name+"="+value)
	}
	request.Header.Set("Cookie", strings.Join(parts, "; "))
	return request
}

func withSession(request *http.Request, session string) *http.Request {
	return withCookies(request, map[string]string{sessionCookieName: session})
}

func asJSON(request *http.Request) *http.Request {
	request.Header.Set("Accept", "application/json")
	return request
}

func responseCookieValue(cookies []*http.Cookie, name string) string {
	for _, cookie := range cookies {
		if cookie.Name == name {
			return cookie.Value
		}
	}
	return ""
}

func readBody(t *testing.T, response *http.Response) string {
	t.Helper()

	content, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}
	return string(content)
}

func readAPIError(t *testing.T, response *http.Response) string {
	t.Helper()

	payload := map[string]any{}
	if err := json.Unmarshal([]byte(readBody(t, response)), &payload); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
	message, _ := payload["error"].(string)
	return message
}

// followFlash renders target with the flash cookie from a previous response.
func (env testEnv) followFlash(t *testing.T, previous *http.Response, target string, session string) string {
	t.Helper()

	flash := responseCookieValue(previous.Cookies(), flashCookieName)
	if flash == "" {
		t.Fatalf("expected flash cookie before following %s", target)
	}
	cookies := map[string]string{flashCookieName: flash}
	if session != "" {
		cookies[sessionCookieName] = session
	}
	response := env.do(t, withCookies(httptest.NewRequest(http.MethodGet, target, nil), cookies))
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected follow-up status 200, got %d", response.StatusCode)
	}
	return readBody(t, response)
}
