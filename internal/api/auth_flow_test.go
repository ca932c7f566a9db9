package api

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func TestLoginSuccessSetsSessionAndRedirectsToDashboard(t *testing.T) {
	env := newTestEnv(t)

	response := env.do(t, newFormRequest(http.MethodPost, "/login", url.Values{
		"email":    {"  ADMIN@example.com "},
		"password": {testAdminPassword},
	}))
	if response.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected status 303, got %d", response.StatusCode)
	}
	if location := response.Header.Get("Location"); location != "/dashboard" {
		t.Fatalf("expected redirect to /dashboard, got %q", location)
	}

	var session *http.Cookie
	for _, cookie := range response.Cookies() {
		if cookie.Name == sessionCookieName {
			session = cookie
		}
	}
	if session == nil || session.Value == "" {
		t.Fatal("expected session cookie")
	}
	if !session.HttpOnly {
		t.Fatal("expected session cookie to be httpOnly")
	}
	if session.SameSite != http.SameSiteLaxMode {
		t.Fatalf("expected SameSite=Lax session cookie, got %v", session.SameSite)
	}

	rendered := env.followFlash(t, response, "/dashboard", session.Value)
	if !strings.Contains(rendered, "Signed in.") {
		t.Fatal("expected sign-in flash on dashboard")
	}
}

func TestLoginInvalidCredentialsRedirectPreservesEmail(t *testing.T) {
	env := newTestEnv(t)

	response := env.do(t, newFormRequest(http.MethodPost, "/login", url.Values{
		"email":    {testAdminEmail},
		"password": {"wrong-password"},
	}))
	if response.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected status 303, got %d", response.StatusCode)
	}
	if location := response.Header.Get("Location"); location != "/login" {
		t.Fatalf("expected redirect to /login, got %q", location)
	}
	if session := responseCookieValue(response.Cookies(), sessionCookieName); session != "" {
		t.Fatal("did not expect a session cookie after failed login")
	}

	rendered := env.followFlash(t, response, "/login", "")
	if !strings.Contains(rendered, `id="login-email"`) {
		t.Fatal("expected login email input in page")
	}
	if !strings.Contains(rendered, `value="admin@example.com"`) {
		t.Fatal("expected login email input to keep previous value")
	}
	if !strings.Contains(rendered, "Invalid email or password.") {
		t.Fatal("expected localized login error message from flash")
	}
}

func TestLoginInvalidCredentialsJSON(t *testing.T) {
	env := newTestEnv(t)

	response := env.do(t, asJSON(newFormRequest(http.MethodPost, "/login", url.Values{
		"email":    {"someone@example.com"},
		"password": {testAdminPassword},
	})))
	if response.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", response.StatusCode)
	}
	if message := readAPIError(t, response); message != "Invalid email or password." {
		t.Fatalf("unexpected error message %q", message)
	}
}

func TestLoginErrorIsLocalized(t *testing.T) {
	env := newTestEnv(t)

	request := newFormRequest(http.MethodPost, "/login", url.Values{
		"email":    {testAdminEmail},
		"password": {"wrong-password"},
	})
	request.Header.Set("Accept-Language", "ru-RU,ru;q=0.9")
	response := env.do(t, request)

	flash := responseCookieValue(response.Cookies(), flashCookieName)
	followRequest := withCookies(httptest.NewRequest(http.MethodGet, "/login", nil), map[string]string{
		flashCookieName:    flash,
		languageCookieName: "ru",
	})
	rendered := readBody(t, env.do(t, followRequest))
	if !strings.Contains(rendered, "Неверный email или пароль.") {
		t.Fatal("expected russian login error")
	}
	if !strings.Contains(rendered, `lang="ru"`) {
		t.Fatal("expected russian page language")
	}
}

func TestManagementRoutesRequireSession(t *testing.T) {
	env := newTestEnv(t)

	pages := []string{"/dashboard", "/add_member", "/view_member/1", "/notifications", "/member/photo/a.png"}
	for _, page := range pages {
		response := env.do(t, httptest.NewRequest(http.MethodGet, page, nil))
		if response.StatusCode != http.StatusSeeOther {
			t.Fatalf("%s: expected status 303, got %d", page, response.StatusCode)
		}
		if location := response.Header.Get("Location"); location != "/login" {
			t.Fatalf("%s: expected redirect to /login, got %q", page, location)
		}
	}

	mutations := []string{"/add_member", "/update_due_date/1", "/delete_member/1"}
	for _, target := range mutations {
		response := env.do(t, asJSON(newFormRequest(http.MethodPost, target, url.Values{})))
		if response.StatusCode != http.StatusUnauthorized {
			t.Fatalf("%s: expected status 401, got %d", target, response.StatusCode)
		}
	}
}

func TestForgedSessionIsRejected(t *testing.T) {
	env := newTestEnv(t)
	session := env.loginSession(t)

	forged := session[:strings.LastIndex(session, ".")+1] + "invalid-signature"
	response := env.do(t, withSession(httptest.NewRequest(http.MethodGet, "/dashboard", nil), forged))
	if response.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected status 303, got %d", response.StatusCode)
	}

	var cleared bool
	for _, cookie := range response.Cookies() {
		if cookie.Name == sessionCookieName && cookie.Value == "" {
			cleared = true
		}
	}
	if !cleared {
		t.Fatal("expected forged session cookie to be cleared")
	}
}

func TestLoginPageRedirectsSignedInAdmin(t *testing.T) {
	env := newTestEnv(t)
	session := env.loginSession(t)

	response := env.do(t, withSession(httptest.NewRequest(http.MethodGet, "/login", nil), session))
	if response.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected status 303, got %d", response.StatusCode)
	}
	if location := response.Header.Get("Location"); location != "/dashboard" {
		t.Fatalf("expected redirect to /dashboard, got %q", location)
	}
}

func TestLogoutClearsSession(t *testing.T) {
	env := newTestEnv(t)
	session := env.loginSession(t)

	response := env.do(t, withSession(httptest.NewRequest(http.MethodGet, "/logout", nil), session))
	if response.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected status 303, got %d", response.StatusCode)
	}
	if location := response.Header.Get("Location"); location != "/login" {
		t.Fatalf("expected redirect to /login, got %q", location)
	}

	var cleared bool
	for _, cookie := range response.Cookies() {
		if cookie.Name == sessionCookieName && cookie.Value == "" {
			cleared = true
		}
	}
	if !cleared {
		t.Fatal("expected session cookie to be cleared")
	}
}

func TestIndexReflectsSessionState(t *testing.T) {
	env := newTestEnv(t)

	anonymous := readBody(t, env.do(t, httptest.NewRequest(http.MethodGet, "/", nil)))
	if !strings.Contains(anonymous, `href="/login"`) {
		t.Fatal("expected sign-in link for anonymous visitor")
	}
	if strings.Contains(anonymous, "Open dashboard") {
		t.Fatal("did not expect dashboard link for anonymous visitor")
	}

	session := env.loginSession(t)
	signedIn := readBody(t, env.do(t, withSession(httptest.NewRequest(http.MethodGet, "/", nil), session)))
	if !strings.Contains(signedIn, "Open dashboard") {
		t.Fatal("expected dashboard link for signed-in admin")
	}
}

func TestTamperedFlashCookieIsIgnored(t *testing.T) {
	env := newTestEnv(t)

	request := withCookies(httptest.NewRequest(http.MethodGet, "/login", nil), map[string]string{
		flashCookieName: "v1.bm90LWEtcmVhbC1mbGFzaC1wYXlsb2Fk",
	})
	response := env.do(t, request)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", response.StatusCode)
	}
	if rendered := readBody(t, response); strings.Contains(rendered, "status-error") {
		t.Fatal("did not expect a flash message from a tampered cookie")
	}
}
