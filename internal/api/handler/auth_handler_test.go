package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/docsewa/marketplace-api/internal/core/domain"
	"github.com/docsewa/marketplace-api/internal/core/ports"
)

type stubAuthService struct {
	registerRequesterFn func(ctx context.Context, in ports.SignupInput) (*domain.User, error)
	registerPartnerFn   func(ctx context.Context, in ports.PartnerSignupInput) (*domain.User, error)
	loginFn             func(ctx context.Context, email, password string) (*ports.LoginResult, error)
	logoutFn            func(ctx context.Context, token string) error
}

func (s *stubAuthService) RegisterRequester(ctx context.Context, in ports.SignupInput) (*domain.User, error) {
	return s.registerRequesterFn(ctx, in)
}

func (s *stubAuthService) RegisterPartner(ctx context.Context, in ports.PartnerSignupInput) (*domain.User, error) {
	return s.registerPartnerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Logout(ctx context.Context, token string) error {
	return s.logoutFn(ctx, token)
}

func (s *stubAuthService) Resolve(ctx context.Context, token string) (*domain.Principal, error) {
	return nil, errors.New("not implemented")
}

func jsonContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Signup_Success(t *testing.T) {
	stub := &stubAuthService{
		registerRequesterFn: func(ctx context.Context, in ports.SignupInput) (*domain.User, error) {
			if in.Email != "asha@example.com" || in.FullName != "Asha" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.User{ID: "user-1", Email: in.Email, Role: domain.RoleRequester, Status: domain.UserActive}, nil
		},
	}
	h := NewAuthHandler(stub, false)

	c, rec := jsonContext(t, http.MethodPost, "/v1/auth/signup",
		`{"email":"asha@example.com","password":"longenough","full_name":"Asha","phone":"9999900000"}`)

	if err := h.Signup(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["role"] != "REQUESTER" || resp["status"] != "ACTIVE" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAuthHandler_Signup_ShortPassword(t *testing.T) {
	stub := &stubAuthService{
		registerRequesterFn: func(ctx context.Context, in ports.SignupInput) (*domain.User, error) {
			t.Fatalf("service should not be called")
			return nil, nil
		},
	}
	h := NewAuthHandler(stub, false)

	c, _ := jsonContext(t, http.MethodPost, "/v1/auth/signup",
		`{"email":"asha@example.com","password":"short","full_name":"Asha","phone":"9999900000"}`)

	err := h.Signup(c)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestAuthHandler_Signup_DuplicateEmail(t *testing.T) {
	stub := &stubAuthService{
		registerRequesterFn: func(ctx context.Context, in ports.SignupInput) (*domain.User, error) {
			return nil, domain.ErrUserExists
		},
	}
	h := NewAuthHandler(stub, false)

	c, _ := jsonContext(t, http.MethodPost, "/v1/auth/signup",
		`{"email":"asha@example.com","password":"longenough","full_name":"Asha","phone":"9999900000"}`)

	err := h.Signup(c)
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthHandler_PartnerSignup_RequiresProfession(t *testing.T) {
	stub := &stubAuthService{
		registerPartnerFn: func(ctx context.Context, in ports.PartnerSignupInput) (*domain.User, error) {
			t.Fatalf("service should not be called")
			return nil, nil
		},
	}
	h := NewAuthHandler(stub, false)

	c, _ := jsonContext(t, http.MethodPost, "/v1/auth/partner-signup",
		`{"email":"ravi@example.com","password":"longenough","full_name":"Ravi","phone":"8888800000"}`)

	err := h.PartnerSignup(c)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestAuthHandler_Login_SetsCookie(t *testing.T) {
	expires := time.Now().Add(24 * time.Hour).UTC().Truncate(time.Second)
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (*ports.LoginResult, error) {
			return &ports.LoginResult{
				Token:   "tok-abc",
				Expires: expires,
				User:    &domain.User{ID: "user-1", Email: email, Role: domain.RoleRequester, Status: domain.UserActive},
			}, nil
		},
	}
	h := NewAuthHandler(stub, false)

	c, rec := jsonContext(t, http.MethodPost, "/v1/auth/login",
		`{"email":"asha@example.com","password":"longenough"}`)

	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	cookies := rec.Result().Cookies()
	var session *http.Cookie
	for _, ck := range cookies {
		if ck.Name == sessionCookie {
			session = ck
		}
	}
	if session == nil {
		t.Fatalf("session cookie not set")
	}
	if session.Value != "tok-abc" || !session.HttpOnly {
		t.Fatalf("unexpected cookie: %+v", session)
	}
	if session.SameSite != http.SameSiteLaxMode {
		t.Fatalf("expected SameSite=Lax, got %v", session.SameSite)
	}
}

func TestAuthHandler_Login_BadCredentials(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (*ports.LoginResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(stub, false)

	c, rec := jsonContext(t, http.MethodPost, "/v1/auth/login",
		`{"email":"asha@example.com","password":"wrongpassword"}`)

	err := h.Login(c)
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == sessionCookie {
			t.Fatalf("cookie must not be set on failed login")
		}
	}
}

func TestAuthHandler_Logout_ClearsCookie(t *testing.T) {
	destroyed := ""
	stub := &stubAuthService{
		logoutFn: func(ctx context.Context, token string) error {
			destroyed = token
			return nil
		},
	}
	h := NewAuthHandler(stub, false)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: "tok-abc"})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if destroyed != "tok-abc" {
		t.Fatalf("session not destroyed, saw %q", destroyed)
	}

	var cleared *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == sessionCookie {
			cleared = ck
		}
	}
	if cleared == nil || cleared.Value != "" || cleared.MaxAge != -1 {
		t.Fatalf("cookie not cleared: %+v", cleared)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, false)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	SetPrincipal(c, domain.Principal{
		UserID:      "user-1",
		Role:        domain.RolePartner,
		Email:       "ravi@example.com",
		DisplayName: "Ravi",
		ProfileID:   "prt-1",
	})

	if err := h.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp meResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Role != "PARTNER" || resp.ProfileID != "prt-1" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAuthHandler_Me_NoSession(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, false)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Me(c)
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}
