package handler_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/msomdec/user-accounts/internal/handler"
)

func TestHandleCreate_Validation(t *testing.T) {
	env := newTestEnv(t)
	h := handler.NewUserHandler(env.accounts)

	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{"missing name", `{"email":"a@x.com","password":"pw"}`, "name"},
		{"bad email", `{"name":"A","email":"not-an-email","password":"pw"}`, "email"},
		{"missing password", `{"name":"A","email":"a@x.com"}`, "password"},
		{"blank name", `{"name":"   ","email":"a@x.com","password":"pw"}`, "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/user/create", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			h.HandleCreate(w, req)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", w.Code)
			}
			var body struct {
				Fields map[string]string `json:"fields"`
			}
			if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if _, ok := body.Fields[tt.wantField]; !ok {
				t.Fatalf("expected error for field %q, got %v", tt.wantField, body.Fields)
			}
		})
	}
}

func TestHandleCreate_MalformedBody(t *testing.T) {
	env := newTestEnv(t)
	h := handler.NewUserHandler(env.accounts)

	for _, body := range []string{"", "{", `{"name":"A"} {"name":"B"}`} {
		req := httptest.NewRequest(http.MethodPost, "/user/create", strings.NewReader(body))
		w := httptest.NewRecorder()

		h.HandleCreate(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("body %q: expected 400, got %d", body, w.Code)
		}
	}
}

func TestHandleCreate_TrimsInput(t *testing.T) {
	env := newTestEnv(t)
	h := handler.NewUserHandler(env.accounts)

	req := httptest.NewRequest(http.MethodPost, "/user/create",
		strings.NewReader(`{"name":"  Ana ","email":" ana@x.com ","password":"pw"}`))
	w := httptest.NewRecorder()

	h.HandleCreate(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if len(env.outbox.msgs) != 1 || env.outbox.msgs[0].To != "ana@x.com" {
		t.Fatalf("expected confirmation to trimmed address, got %+v", env.outbox.msgs)
	}
}

func TestHandleCreate_EmailFailure(t *testing.T) {
	env := newTestEnv(t)
	env.outbox.err = errors.New("smtp down")
	h := handler.NewUserHandler(env.accounts)

	req := httptest.NewRequest(http.MethodPost, "/user/create",
		strings.NewReader(`{"name":"Ana","email":"ana@x.com","password":"pw"}`))
	w := httptest.NewRecorder()

	h.HandleCreate(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	// The record stays, so the address is taken.
	req = httptest.NewRequest(http.MethodPost, "/user/create",
		strings.NewReader(`{"name":"Ana","email":"ana@x.com","password":"pw"}`))
	w = httptest.NewRecorder()
	h.HandleCreate(w, req)

	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if w.Code != http.StatusBadRequest || !strings.Contains(body["msg"], "already registered") {
		t.Fatalf("expected duplicate e-mail error, got %d %v", w.Code, body)
	}
}

func TestHandleInformation_UnknownUser(t *testing.T) {
	env := newTestEnv(t)
	c := newTestServer(t, env)
	_, bearer := env.activeUser(t, "Ana", "ana@x.com", "pw")

	status, body := c.do(http.MethodGet, "/user/information/"+uuid.NewString(), bearer, nil)
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
	if body["msg"] != "User not found." {
		t.Fatalf("unexpected error message: %v", body)
	}
}

func TestHandleVerifyPassword_UnknownUser(t *testing.T) {
	env := newTestEnv(t)
	c := newTestServer(t, env)
	_, bearer := env.activeUser(t, "Ana", "ana@x.com", "pw")

	status, _ := c.do(http.MethodPost, "/user/verify-password/"+uuid.NewString(), bearer, map[string]string{"password": "pw"})
	if status != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", status)
	}
}

func TestHandleDashboard_WithoutMiddleware(t *testing.T) {
	env := newTestEnv(t)
	h := handler.NewUserHandler(env.accounts)

	w := httptest.NewRecorder()
	h.HandleDashboard(w, httptest.NewRequest(http.MethodGet, "/user/dashboard", nil))

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}

func TestProtectedRoutes_RequireBearer(t *testing.T) {
	env := newTestEnv(t)
	c := newTestServer(t, env)
	id := uuid.NewString()

	routes := []struct{ method, path string }{
		{http.MethodGet, "/user/dashboard"},
		{http.MethodGet, "/user/information/" + id},
		{http.MethodPut, "/user/update/" + id},
		{http.MethodPost, "/user/verify-password/" + id},
		{http.MethodPut, "/user/update-password/" + id},
		{http.MethodDelete, "/user/delete/" + id},
	}
	for _, rt := range routes {
		status, _ := c.do(rt.method, rt.path, "", nil)
		if status != http.StatusForbidden {
			t.Fatalf("%s %s: expected 403, got %d", rt.method, rt.path, status)
		}
	}
}

func TestHandleLogin_EmptyPassword(t *testing.T) {
	env := newTestEnv(t)
	c := newTestServer(t, env)

	status, _ := c.do(http.MethodPost, "/user/create", "", map[string]string{
		"name": "Ana", "email": "ana@x.com", "password": "secret1",
	})
	if status != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d", status)
	}

	// Account state is reported before the password is looked at.
	status, body := c.do(http.MethodPost, "/user/loging", "", map[string]string{"email": "ana@x.com", "password": ""})
	if status != http.StatusUnauthorized {
		t.Fatalf("pending account: expected 401, got %d (%v)", status, body)
	}
	if msg, _ := body["msg"].(string); !strings.Contains(msg, "not active") {
		t.Fatalf("pending account: unexpected message %v", body)
	}

	_, _ = env.activeUser(t, "Bea", "bea@x.com", "secret2")
	status, body = c.do(http.MethodPost, "/user/loging", "", map[string]string{"email": "bea@x.com"})
	if status != http.StatusUnauthorized {
		t.Fatalf("active account: expected 401, got %d (%v)", status, body)
	}
	if msg, _ := body["msg"].(string); !strings.Contains(msg, "password is incorrect") {
		t.Fatalf("active account: unexpected message %v", body)
	}

	status, _ = c.do(http.MethodPost, "/user/loging", "", map[string]string{"password": "secret2"})
	if status != http.StatusUnauthorized {
		t.Fatalf("missing e-mail: expected 401, got %d", status)
	}
}

func TestResponseKeys(t *testing.T) {
	env := newTestEnv(t)
	c := newTestServer(t, env)
	id, bearer := env.activeUser(t, "Ana", "ana@x.com", "secret1")

	_, body := c.do(http.MethodPost, "/user/recover-password", "", map[string]string{"email": "ana@x.com"})
	if _, ok := body["msg"]; !ok || len(body) != 1 {
		t.Fatalf("success: expected only a msg key, got %v", body)
	}

	_, body = c.do(http.MethodGet, "/user/confirm-user/unknown", "", nil)
	if _, ok := body["msg"]; !ok || len(body) != 1 {
		t.Fatalf("failure: expected only a msg key, got %v", body)
	}

	_, body = c.do(http.MethodPost, "/user/create", "", map[string]string{"name": "A"})
	if body["msg"] != "Validation failed." || body["fields"] == nil {
		t.Fatalf("validation: unexpected body %v", body)
	}

	_, body = c.do(http.MethodPost, "/user/loging", "", map[string]string{"email": "ana@x.com", "password": "secret1"})
	if body["_id"] != id {
		t.Fatalf("login: expected _id %s, got %v", id, body)
	}
	if _, ok := body["id"]; ok {
		t.Fatalf("login: unexpected id key in %v", body)
	}

	_, body = c.do(http.MethodGet, "/user/dashboard", bearer, nil)
	if body["_id"] != id {
		t.Fatalf("dashboard: expected _id %s, got %v", id, body)
	}
}
