package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func TestSignInParsesSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/token" || r.URL.Query().Get("grant_type") != "password" {
			t.Errorf("rota inesperada: %s", r.URL.String())
		}
		if r.Header.Get("apikey") != "anon-key" {
			t.Errorf("apikey = %q", r.Header.Get("apikey"))
		}
		var creds map[string]string
		json.NewDecoder(r.Body).Decode(&creds)
		if creds["email"] != "gai@konoha.dev" {
			t.Errorf("email = %q", creds["email"])
		}
		w.Write([]byte(`{"access_token":"tok","refresh_token":"ref","user":{"id":"u-1","email":"gai@konoha.dev"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "anon-key", zap.NewNop())
	session, err := c.SignIn(context.Background(), "gai@konoha.dev", "senha")
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	if session.AccessToken != "tok" || session.User.ID != "u-1" {
		t.Fatalf("sessão inesperada: %+v", session)
	}
}

func TestSignInErrorCarriesProviderMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error_description":"Invalid login credentials"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "anon-key", zap.NewNop())
	if _, err := c.SignIn(context.Background(), "x@y.z", "errada"); err == nil {
		t.Fatal("esperava erro do provedor")
	}
}

func TestCurrentUserUsesAccessToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-usuario" {
			t.Errorf("Authorization = %q", r.Header.Get("Authorization"))
		}
		w.Write([]byte(`{"id":"u-1","email":"gai@konoha.dev"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "anon-key", zap.NewNop())
	user, err := c.CurrentUser(context.Background(), "tok-usuario")
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	if user.ID != "u-1" {
		t.Fatalf("user = %+v", user)
	}
}

func TestGetProfileReturnsFirstRow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("user_id"); got != "eq.u-1" {
			t.Errorf("filtro user_id = %q", got)
		}
		w.Write([]byte(`[{"user_id":"u-1","objetivo":"hipertrofia"}]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "anon-key", zap.NewNop())
	profile, err := c.GetProfile(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	var decoded map[string]string
	if err := json.Unmarshal(profile, &decoded); err != nil {
		t.Fatalf("perfil ilegível: %v", err)
	}
	if decoded["objetivo"] != "hipertrofia" {
		t.Fatalf("perfil = %v", decoded)
	}
}

func TestGetProfileMissingRowIsNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "anon-key", zap.NewNop())
	profile, err := c.GetProfile(context.Background(), "u-2")
	if err != nil {
		t.Fatalf("linha ausente não é erro: %v", err)
	}
	if profile != nil {
		t.Fatalf("esperava nil, obtive %s", profile)
	}
}

func TestSaveProfileSendsUpsertHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/v1/user_profiles" {
			t.Errorf("rota = %s", r.URL.Path)
		}
		if prefer := r.Header.Get("Prefer"); prefer != "resolution=merge-duplicates,return=representation" {
			t.Errorf("Prefer = %q", prefer)
		}
		var record map[string]any
		json.NewDecoder(r.Body).Decode(&record)
		if record["user_id"] != "u-1" {
			t.Errorf("user_id = %v", record["user_id"])
		}
		if record["updated_at"] == nil {
			t.Error("updated_at deveria ser preenchido")
		}
		w.Write([]byte(`[{"user_id":"u-1","objetivo":"resistencia"}]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "anon-key", zap.NewNop())
	row, err := c.SaveProfile(context.Background(), "u-1", map[string]any{"objetivo": "resistencia"})
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	if row == nil {
		t.Fatal("esperava a linha gravada de volta")
	}
}

func TestSignOut(t *testing.T) {
	var called bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if r.URL.Path != "/auth/v1/logout" {
			t.Errorf("rota = %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "anon-key", zap.NewNop())
	if err := c.SignOut(context.Background(), "tok"); err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	if !called {
		t.Fatal("logout não foi chamado")
	}
}
