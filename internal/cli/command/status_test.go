package command

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
)

func TestStatusCommand(t *testing.T) {
	cmd := StatusCommand()
	if cmd == nil {
		t.Fatal("StatusCommand returned nil")
	}
	if cmd.Name != "status" {
		t.Errorf("Name = %q, want %q", cmd.Name, "status")
	}

	flagNames := make(map[string]bool)
	for _, f := range cmd.Flags {
		flagNames[f.Names()[0]] = true
	}
	if !flagNames["admin"] {
		t.Error("missing flag: admin")
	}
}

func TestStatusAction(t *testing.T) {
	t.Run("OK", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/status" {
				http.NotFound(w, r)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"role":"server+client","local_addr":"10.0.0.5:7890","connections":1}`))
		}))
		defer srv.Close()

		admin := strings.TrimPrefix(srv.URL, "http://")
		out, err := runApp(t, "--output=json", "status", "--admin="+admin)
		if err != nil {
			t.Fatalf("status failed: %v", err)
		}
		if !strings.Contains(out, `"role": "server+client"`) {
			t.Errorf("missing role in %q", out)
		}
	})

	t.Run("ServerError", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer srv.Close()

		admin := strings.TrimPrefix(srv.URL, "http://")
		if _, err := runApp(t, "status", "--admin="+admin); err == nil {
			t.Fatal("expected error for non-200 response")
		}
	})

	t.Run("Unreachable", func(t *testing.T) {
		port := freePort(t)

		if _, err := runApp(t, "status", "--admin=127.0.0.1:"+strconv.Itoa(port)); err == nil {
			t.Fatal("expected error for unreachable admin endpoint")
		}
	})
}
