package roles

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"leaseline/internal/app"
)

func TestUsersForRole(t *testing.T) {
	var gotPath, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		fmt.Fprint(w, `{"userIds": ["u-1", "u-2"]}`)
	}))
	defer srv.Close()

	ctx := app.WithRequest(context.Background(), app.Request{Token: "tok-1"})
	users, err := New(srv.URL).UsersForRole(ctx, "party-1", "LCA")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if gotPath != "/party/party-1/users/LCA" {
		t.Fatalf("wrong path: %s", gotPath)
	}
	if gotAuth != "Bearer tok-1" {
		t.Fatalf("missing auth: %q", gotAuth)
	}
	if len(users) != 2 || users[0] != "u-1" {
		t.Fatalf("wrong users: %v", users)
	}
}

func TestUsersForRoleConcurrent(t *testing.T) {
	// Both role-backed rules can look up users at once; the shared client
	// must not be written to by a lookup.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"userIds": ["u-1"]}`)
	}))
	defer srv.Close()

	c := New(srv.URL)
	before := c.HTTPClient
	var wg sync.WaitGroup
	errs := make(chan error, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.UsersForRole(context.Background(), "party-1", "LCA")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("lookup: %v", err)
		}
	}
	if c.HTTPClient != before {
		t.Fatal("client was replaced mid-flight")
	}
}

func TestUsersForRoleError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := New(srv.URL).UsersForRole(context.Background(), "party-1", "LCA")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 APIError, got %v", err)
	}
}
