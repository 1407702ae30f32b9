/*
Copyright 2026 The Kubermatic Kubernetes Platform contributors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package gitlab

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"k8c.io/mchl/pkg/provider"
	"k8c.io/mchl/pkg/types"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(provider.NewHTTPClient(context.Background(), ""), server.URL+"/api/v4", "secret", "group/project", logrus.New())
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	return client
}

func TestIssueNumber(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("PRIVATE-TOKEN") != "secret" {
			t.Errorf("Expected private token, got %q.", r.Header.Get("PRIVATE-TOKEN"))
		}

		switch {
		case strings.HasSuffix(r.URL.Path, "/commits/a0000001/merge_requests"):
			fmt.Fprint(w, `[
  {"iid": 5, "state": "opened", "updated_at": "2017-01-01T00:00:00Z"},
  {"iid": 4, "state": "merged", "updated_at": "2017-03-01T00:00:00Z"},
  {"iid": 3, "state": "merged", "updated_at": "2017-02-01T00:00:00Z"}
]`)
		case strings.HasSuffix(r.URL.Path, "/merge_requests"):
			fmt.Fprint(w, `[]`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	number, err := client.IssueNumber(context.Background(), types.CommitListItem{SHA: "a0000001"})
	if err != nil {
		t.Fatalf("Failed to resolve MR: %v", err)
	}

	if number != "3" {
		t.Errorf("Expected the earliest updated merged MR (3), got %q.", number)
	}

	number, err = client.IssueNumber(context.Background(), types.CommitListItem{SHA: "a0000002"})
	if err != nil || number != "" {
		t.Errorf("Expected no MR, got %q (%v).", number, err)
	}
}

func TestIssue(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/merge_requests/3"):
			fmt.Fprint(w, `{
  "iid": 3,
  "title": "Add GitLab support",
  "description": "Long text",
  "state": "merged",
  "web_url": "https://gitlab.com/group/project/-/merge_requests/3",
  "labels": ["enhancement"],
  "author": {"username": "jane", "name": "Jane Doe", "web_url": "https://gitlab.com/jane"}
}`)
		case strings.HasSuffix(r.URL.Path, "/users"):
			if r.URL.Query().Get("username") == "jane" {
				fmt.Fprint(w, `[{"username": "jane", "name": "Jane Doe", "web_url": "https://gitlab.com/jane"}]`)
			} else {
				fmt.Fprint(w, `[]`)
			}
		default:
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"message": "404 Not found"}`)
		}
	})

	issue, err := client.Issue(context.Background(), "3")
	if err != nil {
		t.Fatalf("Failed to fetch MR: %v", err)
	}

	expected := &types.Issue{
		ID:          3,
		Title:       "Add GitLab support",
		PullRequest: "https://gitlab.com/group/project/-/merge_requests/3",
		Labels:      []string{"enhancement"},
		Author:      types.User{Login: "jane", Name: "Jane Doe", URL: "https://gitlab.com/jane"},
	}
	if diff := cmp.Diff(expected, issue); diff != "" {
		t.Errorf("Unexpected issue (-want +got):\n%s", diff)
	}

	if _, err := client.Issue(context.Background(), "4"); !errors.Is(err, provider.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v.", err)
	}

	user, err := client.User(context.Background(), "jane")
	if err != nil || user.Name != "Jane Doe" {
		t.Errorf("Unexpected user %+v (%v).", user, err)
	}

	if _, err := client.User(context.Background(), "ghost"); !errors.Is(err, provider.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v.", err)
	}
}

func TestUnauthorized(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"message": "401 Unauthorized"}`)
	})

	_, err := client.Issue(context.Background(), "1")

	var authErr *provider.AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("Expected an AuthError, got %v.", err)
	}

	if !strings.Contains(authErr.Error(), "401 Unauthorized") {
		t.Errorf("Expected the response body in the error, got %q.", authErr.Error())
	}
}
