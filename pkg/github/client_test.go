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

package github

import (
	"context"
	"encoding/json"
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

func TestRESTClient(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/repos/lerna/lerna-changelog/issues/2", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
  "number": 2,
  "title": "This is the commit title for the issue (#2)",
  "labels": [{"name": "Type: New Feature"}, {"name": "Status: In Progress"}],
  "pull_request": {"html_url": "https://github.com/lerna/lerna-changelog/pull/2"},
  "user": {"login": "test-user", "html_url": "https://github.com/test-user"}
}`)
	})
	mux.HandleFunc("/api/v3/users/test-user", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"login": "test-user", "name": "Test User", "html_url": "https://github.com/test-user"}`)
	})
	mux.HandleFunc("/api/v3/repos/lerna/lerna-changelog/issues/404", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message": "Not Found"}`)
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	client, err := NewRESTClient(server.Client(), server.URL+"/api/v3", "lerna/lerna-changelog", logrus.New())
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	issue, err := client.Issue(context.Background(), "2")
	if err != nil {
		t.Fatalf("Failed to fetch issue: %v", err)
	}

	expected := &types.Issue{
		ID:          2,
		Title:       "This is the commit title for the issue (#2)",
		PullRequest: "https://github.com/lerna/lerna-changelog/pull/2",
		Labels:      []string{"Type: New Feature", "Status: In Progress"},
		Author:      types.User{Login: "test-user", URL: "https://github.com/test-user"},
	}
	if diff := cmp.Diff(expected, issue); diff != "" {
		t.Errorf("Unexpected issue (-want +got):\n%s", diff)
	}

	user, err := client.User(context.Background(), "test-user")
	if err != nil {
		t.Fatalf("Failed to fetch user: %v", err)
	}

	if user.Name != "Test User" || user.URL != "https://github.com/test-user" {
		t.Errorf("Unexpected user %+v.", user)
	}

	_, err = client.Issue(context.Background(), "404")
	if !errors.Is(err, provider.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v.", err)
	}
}

func TestRESTClientIssueNumber(t *testing.T) {
	client, err := NewRESTClient(http.DefaultClient, "", "lerna/lerna-changelog", logrus.New())
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	number, err := client.IssueNumber(context.Background(), types.CommitListItem{Summary: "Merge pull request #6 from return-of-the-jedi"})
	if err != nil || number != "6" {
		t.Fatalf("Expected #6, got %q (%v).", number, err)
	}
}

func TestRESTClientUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"message": "Bad credentials"}`)
	}))
	defer server.Close()

	client, err := NewRESTClient(provider.NewHTTPClient(context.Background(), "nope"), server.URL, "lerna/lerna-changelog", logrus.New())
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	_, err = client.Issue(context.Background(), "1")
	if !provider.IsFatal(err) {
		t.Fatalf("Expected a fatal error, got %v.", err)
	}
}

func TestGraphQLClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/graphql" {
			t.Errorf("Unexpected request to %s.", r.URL.Path)
		}

		var body struct {
			Query     string                 `json:"query"`
			Variables map[string]interface{} `json:"variables"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}

		switch {
		case strings.Contains(body.Query, "issueOrPullRequest") && body.Variables["number"] == float64(3):
			fmt.Fprint(w, `{"data": {"repository": {"issueOrPullRequest": {
  "__typename": "PullRequest",
  "number": 3,
  "title": "Add a feature",
  "url": "https://github.example.com/o/r/pull/3",
  "author": {"login": "jane", "url": "https://github.example.com/jane"},
  "labels": {"nodes": [{"name": "enhancement"}]}
}}}}`)
		case strings.Contains(body.Query, "issueOrPullRequest"):
			fmt.Fprint(w, `{"data": {"repository": {"issueOrPullRequest": null}}, "errors": [{"message": "Could not resolve to an issue or pull request with the number of 99."}]}`)
		case strings.Contains(body.Query, "user("):
			fmt.Fprint(w, `{"data": {"user": {"login": "jane", "name": "Jane Doe", "url": "https://github.example.com/jane"}}}`)
		default:
			t.Errorf("Unexpected query %q.", body.Query)
		}
	}))
	defer server.Close()

	client, err := NewClient(server.Client(), server.URL+"/api/v3", "o/r", logrus.New())
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	issue, err := client.Issue(context.Background(), "3")
	if err != nil {
		t.Fatalf("Failed to fetch issue: %v", err)
	}

	expected := &types.Issue{
		ID:          3,
		Title:       "Add a feature",
		PullRequest: "https://github.example.com/o/r/pull/3",
		Labels:      []string{"enhancement"},
		Author:      types.User{Login: "jane", URL: "https://github.example.com/jane"},
	}
	if diff := cmp.Diff(expected, issue); diff != "" {
		t.Errorf("Unexpected issue (-want +got):\n%s", diff)
	}

	user, err := client.User(context.Background(), "jane")
	if err != nil {
		t.Fatalf("Failed to fetch user: %v", err)
	}

	if user.Name != "Jane Doe" {
		t.Errorf("Unexpected user %+v.", user)
	}

	_, err = client.Issue(context.Background(), "99")
	if !errors.Is(err, provider.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v.", err)
	}
}

func TestGraphqlEndpoint(t *testing.T) {
	testcases := map[string]string{
		"https://github.example.com/api/v3":      "https://github.example.com/api/graphql",
		"https://github.example.com/api/graphql": "https://github.example.com/api/graphql",
		"https://proxy.example.com":              "https://proxy.example.com/graphql",
	}

	for input, expected := range testcases {
		if endpoint := graphqlEndpoint(input); endpoint != expected {
			t.Errorf("Expected %q for %q, got %q.", expected, input, endpoint)
		}
	}
}

func TestSplitRepo(t *testing.T) {
	if _, _, err := splitRepo("group/sub/project"); err == nil {
		t.Error("Expected nested slug to be rejected.")
	}

	owner, name, err := splitRepo("kubermatic/kubermatic")
	if err != nil || owner != "kubermatic" || name != "kubermatic" {
		t.Errorf("Unexpected result %q, %q, %v.", owner, name, err)
	}
}
