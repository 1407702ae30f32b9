/*
Copyright 2022 The Kubermatic Kubernetes Platform contributors.

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

// Package github resolves pull requests and users on GitHub, either via the
// REST API or via GraphQL.
package github

import (
	"fmt"
	"net/http"
	"strings"

	"k8c.io/mchl/pkg/provider"

	"github.com/shurcooL/githubv4"
	"github.com/sirupsen/logrus"
)

const (
	ProviderName = "github"

	publicAPIURL = "https://api.github.com"
)

// Client talks to the GitHub v4 (GraphQL) API.
type Client struct {
	client *githubv4.Client
	owner  string
	name   string
	log    logrus.FieldLogger
}

var _ provider.Provider = &Client{}

// NewClient creates a GraphQL client. The httpClient is expected to take
// care of authentication.
func NewClient(httpClient *http.Client, apiURL string, repo string, log logrus.FieldLogger) (*Client, error) {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return nil, err
	}

	apiURL = strings.TrimSuffix(apiURL, "/")

	var client *githubv4.Client
	if apiURL == "" || apiURL == publicAPIURL {
		client = githubv4.NewClient(httpClient)
	} else {
		client = githubv4.NewEnterpriseClient(graphqlEndpoint(apiURL), httpClient)
	}

	return &Client{
		client: client,
		owner:  owner,
		name:   name,
		log:    log,
	}, nil
}

// graphqlEndpoint maps a REST base URL onto the GraphQL endpoint; on GitHub
// Enterprise the REST API lives below /api/v3, GraphQL at /api/graphql.
func graphqlEndpoint(apiURL string) string {
	if strings.HasSuffix(apiURL, "/graphql") {
		return apiURL
	}

	if base, found := strings.CutSuffix(apiURL, "/v3"); found {
		return base + "/graphql"
	}

	return apiURL + "/graphql"
}

func splitRepo(repo string) (string, string, error) {
	owner, name, found := strings.Cut(repo, "/")
	if !found || owner == "" || name == "" || strings.Contains(name, "/") {
		return "", "", fmt.Errorf("repository %q is not of the form owner/name", repo)
	}

	return owner, name, nil
}
