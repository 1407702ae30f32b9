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
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"k8c.io/mchl/pkg/provider"
	"k8c.io/mchl/pkg/types"

	gh "github.com/google/go-github/github"
	"github.com/sirupsen/logrus"
)

// RESTClient talks to the GitHub v3 API.
type RESTClient struct {
	client *gh.Client
	owner  string
	name   string
	log    logrus.FieldLogger
}

var _ provider.Provider = &RESTClient{}

func NewRESTClient(httpClient *http.Client, apiURL string, repo string, log logrus.FieldLogger) (*RESTClient, error) {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return nil, err
	}

	client := gh.NewClient(httpClient)

	if apiURL != "" {
		baseURL, err := url.Parse(strings.TrimSuffix(apiURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("invalid API URL %q: %w", apiURL, err)
		}
		client.BaseURL = baseURL
	}

	return &RESTClient{
		client: client,
		owner:  owner,
		name:   name,
		log:    log,
	}, nil
}

func (c *RESTClient) Name() string {
	return ProviderName
}

func (c *RESTClient) IssueNumber(_ context.Context, commit types.CommitListItem) (string, error) {
	return FindPullRequestID(commit.Summary), nil
}

func (c *RESTClient) Issue(ctx context.Context, id string) (*types.Issue, error) {
	number, err := strconv.Atoi(id)
	if err != nil {
		return nil, fmt.Errorf("invalid issue number %q: %w", id, err)
	}

	c.log.WithField("issue", number).Debug("Issues.Get()")

	issue, _, err := c.client.Issues.Get(ctx, c.owner, c.name, number)
	if err != nil {
		return nil, convertRESTError(err)
	}

	labels := make([]string, 0, len(issue.Labels))
	for _, label := range issue.Labels {
		labels = append(labels, label.GetName())
	}

	return &types.Issue{
		ID:          issue.GetNumber(),
		Title:       issue.GetTitle(),
		PullRequest: issue.GetPullRequestLinks().GetHTMLURL(),
		Labels:      labels,
		Author: types.User{
			Login: issue.GetUser().GetLogin(),
			URL:   issue.GetUser().GetHTMLURL(),
		},
	}, nil
}

func (c *RESTClient) User(ctx context.Context, login string) (*types.User, error) {
	c.log.WithField("login", login).Debug("Users.Get()")

	user, _, err := c.client.Users.Get(ctx, login)
	if err != nil {
		return nil, convertRESTError(err)
	}

	return &types.User{
		Login: user.GetLogin(),
		Name:  user.GetName(),
		URL:   user.GetHTMLURL(),
	}, nil
}

func convertRESTError(err error) error {
	var errResp *gh.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil && errResp.Response.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %v", provider.ErrNotFound, err)
	}

	return err
}
