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

package github

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"k8c.io/mchl/pkg/provider"
	"k8c.io/mchl/pkg/types"

	"github.com/shurcooL/githubv4"
)

type graphqlAuthor struct {
	Login string
	URL   string
}

type graphqlLabels struct {
	Nodes []struct {
		Name string
	}
}

type graphqlIssue struct {
	Number int
	Title  string
	Author graphqlAuthor
	Labels graphqlLabels `graphql:"labels(first: 50)"`
}

type graphqlPullRequest struct {
	Number int
	Title  string
	URL    string
	Author graphqlAuthor
	Labels graphqlLabels `graphql:"labels(first: 50)"`
}

type issueQuery struct {
	Repository struct {
		IssueOrPullRequest struct {
			Typename    string             `graphql:"__typename"`
			Issue       graphqlIssue       `graphql:"... on Issue"`
			PullRequest graphqlPullRequest `graphql:"... on PullRequest"`
		} `graphql:"issueOrPullRequest(number: $number)"`
	} `graphql:"repository(name: $name, owner: $owner)"`
}

type userQuery struct {
	User struct {
		Login string
		Name  string
		URL   string
	} `graphql:"user(login: $login)"`
}

func (c *Client) Name() string {
	return ProviderName
}

func (c *Client) IssueNumber(_ context.Context, commit types.CommitListItem) (string, error) {
	return FindPullRequestID(commit.Summary), nil
}

func (c *Client) Issue(ctx context.Context, id string) (*types.Issue, error) {
	number, err := strconv.Atoi(id)
	if err != nil {
		return nil, fmt.Errorf("invalid issue number %q: %w", id, err)
	}

	variables := map[string]interface{}{
		"owner":  githubv4.String(c.owner),
		"name":   githubv4.String(c.name),
		"number": githubv4.Int(number),
	}

	c.log.WithField("issue", number).Debug("fetchIssue()")

	var q issueQuery
	if err := c.client.Query(ctx, &q, variables); err != nil {
		return nil, convertGraphQLError(err)
	}

	node := q.Repository.IssueOrPullRequest
	switch node.Typename {
	case "PullRequest":
		return convertPullRequest(node.PullRequest), nil
	case "Issue":
		return convertIssue(node.Issue), nil
	default:
		return nil, fmt.Errorf("issue #%d: %w", number, provider.ErrNotFound)
	}
}

func (c *Client) User(ctx context.Context, login string) (*types.User, error) {
	variables := map[string]interface{}{
		"login": githubv4.String(login),
	}

	c.log.WithField("login", login).Debug("fetchUser()")

	var q userQuery
	if err := c.client.Query(ctx, &q, variables); err != nil {
		return nil, convertGraphQLError(err)
	}

	return &types.User{
		Login: q.User.Login,
		Name:  q.User.Name,
		URL:   q.User.URL,
	}, nil
}

func convertLabels(api graphqlLabels) []string {
	labels := make([]string, 0, len(api.Nodes))
	for _, label := range api.Nodes {
		labels = append(labels, label.Name)
	}

	return labels
}

func convertIssue(api graphqlIssue) *types.Issue {
	return &types.Issue{
		ID:     api.Number,
		Title:  api.Title,
		Labels: convertLabels(api.Labels),
		Author: types.User{
			Login: api.Author.Login,
			URL:   api.Author.URL,
		},
	}
}

func convertPullRequest(api graphqlPullRequest) *types.Issue {
	return &types.Issue{
		ID:          api.Number,
		Title:       api.Title,
		PullRequest: api.URL,
		Labels:      convertLabels(api.Labels),
		Author: types.User{
			Login: api.Author.Login,
			URL:   api.Author.URL,
		},
	}
}

// GraphQL reports missing objects as query errors, not as HTTP 404s.
func convertGraphQLError(err error) error {
	if strings.Contains(err.Error(), "Could not resolve to") {
		return fmt.Errorf("%w: %v", provider.ErrNotFound, err)
	}

	return err
}
