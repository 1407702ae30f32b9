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

// Package gitlab resolves merge requests and users on GitLab.
package gitlab

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"

	"k8c.io/mchl/pkg/provider"
	"k8c.io/mchl/pkg/types"

	"github.com/sirupsen/logrus"
	gl "github.com/xanzy/go-gitlab"
)

const ProviderName = "gitlab"

type Client struct {
	client *gl.Client
	// project is the full project path, e.g. "group/subgroup/project".
	project string
	log     logrus.FieldLogger
}

var _ provider.Provider = &Client{}

// NewClient creates a client for the given project. Authentication is done
// with a private token; the httpClient only needs to report 401s.
func NewClient(httpClient *http.Client, apiURL string, token string, project string, log logrus.FieldLogger) (*Client, error) {
	options := []gl.ClientOptionFunc{
		gl.WithHTTPClient(httpClient),
		gl.WithoutRetries(),
	}

	if apiURL != "" {
		options = append(options, gl.WithBaseURL(apiURL))
	}

	client, err := gl.NewClient(token, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitLab client: %w", err)
	}

	return &Client{
		client:  client,
		project: project,
		log:     log,
	}, nil
}

func (c *Client) Name() string {
	return ProviderName
}

// IssueNumber returns the IID of the merge request that brought the commit
// in. If several merged MRs contain it, the one updated first wins.
func (c *Client) IssueNumber(ctx context.Context, commit types.CommitListItem) (string, error) {
	c.log.WithField("commit", commit.SHA).Debug("ListMergeRequestsByCommit()")

	mrs, _, err := c.client.Commits.ListMergeRequestsByCommit(c.project, commit.SHA, gl.WithContext(ctx))
	if err != nil {
		return "", convertError(err)
	}

	merged := []*gl.MergeRequest{}
	for _, mr := range mrs {
		if mr.State == "merged" && mr.UpdatedAt != nil {
			merged = append(merged, mr)
		}
	}

	if len(merged) == 0 {
		return "", nil
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].UpdatedAt.Before(*merged[j].UpdatedAt)
	})

	return strconv.Itoa(merged[0].IID), nil
}

func (c *Client) Issue(ctx context.Context, id string) (*types.Issue, error) {
	iid, err := strconv.Atoi(id)
	if err != nil {
		return nil, fmt.Errorf("invalid merge request IID %q: %w", id, err)
	}

	c.log.WithField("issue", iid).Debug("GetMergeRequest()")

	mr, _, err := c.client.MergeRequests.GetMergeRequest(c.project, iid, nil, gl.WithContext(ctx))
	if err != nil {
		return nil, convertError(err)
	}

	issue := &types.Issue{
		ID:          mr.IID,
		Title:       mr.Title,
		PullRequest: mr.WebURL,
		Labels:      append([]string{}, mr.Labels...),
	}

	if mr.Author != nil {
		issue.Author = types.User{
			Login: mr.Author.Username,
			Name:  mr.Author.Name,
			URL:   mr.Author.WebURL,
		}
	}

	return issue, nil
}

func (c *Client) User(ctx context.Context, login string) (*types.User, error) {
	c.log.WithField("login", login).Debug("ListUsers()")

	users, _, err := c.client.Users.ListUsers(&gl.ListUsersOptions{Username: gl.String(login)}, gl.WithContext(ctx))
	if err != nil {
		return nil, convertError(err)
	}

	if len(users) == 0 {
		return nil, fmt.Errorf("user %q: %w", login, provider.ErrNotFound)
	}

	return &types.User{
		Login: users[0].Username,
		Name:  users[0].Name,
		URL:   users[0].WebURL,
	}, nil
}

func convertError(err error) error {
	var errResp *gl.ErrorResponse
	if !errors.As(err, &errResp) || errResp.Response == nil {
		return err
	}

	switch errResp.Response.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %v", provider.ErrNotFound, err)
	case http.StatusUnauthorized:
		body := errResp.Message
		if errResp.Body != nil {
			body = string(errResp.Body)
		}

		return &provider.AuthError{
			Status: http.StatusText(http.StatusUnauthorized),
			Body:   body,
		}
	}

	return err
}
