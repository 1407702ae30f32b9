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

// Package provider defines how issue metadata is fetched from a hosting
// provider (GitHub, GitLab) and the error classes shared by all of them.
package provider

import (
	"context"
	"errors"
	"fmt"

	"k8c.io/mchl/pkg/config"
	"k8c.io/mchl/pkg/types"
)

type Provider interface {
	// Name is used to namespace cache entries, e.g. "github".
	Name() string

	// IssueNumber returns the issue/PR/MR number associated with a commit,
	// or "" if there is none.
	IssueNumber(ctx context.Context, commit types.CommitListItem) (string, error)

	Issue(ctx context.Context, id string) (*types.Issue, error)
	User(ctx context.Context, login string) (*types.User, error)
}

var ErrNotFound = errors.New("not found")

// AuthError is returned when the provider rejects our credentials. It
// aborts the whole run.
type AuthError struct {
	Status string
	Body   string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("Fetch error: %s.\n%s", e.Status, e.Body)
}

// IsFatal reports whether err must abort the run instead of only dropping
// the data of a single commit or user.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}

	var authErr *AuthError
	if errors.As(err, &authErr) {
		return true
	}

	return config.IsConfigurationError(err) || errors.Is(err, context.Canceled)
}
