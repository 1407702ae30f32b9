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

package provider

import (
	"context"
	"fmt"

	"k8c.io/mchl/pkg/cache"
	"k8c.io/mchl/pkg/types"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// Cached wraps a Provider so that every issue and user is fetched at most
// once, even when requested concurrently. Failed lookups are not cached.
type Cached struct {
	next  Provider
	store *cache.Store
	log   logrus.FieldLogger
	group singleflight.Group
}

var _ Provider = &Cached{}

func NewCached(next Provider, store *cache.Store, log logrus.FieldLogger) *Cached {
	return &Cached{
		next:  next,
		store: store,
		log:   log,
	}
}

func (c *Cached) Name() string {
	return c.next.Name()
}

func (c *Cached) IssueNumber(ctx context.Context, commit types.CommitListItem) (string, error) {
	return c.next.IssueNumber(ctx, commit)
}

func (c *Cached) Issue(ctx context.Context, id string) (*types.Issue, error) {
	key := fmt.Sprintf("%s/issues/%s", c.next.Name(), id)

	result, err, _ := c.group.Do(key, func() (interface{}, error) {
		issue := &types.Issue{}
		if c.store.Get(key, issue) {
			return issue, nil
		}

		issue, err := c.next.Issue(ctx, id)
		if err != nil {
			return nil, err
		}

		if err := c.store.Set(key, issue); err != nil {
			c.log.WithError(err).WithField("issue", id).Warn("Failed to cache issue")
		}

		return issue, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*types.Issue), nil
}

func (c *Cached) User(ctx context.Context, login string) (*types.User, error) {
	key := fmt.Sprintf("%s/users/%s", c.next.Name(), login)

	result, err, _ := c.group.Do(key, func() (interface{}, error) {
		user := &types.User{}
		if c.store.Get(key, user) {
			return user, nil
		}

		user, err := c.next.User(ctx, login)
		if err != nil {
			return nil, err
		}

		if err := c.store.Set(key, user); err != nil {
			c.log.WithError(err).WithField("login", login).Warn("Failed to cache user")
		}

		return user, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*types.User), nil
}
