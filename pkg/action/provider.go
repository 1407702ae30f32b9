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

package action

import (
	"context"

	"k8c.io/mchl/pkg/config"
	"k8c.io/mchl/pkg/github"
	"k8c.io/mchl/pkg/gitlab"
	"k8c.io/mchl/pkg/provider"

	"github.com/sirupsen/logrus"
)

// NewProvider creates the hosting provider client selected by the
// configuration. A missing token is a configuration error.
func NewProvider(ctx context.Context, cfg *config.Configuration, log logrus.FieldLogger) (provider.Provider, error) {
	switch cfg.GitProvider {
	case config.ProviderGitHub:
		if cfg.Token == "" {
			return nil, config.Errorf("Must provide GITHUB_AUTH")
		}

		httpClient := provider.NewHTTPClient(ctx, cfg.Token)

		if cfg.GithubAPI == config.GithubAPIGraphQL {
			return github.NewClient(httpClient, cfg.APIURL, cfg.Repo, log)
		}

		return github.NewRESTClient(httpClient, cfg.APIURL, cfg.Repo, log)

	case config.ProviderGitLab:
		if cfg.Token == "" {
			return nil, config.Errorf("Must provide GITLAB_AUTH")
		}

		// GitLab authenticates with its own header
		return gitlab.NewClient(provider.NewHTTPClient(ctx, ""), cfg.APIURL, cfg.Token, cfg.Repo, log)

	default:
		return nil, config.Errorf("unknown gitProvider %q", cfg.GitProvider)
	}
}
