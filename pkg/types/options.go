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

package types

import (
	"errors"
	"fmt"
	"os"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/pflag"
)

const (
	OutputMarkdown = "markdown"
	OutputYAML     = "yaml"

	DefaultConcurrency = 5
)

type Options struct {
	TagFrom                 string
	TagTo                   string
	NextVersion             string
	NextVersionFromMetadata bool
	Repo                    string
	GitProvider             string
	GithubAPI               string
	CacheDir                string
	RepositoryPath          string
	Concurrency             int
	Output                  string
	Verbose                 bool
}

func NewDefaultOptions() *Options {
	wd, _ := os.Getwd()

	return &Options{
		RepositoryPath: wd,
		Concurrency:    DefaultConcurrency,
		Output:         OutputMarkdown,
	}
}

func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.TagFrom, "tag-from", o.TagFrom, "A git tag that determines the lower bound of the range of commits (defaults to last available)")
	fs.StringVar(&o.TagTo, "tag-to", o.TagTo, "A git tag that determines the upper bound of the range of commits (defaults to HEAD)")
	fs.StringVar(&o.NextVersion, "next-version", o.NextVersion, "The name of the next version; used instead of \"Unreleased\"")
	fs.BoolVar(&o.NextVersionFromMetadata, "next-version-from-metadata", o.NextVersionFromMetadata, "Infer the name of the next version from package metadata")
	fs.StringVar(&o.Repo, "repo", o.Repo, "Repository slug (owner/name), inferred from package.json or the git remote if empty")
	fs.StringVar(&o.GitProvider, "git-provider", o.GitProvider, "Hosting provider, github or gitlab")
	fs.StringVar(&o.GithubAPI, "github-api", o.GithubAPI, "GitHub API flavor, rest or graphql")
	fs.StringVar(&o.CacheDir, "cache-dir", o.CacheDir, "Directory (relative to the repository root) to cache API responses in")
	fs.StringVar(&o.RepositoryPath, "repository-path", o.RepositoryPath, "Path to the git repository")
	fs.IntVar(&o.Concurrency, "concurrency", o.Concurrency, "Maximum number of concurrent API requests")
	fs.StringVarP(&o.Output, "output", "o", o.Output, "Output format, markdown or yaml")
	fs.BoolVarP(&o.Verbose, "verbose", "V", o.Verbose, "Enable more verbose logging")
}

func (o *Options) Parse() error {
	if o.RepositoryPath == "" {
		return errors.New("no --repository-path given")
	}

	if o.Concurrency < 1 {
		return fmt.Errorf("--concurrency must be at least 1, got %d", o.Concurrency)
	}

	switch o.Output {
	case OutputMarkdown, OutputYAML:
	default:
		return fmt.Errorf("--output %q is invalid, must be %q or %q", o.Output, OutputMarkdown, OutputYAML)
	}

	switch o.GitProvider {
	case "", "github", "gitlab":
	default:
		return fmt.Errorf("--git-provider %q is invalid, must be github or gitlab", o.GitProvider)
	}

	switch o.GithubAPI {
	case "", "rest", "graphql":
	default:
		return fmt.Errorf("--github-api %q is invalid, must be rest or graphql", o.GithubAPI)
	}

	if o.NextVersion != "" {
		if _, err := semver.NewVersion(o.NextVersion); err != nil {
			return fmt.Errorf("--next-version %q is not a valid semver: %w", o.NextVersion, err)
		}
	}

	return nil
}
