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

// Package config discovers the changelog configuration of a repository.
//
// Sources, from lowest to highest priority: built-in defaults, the
// "changelog" key in lerna.json, the "changelog" key in package.json,
// .changelog.yaml (or .changelog.yml), MCHL_* environment variables and
// finally explicit overrides from the command line. The label mapping is
// never merged; the highest-priority source that defines labels wins.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"k8c.io/mchl/pkg/git"
	"k8c.io/mchl/pkg/types"

	"github.com/Masterminds/semver/v3"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	ProviderGitHub = "github"
	ProviderGitLab = "gitlab"

	GithubAPIREST    = "rest"
	GithubAPIGraphQL = "graphql"

	DefaultUnreleasedName = "Unreleased"

	envPrefix = "MCHL_"
)

var DefaultLabels = types.Labels{
	{Name: "breaking", Heading: ":boom: Breaking Change"},
	{Name: "enhancement", Heading: ":rocket: Enhancement"},
	{Name: "bug", Heading: ":bug: Bug Fix"},
	{Name: "documentation", Heading: ":memo: Documentation"},
	{Name: "internal", Heading: ":house: Internal"},
}

var DefaultIgnoreCommitters = []string{
	"dependabot-bot",
	"dependabot[bot]",
	"greenkeeperio-bot",
	"greenkeeper[bot]",
	"renovate-bot",
	"renovate[bot]",
}

var envKeys = map[string]string{
	envPrefix + "REPO":            "repo",
	envPrefix + "CACHE_DIR":       "cacheDir",
	envPrefix + "NEXT_VERSION":    "nextVersion",
	envPrefix + "GIT_PROVIDER":    "gitProvider",
	envPrefix + "GITHUB_API":      "githubApi",
	envPrefix + "UNRELEASED_NAME": "unreleasedName",
}

type Configuration struct {
	Repo             string
	RootPath         string
	Labels           types.Labels
	IgnoreCommitters []string
	// CacheDir is relative to RootPath; empty disables the on-disk cache.
	CacheDir       string
	NextVersion    string
	GitProvider    string
	GithubAPI      string
	UnreleasedName string

	// Server is the web URL of the hosting provider, e.g. https://github.com.
	Server string
	// APIURL is the base URL of the provider's API.
	APIURL string
	Token  string
}

// fileConfig is the part of the configuration that can be layered by koanf.
type fileConfig struct {
	Repo                    string   `koanf:"repo"`
	IgnoreCommitters        []string `koanf:"ignoreCommitters"`
	CacheDir                string   `koanf:"cacheDir"`
	NextVersion             string   `koanf:"nextVersion"`
	NextVersionFromMetadata bool     `koanf:"nextVersionFromMetadata"`
	GitProvider             string   `koanf:"gitProvider"`
	GithubAPI               string   `koanf:"githubApi"`
	UnreleasedName          string   `koanf:"unreleasedName"`
}

// Overrides are values given explicitly on the command line.
type Overrides struct {
	Repo                    string
	NextVersion             string
	NextVersionFromMetadata bool
	GitProvider             string
	GithubAPI               string
	CacheDir                string
}

type LoadOptions struct {
	RootPath string
	// RemoteURL is used to infer the repository slug when neither the
	// configuration nor package.json name one.
	RemoteURL string
	Overrides Overrides
}

// metadata is what we remember from package.json and lerna.json besides
// their "changelog" key.
type metadata struct {
	packageVersion string
	lernaVersion   string
	repositoryURL  string
}

func Load(opts LoadOptions) (*Configuration, error) {
	k := koanf.New(".")
	loadDefaults(k)

	meta := metadata{}
	labels := DefaultLabels

	lernaLabels, err := loadPackageFile(k, filepath.Join(opts.RootPath, "lerna.json"), &meta.lernaVersion, nil)
	if err != nil {
		return nil, err
	}
	if lernaLabels != nil {
		labels = lernaLabels
	}

	packageLabels, err := loadPackageFile(k, filepath.Join(opts.RootPath, "package.json"), &meta.packageVersion, &meta.repositoryURL)
	if err != nil {
		return nil, err
	}
	if packageLabels != nil {
		labels = packageLabels
	}

	fileLabels, err := loadConfigFile(k, opts.RootPath)
	if err != nil {
		return nil, err
	}
	if fileLabels != nil {
		labels = fileLabels
	}

	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment config: %w", err)
	}

	var fc fileConfig
	if err := k.Unmarshal("", &fc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyOverrides(&fc, opts.Overrides)

	return finalize(fc, labels, meta, opts)
}

func loadDefaults(k *koanf.Koanf) {
	k.Set("gitProvider", ProviderGitHub)
	k.Set("githubApi", GithubAPIREST)
	k.Set("unreleasedName", DefaultUnreleasedName)
	k.Set("ignoreCommitters", DefaultIgnoreCommitters)
}

// loadPackageFile merges the "changelog" key of a package.json-like file into
// k and returns the labels it defines, if any.
func loadPackageFile(k *koanf.Koanf, path string, version *string, repositoryURL *string) (types.Labels, error) {
	content, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	pk := koanf.New(".")
	if err := pk.Load(file.Provider(path), json.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	*version = pk.String("version")

	if repositoryURL != nil {
		switch repo := pk.Get("repository").(type) {
		case string:
			*repositoryURL = repo
		case map[string]interface{}:
			*repositoryURL = pk.String("repository.url")
		}
	}

	if !pk.Exists("changelog") {
		return nil, nil
	}

	changelog := pk.Cut("changelog")
	changelog.Delete("labels")

	if err := k.Merge(changelog); err != nil {
		return nil, fmt.Errorf("failed to merge %s: %w", path, err)
	}

	labels, err := readJSONLabels(content)
	if err != nil {
		return nil, fmt.Errorf("failed to read labels from %s: %w", path, err)
	}

	return labels, nil
}

func loadConfigFile(k *koanf.Koanf, rootPath string) (types.Labels, error) {
	for _, name := range []string{".changelog.yaml", ".changelog.yml"} {
		path := filepath.Join(rootPath, name)

		content, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}

		fk := koanf.New(".")
		if err := fk.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
		fk.Delete("labels")

		if err := k.Merge(fk); err != nil {
			return nil, fmt.Errorf("failed to merge %s: %w", path, err)
		}

		labels, err := readYAMLLabels(content)
		if err != nil {
			return nil, fmt.Errorf("failed to read labels from %s: %w", path, err)
		}

		return labels, nil
	}

	return nil, nil
}

func envTransform(s string) string {
	// unknown variables are skipped by returning an empty key
	return envKeys[s]
}

func applyOverrides(fc *fileConfig, o Overrides) {
	if o.Repo != "" {
		fc.Repo = o.Repo
	}
	if o.NextVersion != "" {
		fc.NextVersion = o.NextVersion
	}
	if o.NextVersionFromMetadata {
		fc.NextVersionFromMetadata = true
	}
	if o.GitProvider != "" {
		fc.GitProvider = o.GitProvider
	}
	if o.GithubAPI != "" {
		fc.GithubAPI = o.GithubAPI
	}
	if o.CacheDir != "" {
		fc.CacheDir = o.CacheDir
	}
}

func finalize(fc fileConfig, labels types.Labels, meta metadata, opts LoadOptions) (*Configuration, error) {
	cfg := &Configuration{
		Repo:             fc.Repo,
		RootPath:         opts.RootPath,
		Labels:           labels,
		IgnoreCommitters: fc.IgnoreCommitters,
		CacheDir:         fc.CacheDir,
		NextVersion:      fc.NextVersion,
		GitProvider:      strings.ToLower(fc.GitProvider),
		GithubAPI:        strings.ToLower(fc.GithubAPI),
		UnreleasedName:   fc.UnreleasedName,
	}

	if fc.NextVersionFromMetadata {
		cfg.NextVersion = findNextVersion(meta)
		if cfg.NextVersion == "" {
			return nil, Errorf(`Could not infer "nextVersion" from the "package.json" file.`)
		}
	}

	if cfg.NextVersion != "" {
		if _, err := semver.NewVersion(cfg.NextVersion); err != nil {
			return nil, Errorf("nextVersion %q is not a valid semver: %v", cfg.NextVersion, err)
		}
	}

	switch cfg.GitProvider {
	case ProviderGitHub:
		cfg.Server = envOrDefault("GITHUB_SERVER", "https://github.com")
		cfg.APIURL = envOrDefault("GITHUB_API_SERVER", "https://api.github.com")
		cfg.Token = os.Getenv("GITHUB_AUTH")

	case ProviderGitLab:
		cfg.Server = envOrDefault("GITLAB_SERVER", "https://gitlab.com")
		cfg.APIURL = envOrDefault("GITLAB_API_SERVER", cfg.Server+"/api/v4")
		cfg.Token = os.Getenv("GITLAB_AUTH")

	default:
		return nil, Errorf("unknown gitProvider %q, must be %q or %q", fc.GitProvider, ProviderGitHub, ProviderGitLab)
	}

	switch cfg.GithubAPI {
	case GithubAPIREST, GithubAPIGraphQL:
	default:
		return nil, Errorf("unknown githubApi %q, must be %q or %q", fc.GithubAPI, GithubAPIREST, GithubAPIGraphQL)
	}

	if cfg.Repo == "" {
		cfg.Repo = inferRepo(cfg, meta.repositoryURL, opts.RemoteURL)
	}

	if cfg.Repo == "" {
		return nil, Errorf(`Could not infer "repo" from the "package.json" file.`)
	}

	return cfg, nil
}

func inferRepo(cfg *Configuration, candidates ...string) string {
	hosts := []string{cfg.Server, cfg.APIURL}

	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}

		if slug, err := git.ParseRepoSlug(candidate, hosts); err == nil {
			return slug
		}
	}

	return ""
}

func findNextVersion(meta metadata) string {
	switch {
	case meta.packageVersion != "":
		return "v" + meta.packageVersion
	case meta.lernaVersion != "":
		return "v" + meta.lernaVersion
	default:
		return ""
	}
}

func envOrDefault(name string, def string) string {
	if value := os.Getenv(name); value != "" {
		return strings.TrimSuffix(value, "/")
	}

	return def
}

// BaseIssueURL is the prefix issue numbers are appended to when linking to
// issues, e.g. https://github.com/owner/name/issues/.
func (c *Configuration) BaseIssueURL() string {
	return fmt.Sprintf("%s/%s/issues/", c.Server, c.Repo)
}

// DisplayName returns the heading for a release.
func (c *Configuration) DisplayName(release *types.Release) string {
	if !release.IsUnreleased() {
		return release.Name
	}

	if c.NextVersion != "" {
		return c.NextVersion
	}

	return c.UnreleasedName
}
