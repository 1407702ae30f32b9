/*
Copyright 2020 The Kubermatic Kubernetes Platform contributors.

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

package git

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var (
	// github:owner/name, gitlab:owner/name
	shorthandRegex = regexp.MustCompile(`^(?:github|gitlab|bitbucket):([^/\s]+/[^/\s]+?)(?:\.git)?$`)
	// owner/name, as allowed in package.json
	bareSlugRegex = regexp.MustCompile(`^[\w.-]+/[\w.-]+$`)
	// git@host:owner/name(.git)
	scpRegex = regexp.MustCompile(`^(?:[\w.-]+@)?([\w.-]+):(?:\d+/)?(.+?)(?:\.git)?/?$`)
)

// ParseRepoSlug extracts "owner/name" from a remote URL. Only URLs pointing
// at one of the given hosts are accepted; hosts may be given as bare names
// ("github.com") or as URLs ("https://github.com").
//
// Supported notations:
//
//	https://github.com/kubermatic/kubermatic.git
//	git+https://github.com/kubermatic/kubermatic
//	ssh://git@github.com:22/kubermatic/kubermatic
//	git@github.com:kubermatic/kubermatic.git
//	github:kubermatic/kubermatic
//	kubermatic/kubermatic
func ParseRepoSlug(remoteURL string, hosts []string) (string, error) {
	remoteURL = strings.TrimSpace(remoteURL)
	if remoteURL == "" {
		return "", fmt.Errorf("remote URL is empty")
	}

	if match := shorthandRegex.FindStringSubmatch(remoteURL); match != nil {
		return match[1], nil
	}

	if bareSlugRegex.MatchString(remoteURL) && !strings.HasSuffix(remoteURL, ".git") {
		return remoteURL, nil
	}

	var host, path string

	if strings.Contains(remoteURL, "://") {
		u, err := url.Parse(strings.TrimPrefix(remoteURL, "git+"))
		if err != nil {
			return "", fmt.Errorf("unable to parse remote URL %q: %w", remoteURL, err)
		}

		host = u.Hostname()
		path = u.Path
	} else if match := scpRegex.FindStringSubmatch(remoteURL); match != nil {
		host = match[1]
		path = match[2]
	} else {
		return "", fmt.Errorf("unable to parse remote URL %q", remoteURL)
	}

	if !knownHost(host, hosts) {
		return "", fmt.Errorf("remote URL %q does not point to any of %v", remoteURL, hosts)
	}

	path = strings.Trim(path, "/")
	path = strings.TrimSuffix(path, ".git")

	parts := strings.Split(path, "/")
	if len(parts) < 2 || parts[0] == "" || parts[len(parts)-1] == "" {
		return "", fmt.Errorf("remote URL %q does not contain an owner and a repository name", remoteURL)
	}

	// GitLab allows nested groups, so everything but the host is the slug.
	return strings.Join(parts, "/"), nil
}

func knownHost(host string, hosts []string) bool {
	for _, h := range hosts {
		if u, err := url.Parse(h); err == nil && u.Host != "" {
			h = u.Hostname()
		}

		if strings.EqualFold(h, host) {
			return true
		}
	}

	return false
}
