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

package git

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"k8c.io/mchl/pkg/types"

	"github.com/sirupsen/logrus"
	"k8s.io/apimachinery/pkg/util/sets"
)

const fieldSeparator = "\x1f"

// CLI runs the git binary inside a repository. Decorations (%D) and
// first-parent diffs of merge commits are taken verbatim from git.
type CLI struct {
	dir string
	log logrus.FieldLogger
}

func NewCLI(dir string, log logrus.FieldLogger) *CLI {
	return &CLI{
		dir: dir,
		log: log,
	}
}

// ListCommits returns the commits in from..to, newest first. An empty from
// lists the entire history reachable from to.
func (c *CLI) ListCommits(ctx context.Context, from string, to string) ([]types.CommitListItem, error) {
	if to == "" {
		to = "HEAD"
	}

	rangeSpec := to
	if from != "" {
		rangeSpec = fmt.Sprintf("%s..%s", from, to)
	}

	// log.decorate and log.showSignature from the user's config would change the output
	out, err := c.run(ctx, "log", "--no-color", "--decorate=short", "--no-show-signature", "--date=short", "--pretty=format:%H%x1f%D%x1f%s%x1f%cd", rangeSpec)
	if err != nil {
		return nil, err
	}

	return parseLog(out), nil
}

func parseLog(out string) []types.CommitListItem {
	commits := []types.CommitListItem{}

	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}

		// missing fields stay empty instead of failing the whole log
		parts := strings.SplitN(line, fieldSeparator, 4)
		for len(parts) < 4 {
			parts = append(parts, "")
		}

		commits = append(commits, types.CommitListItem{
			SHA:     strings.TrimSpace(parts[0]),
			RefName: strings.TrimSpace(parts[1]),
			Summary: parts[2],
			Date:    strings.TrimSpace(parts[3]),
		})
	}

	return commits
}

// ChangedPaths lists the files touched by a commit. Merge commits are diffed
// against their first parent only.
func (c *CLI) ChangedPaths(ctx context.Context, sha string) ([]string, error) {
	out, err := c.run(ctx, "show", "--no-show-signature", "-m", "--name-only", "--pretty=format:", "--first-parent", sha)
	if err != nil {
		return nil, err
	}

	seen := sets.New[string]()
	paths := []string{}
	for _, line := range strings.Split(out, "\n") {
		path := strings.TrimSpace(line)
		if path == "" || seen.Has(path) {
			continue
		}

		seen.Insert(path)
		paths = append(paths, path)
	}

	return paths, nil
}

// LastTag returns the most recent tag reachable from HEAD.
func (c *CLI) LastTag(ctx context.Context) (string, error) {
	out, err := c.run(ctx, "describe", "--abbrev=0", "--tags")
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(out), nil
}

func (c *CLI) run(ctx context.Context, args ...string) (string, error) {
	c.log.WithField("args", strings.Join(args, " ")).Debug("git")

	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = c.dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return "", fmt.Errorf("git %s: %w", args[0], err)
		}

		return "", fmt.Errorf("git %s: %w: %s", args[0], err, msg)
	}

	return stdout.String(), nil
}
