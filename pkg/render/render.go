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

// Package render turns releases into their final textual form.
package render

import (
	"bytes"
	"fmt"

	"k8c.io/mchl/pkg/types"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"
)

type Renderer interface {
	Render(releases []*types.Release) (string, error)
}

type Options struct {
	Labels       types.Labels
	BaseIssueURL string
	// DisplayName returns the heading name of a release; defaults to the
	// release name.
	DisplayName func(*types.Release) string
	// Highlight colors headings for terminal output.
	Highlight bool
}

func New(format string, opts Options) (Renderer, error) {
	switch format {
	case types.OutputMarkdown:
		return NewMarkdownRenderer(opts)
	case types.OutputYAML:
		return &yamlRenderer{}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

type yamlRenderer struct{}

// Render dumps the releases as they came out of the generator.
func (*yamlRenderer) Render(releases []*types.Release) (string, error) {
	if releases == nil {
		releases = []*types.Release{}
	}

	var b bytes.Buffer

	encoder := yaml.NewEncoder(&b)
	encoder.SetIndent(2)

	if err := encoder.Encode(releases); err != nil {
		return "", fmt.Errorf("failed to encode releases: %w", err)
	}

	if err := encoder.Close(); err != nil {
		return "", fmt.Errorf("failed to encode releases: %w", err)
	}

	return b.String(), nil
}

func newHighlighter(enabled bool) func(...interface{}) string {
	if !enabled {
		return fmt.Sprint
	}

	c := color.New(color.FgCyan, color.Bold)
	c.EnableColor()

	return c.Sprint
}
