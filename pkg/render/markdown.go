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

package render

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"k8c.io/mchl/pkg/changelog"
	"k8c.io/mchl/pkg/types"
)

type markdown struct {
	opts      Options
	template  *template.Template
	highlight func(...interface{}) string
}

func NewMarkdownRenderer(opts Options) (Renderer, error) {
	if opts.DisplayName == nil {
		opts.DisplayName = func(r *types.Release) string {
			return r.Name
		}
	}

	t, err := template.New("changelog").Parse(strings.TrimSpace(markdownTemplate))
	if err != nil {
		return nil, err
	}

	return &markdown{
		opts:      opts,
		template:  t,
		highlight: newHighlighter(opts.Highlight),
	}, nil
}

// All whitespace in the template is trimmed; newlines are explicit.
var markdownTemplate = `
{{- range $i, $release := . -}}
  {{- if $i }}{{ "\n\n\n" }}{{ end -}}
  {{- .Headline -}}
  {{- range .Categories -}}
    {{- "\n\n" }}{{ .Headline -}}
    {{- $only := .OnlyOther -}}
    {{- range .Packages -}}
      {{- if not $only }}{{ "\n* " }}{{ .Heading }}{{ end -}}
      {{- range .Entries -}}
        {{- if $only }}{{ "\n* " }}{{ else }}{{ "\n  * " }}{{ end }}{{ . }}
      {{- end -}}
    {{- end -}}
  {{- end -}}
  {{- "\n\n" }}{{ .CommittersHeadline -}}
  {{- range .Committers }}{{ "\n- " }}{{ . }}{{ end -}}
{{- end -}}
`

type releaseView struct {
	Headline           string
	Categories         []categoryView
	CommittersHeadline string
	Committers         []string
}

type categoryView struct {
	Headline string
	// OnlyOther is set when no commit touched a package; the package
	// sub-list is omitted then.
	OnlyOther bool
	Packages  []packageView
}

type packageView struct {
	Heading string
	Entries []string
}

// Render returns the changelog; releases without any categorized commit are
// skipped. If nothing remains, the result is empty.
func (m *markdown) Render(releases []*types.Release) (string, error) {
	views := []releaseView{}
	headings := m.opts.Labels.Headings()

	for _, release := range releases {
		categories := changelog.GroupByCategory(release.Commits, headings)
		if !changelog.HasCategorizedCommits(categories) {
			continue
		}

		views = append(views, m.releaseView(release, categories))
	}

	var b bytes.Buffer
	if err := m.template.Execute(&b, views); err != nil {
		return "", err
	}

	return b.String(), nil
}

func (m *markdown) releaseView(release *types.Release, categories []changelog.CategoryGroup) releaseView {
	view := releaseView{
		Headline:           m.highlight(fmt.Sprintf("## %s (%s)", m.opts.DisplayName(release), release.Date)),
		CommittersHeadline: m.highlight(fmt.Sprintf("#### Committers: %d", len(release.Contributors))),
		Committers:         committerLines(release.Contributors),
	}

	for _, category := range categories {
		if len(category.Commits) == 0 {
			continue
		}

		packages := changelog.GroupByPackage(category.Commits)

		cv := categoryView{
			Headline:  m.highlight("#### " + category.Heading),
			OnlyOther: len(packages) == 1 && packages[0].IsOther(),
		}

		for _, pkg := range packages {
			pv := packageView{Heading: pkg.Heading}
			for _, commit := range pkg.Commits {
				if commit.Issue != nil {
					pv.Entries = append(pv.Entries, m.entry(commit.Issue))
				}
			}

			cv.Packages = append(cv.Packages, pv)
		}

		view.Categories = append(view.Categories, cv)
	}

	return view
}

func (m *markdown) entry(issue *types.Issue) string {
	var b strings.Builder

	if issue.ID != 0 && issue.PullRequest != "" {
		fmt.Fprintf(&b, "[#%d](%s) ", issue.ID, issue.PullRequest)
	}

	fmt.Fprintf(&b, "%s. ([@%s](%s))", NormalizeTitle(issue.Title, m.opts.BaseIssueURL), issue.Author.Login, issue.Author.URL)

	return b.String()
}

func committerLines(users []types.User) []string {
	lines := make([]string, 0, len(users))
	for _, user := range users {
		link := fmt.Sprintf("[%s](%s)", user.Login, user.URL)
		if user.Name != "" {
			link = fmt.Sprintf("%s (%s)", user.Name, link)
		}

		lines = append(lines, link)
	}

	sort.Strings(lines)

	return lines
}
