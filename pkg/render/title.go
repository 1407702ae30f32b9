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

package render

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-openapi/inflect"
)

// matches "fixes #12", "Closed T12", "resolve #3", ...
var closesRegex = regexp.MustCompile(`(?i)(fix|close|resolve)(e?s|e?d)? [T#](\d+)`)

// NormalizeTitle prepares an issue title for the changelog. The first
// issue reference like "fixes #12" becomes a link "Closes [#12](...)",
// a trailing period is dropped (the renderer adds its own) and the first
// letter is capitalized.
func NormalizeTitle(title string, baseIssueURL string) string {
	title = strings.TrimSpace(title)

	if loc := closesRegex.FindStringSubmatchIndex(title); loc != nil {
		number := title[loc[6]:loc[7]]
		link := fmt.Sprintf("Closes [#%s](%s%s)", number, baseIssueURL, number)
		title = title[:loc[0]] + link + title[loc[1]:]
	}

	title = strings.TrimSuffix(title, ".")

	// inflect works on bytes; leave non-ASCII first letters alone
	if title != "" && title[0] < utf8.RuneSelf {
		title = inflect.Capitalize(title)
	}

	return title
}
