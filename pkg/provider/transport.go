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
	"io"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
)

// authTransport turns 401 responses into AuthErrors before any API client
// gets to see them.
type authTransport struct {
	next http.RoundTripper
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}

	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))

	status := http.StatusText(resp.StatusCode)
	if status == "" {
		status = fmt.Sprintf("%d", resp.StatusCode)
	}

	return nil, &AuthError{
		Status: status,
		Body:   strings.TrimSpace(string(body)),
	}
}

// NewHTTPClient returns a client that authenticates with the given token
// and reports rejected credentials as AuthError.
func NewHTTPClient(ctx context.Context, token string) *http.Client {
	base := http.DefaultClient
	if token != "" {
		base = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
	}

	next := base.Transport
	if next == nil {
		next = http.DefaultTransport
	}

	return &http.Client{
		Transport: &authTransport{next: next},
	}
}
