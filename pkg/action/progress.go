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
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"
)

// spinnerProgress shows a spinner with a counter on a terminal.
type spinnerProgress struct {
	lock    sync.Mutex
	spinner *spinner.Spinner
	phase   string
	total   int
	done    int
}

func newSpinnerProgress(w io.Writer) *spinnerProgress {
	return &spinnerProgress{
		spinner: spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w)),
	}
}

func (p *spinnerProgress) Start(phase string, total int) {
	p.lock.Lock()
	defer p.lock.Unlock()

	p.phase = phase
	p.total = total
	p.done = 0

	p.spinner.Suffix = p.suffix("")
	p.spinner.Start()
}

func (p *spinnerProgress) Tick(item string) {
	p.lock.Lock()
	defer p.lock.Unlock()

	p.done++

	p.spinner.Lock()
	p.spinner.Suffix = p.suffix(item)
	p.spinner.Unlock()
}

func (p *spinnerProgress) Stop() {
	p.lock.Lock()
	defer p.lock.Unlock()

	p.spinner.Stop()
}

func (p *spinnerProgress) suffix(item string) string {
	suffix := fmt.Sprintf(" %s (%d/%d)", p.phase, p.done, p.total)
	if item != "" {
		suffix += ": " + item
	}

	return suffix
}
