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

package config

import (
	"bytes"
	"encoding/json"
	"fmt"

	"k8c.io/mchl/pkg/types"

	"gopkg.in/yaml.v3"
)

// labelMap decodes a label → heading object while keeping the key order,
// which koanf's maps cannot do.
type labelMap types.Labels

func (m *labelMap) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}

	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("labels must be an object, got %v", tok)
	}

	labels := types.Labels{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}

		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected label key %v", tok)
		}

		var heading string
		if err := dec.Decode(&heading); err != nil {
			return fmt.Errorf("heading for label %q: %w", name, err)
		}

		labels = append(labels, types.Label{Name: name, Heading: heading})
	}

	*m = labelMap(labels)

	return nil
}

func (m *labelMap) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: labels must be a mapping", node.Line)
	}

	labels := types.Labels{}
	for i := 0; i+1 < len(node.Content); i += 2 {
		var heading string
		if err := node.Content[i+1].Decode(&heading); err != nil {
			return fmt.Errorf("heading for label %q: %w", node.Content[i].Value, err)
		}

		labels = append(labels, types.Label{Name: node.Content[i].Value, Heading: heading})
	}

	*m = labelMap(labels)

	return nil
}

type packageLabels struct {
	Changelog *struct {
		Labels *labelMap `json:"labels"`
	} `json:"changelog"`
}

func (p packageLabels) labels() types.Labels {
	if p.Changelog == nil || p.Changelog.Labels == nil {
		return nil
	}

	return types.Labels(*p.Changelog.Labels)
}

type fileLabels struct {
	Labels *labelMap `yaml:"labels"`
}

func (f fileLabels) labels() types.Labels {
	if f.Labels == nil {
		return nil
	}

	return types.Labels(*f.Labels)
}

func readJSONLabels(content []byte) (types.Labels, error) {
	var p packageLabels
	if err := json.Unmarshal(content, &p); err != nil {
		return nil, err
	}

	return p.labels(), nil
}

func readYAMLLabels(content []byte) (types.Labels, error) {
	var f fileLabels
	if err := yaml.Unmarshal(content, &f); err != nil {
		return nil, err
	}

	return f.labels(), nil
}
