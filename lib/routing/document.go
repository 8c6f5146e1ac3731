// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package routing

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/tidwall/jsonc"
)

// DefaultDomain is the domain-list sentinel of the switchable rule.
const DefaultDomain = "geosite:netflix"

// Document is a parsed Xray configuration held as generic JSON values.
type Document struct {
	root map[string]any
}

// Parse decodes an Xray configuration. Comments and trailing commas are
// stripped first. The top level must be a JSON object.
func Parse(data []byte) (*Document, error) {
	decoder := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, fmt.Errorf("parsing xray config: %w", err)
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing xray config: unexpected data after top-level value")
	}
	root, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("parsing xray config: top-level value is %T, want object", value)
	}
	return &Document{root: root}, nil
}

// Load reads and parses the configuration at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	document, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return document, nil
}

// rules returns the routing.rules entries that are objects. A missing or
// malformed routing section has no rules.
func (d *Document) rules() []map[string]any {
	routing, _ := d.root["routing"].(map[string]any)
	list, _ := routing["rules"].([]any)
	rules := make([]map[string]any, 0, len(list))
	for _, entry := range list {
		if rule, ok := entry.(map[string]any); ok {
			rules = append(rules, rule)
		}
	}
	return rules
}

// Eligible reports whether rule is a field rule whose domain list is
// exactly [domain].
func Eligible(rule map[string]any, domain string) bool {
	if ruleType, _ := rule["type"].(string); ruleType != "field" {
		return false
	}
	domains, ok := rule["domain"].([]any)
	if !ok || len(domains) != 1 {
		return false
	}
	only, _ := domains[0].(string)
	return only == domain
}

// SetOutbound points every eligible rule at tag and returns how many
// rules were eligible. A rule that already uses tag still counts.
func (d *Document) SetOutbound(domain, tag string) int {
	count := 0
	for _, rule := range d.rules() {
		if Eligible(rule, domain) {
			rule["outboundTag"] = tag
			count++
		}
	}
	return count
}

// OutboundTags returns the outboundTag of each eligible rule in order.
func (d *Document) OutboundTags(domain string) []string {
	var tags []string
	for _, rule := range d.rules() {
		if Eligible(rule, domain) {
			tag, _ := rule["outboundTag"].(string)
			tags = append(tags, tag)
		}
	}
	return tags
}

// Marshal encodes the document as two-space indented JSON with a
// trailing newline. HTML characters are not escaped.
func (d *Document) Marshal() ([]byte, error) {
	var buffer bytes.Buffer
	encoder := json.NewEncoder(&buffer)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(d.root); err != nil {
		return nil, fmt.Errorf("encoding xray config: %w", err)
	}
	return buffer.Bytes(), nil
}
