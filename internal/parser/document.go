// Package parser loads analysis input documents.
package parser

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Document is a text passage ready for analysis, optionally paired with
// the source it was expanded from.
type Document struct {
	Text     string         `json:"text"`
	Source   string         `json:"source,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// DocumentParser reads documents from plain text files or JSON envelopes.
type DocumentParser struct{}

// Parse reads a document from a file. Files with a .json extension are
// treated as JSON envelopes; everything else is read as plain text.
func (p *DocumentParser) Parse(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return p.parseJSON(data)
	}
	return p.parseText(data)
}

// ParseBytes parses a document from raw bytes, sniffing the JSON envelope
// by its leading brace.
func (p *DocumentParser) ParseBytes(data []byte) (*Document, error) {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") {
		return p.parseJSON(data)
	}
	return p.parseText(data)
}

func (p *DocumentParser) parseJSON(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	if doc.Text == "" {
		return nil, fmt.Errorf("document has no text field")
	}
	return &doc, nil
}

func (p *DocumentParser) parseText(data []byte) (*Document, error) {
	text := strings.TrimSpace(string(data))
	if text == "" {
		return nil, fmt.Errorf("document is empty")
	}
	return &Document{Text: text}, nil
}
