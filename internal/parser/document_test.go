package parser

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDocumentParser_ParseBytes_JSON(t *testing.T) {
	jsonData := []byte(`{
		"text": "I expected rain, but it actually cleared.",
		"source": "A long forecast full of hedging.",
		"metadata": {"title": "forecast"}
	}`)

	p := &DocumentParser{}
	doc, err := p.ParseBytes(jsonData)

	if err != nil {
		t.Fatalf("ParseBytes failed: %v", err)
	}

	if doc.Text != "I expected rain, but it actually cleared." {
		t.Errorf("Unexpected text: %q", doc.Text)
	}

	if doc.Source == "" {
		t.Error("Expected source to be populated")
	}

	if doc.Metadata["title"] != "forecast" {
		t.Errorf("Expected metadata title 'forecast', got %v", doc.Metadata["title"])
	}
}

func TestDocumentParser_ParseBytes_PlainText(t *testing.T) {
	p := &DocumentParser{}
	doc, err := p.ParseBytes([]byte("  Just a plain passage.\n"))

	if err != nil {
		t.Fatalf("ParseBytes failed: %v", err)
	}

	if doc.Text != "Just a plain passage." {
		t.Errorf("Expected trimmed text, got %q", doc.Text)
	}
}

func TestDocumentParser_ParseBytes_Errors(t *testing.T) {
	p := &DocumentParser{}

	if _, err := p.ParseBytes([]byte("   \n\t")); err == nil {
		t.Error("Expected error for empty document")
	}

	if _, err := p.ParseBytes([]byte(`{"source": "no text"}`)); err == nil {
		t.Error("Expected error for envelope without text")
	}

	if _, err := p.ParseBytes([]byte(`{broken`)); err == nil {
		t.Error("Expected error for malformed JSON")
	}
}

func TestDocumentParser_Parse_File(t *testing.T) {
	dir := t.TempDir()

	txtPath := filepath.Join(dir, "passage.txt")
	if err := os.WriteFile(txtPath, []byte("A paradox: it can and cannot be."), 0o644); err != nil {
		t.Fatal(err)
	}

	jsonPath := filepath.Join(dir, "passage.json")
	if err := os.WriteFile(jsonPath, []byte(`{"text": "From the envelope."}`), 0o644); err != nil {
		t.Fatal(err)
	}

	p := &DocumentParser{}

	doc, err := p.Parse(txtPath)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if doc.Text != "A paradox: it can and cannot be." {
		t.Errorf("Unexpected text: %q", doc.Text)
	}

	doc, err = p.Parse(jsonPath)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if doc.Text != "From the envelope." {
		t.Errorf("Unexpected text: %q", doc.Text)
	}

	if _, err := p.Parse(filepath.Join(dir, "missing.txt")); err == nil {
		t.Error("Expected error for missing file")
	}
}
