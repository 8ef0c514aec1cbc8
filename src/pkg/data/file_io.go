package data

import (
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"outliner/local-app/src/pkg/model"
)

// ErrUnencodable indicates node text that the chosen file format cannot carry.
var ErrUnencodable = errors.New("text cannot be encoded")

// FileExport exports an outline to a file in the specified format (JSON or XML).
// XML export fails with ErrUnencodable when a text holds invalid UTF-8 or a control
// character XML 1.0 forbids. JSON export replaces invalid UTF-8 bytes with U+FFFD.
func FileExport(root *model.Node, filename string, format string) error {
	// Marshal the outline to the specified format
	var data []byte
	var err error
	switch format {
	case "json":
		data, err = json.MarshalIndent(ToJSON(root), "", "  ")
	case "xml":
		v := ToJSON(root)
		if err := checkXMLText(v); err != nil {
			return err
		}
		data, err = xml.MarshalIndent(v, "", "  ")
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal outline: %w", err)
	}

	// Ensure the directory exists
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	// Write the data to the file
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// FileImport imports an outline from a file in the specified format (JSON or XML).
// JSON files follow the same rules as stored outlines. XML files are trusted to carry
// the attributes FileExport writes; absent ones take their zero value.
func FileImport(filename string, format string) (*model.Node, error) {
	// Read the file
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	switch format {
	case "json":
		return Decode(data)
	case "xml":
		var v NodeValue
		if err := xml.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParse, err)
		}
		if err := CheckIDs(v); err != nil {
			return nil, err
		}
		return FromValue(v), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// checkXMLText rejects text the XML encoder would replace with U+FFFD
func checkXMLText(v NodeValue) error {
	if !utf8.ValidString(v.Text) {
		return fmt.Errorf("%w: node %d: invalid UTF-8", ErrUnencodable, v.ID)
	}
	for _, r := range v.Text {
		if !isXMLChar(r) {
			return fmt.Errorf("%w: node %d: character %U is not allowed in XML", ErrUnencodable, v.ID, r)
		}
	}
	for _, child := range v.Children {
		if err := checkXMLText(child); err != nil {
			return err
		}
	}
	return nil
}

// isXMLChar reports whether r is in the XML 1.0 Char production
func isXMLChar(r rune) bool {
	return r == 0x09 || r == 0x0A || r == 0x0D ||
		r >= 0x20 && r <= 0xD7FF ||
		r >= 0xE000 && r <= 0xFFFD ||
		r >= 0x10000 && r <= 0x10FFFF
}
