package data

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"outliner/local-app/src/pkg/model"
)

// ErrParse indicates that serialized data is not a valid outline.
var ErrParse = errors.New("invalid outline data")

// NodeValue is the serialized form of a node and its subtree.
type NodeValue struct {
	XMLName  xml.Name    `json:"-" xml:"node"`
	ID       uint64      `json:"id" xml:"id,attr"`
	IsOpen   bool        `json:"is_open" xml:"is_open,attr"`
	Text     string      `json:"text" xml:"text"`
	Children []NodeValue `json:"children" xml:"children>node"`
}

// ToJSON captures the current state of the subtree rooted at n.
func ToJSON(n *model.Node) NodeValue {
	children := n.Children()
	v := NodeValue{
		ID:       n.ID(),
		IsOpen:   n.IsOpen().Get(),
		Text:     n.Text().Get(),
		Children: make([]NodeValue, 0, len(children)),
	}
	for _, child := range children {
		v.Children = append(v.Children, ToJSON(child))
	}
	return v
}

// FromValue rebuilds a subtree from its serialized form, keeping the stored ids.
// Ids are not checked; see CheckIDs.
func FromValue(v NodeValue) *model.Node {
	children := make([]*model.Node, 0, len(v.Children))
	for _, child := range v.Children {
		children = append(children, FromValue(child))
	}
	return model.RestoreNode(v.ID, v.IsOpen, v.Text, children...)
}

// CheckIDs rejects a serialized subtree carrying the reserved id math.MaxUint64
func CheckIDs(v NodeValue) error {
	if v.ID == math.MaxUint64 {
		return fmt.Errorf("%w: id %d is out of range", ErrParse, v.ID)
	}
	for _, child := range v.Children {
		if err := CheckIDs(child); err != nil {
			return err
		}
	}
	return nil
}

// FromJSON rebuilds a subtree from a generic decoded JSON value
// (map[string]any, []any, string, bool, json.Number or float64).
//
// The value must be an object carrying id, is_open, text and children with the right
// types, otherwise ErrParse is returned. Children are held to the same rule, but a child
// that fails is dropped and its siblings are kept.
func FromJSON(v any) (*model.Node, error) {
	n, _, err := fromJSON(v)
	return n, err
}

// fromJSON is FromJSON that also counts the dropped descendants
func fromJSON(v any) (*model.Node, int, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, 0, fmt.Errorf("%w: expected object, got %s", ErrParse, typeName(v))
	}

	id, err := parseID(obj["id"])
	if err != nil {
		return nil, 0, err
	}
	isOpen, ok := obj["is_open"].(bool)
	if !ok {
		return nil, 0, fieldError("is_open", "boolean", obj["is_open"])
	}
	text, ok := obj["text"].(string)
	if !ok {
		return nil, 0, fieldError("text", "string", obj["text"])
	}
	rawChildren, ok := obj["children"].([]any)
	if !ok {
		return nil, 0, fieldError("children", "array", obj["children"])
	}

	dropped := 0
	children := make([]*model.Node, 0, len(rawChildren))
	for _, raw := range rawChildren {
		child, childDropped, err := fromJSON(raw)
		if err != nil {
			dropped++
			continue
		}
		dropped += childDropped
		children = append(children, child)
	}

	return model.RestoreNode(id, isOpen, text, children...), dropped, nil
}

// parseID accepts any JSON number that is a non-negative integer below math.MaxUint64.
// The largest value is reserved so the id counter can always move past a loaded tree.
func parseID(v any) (uint64, error) {
	id, err := parseNumber(v)
	if err != nil {
		return 0, err
	}
	if id == math.MaxUint64 {
		return 0, fmt.Errorf("%w: id %d is out of range", ErrParse, id)
	}
	return id, nil
}

func parseNumber(v any) (uint64, error) {
	switch id := v.(type) {
	case json.Number:
		parsed, err := strconv.ParseUint(id.String(), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: id %s is not an unsigned integer", ErrParse, id)
		}
		return parsed, nil
	case float64:
		if id < 0 || id != math.Trunc(id) || id > 1<<53 {
			return 0, fmt.Errorf("%w: id %v is not an unsigned integer", ErrParse, id)
		}
		return uint64(id), nil
	case int:
		if id < 0 {
			return 0, fmt.Errorf("%w: id %d is negative", ErrParse, id)
		}
		return uint64(id), nil
	case int64:
		if id < 0 {
			return 0, fmt.Errorf("%w: id %d is negative", ErrParse, id)
		}
		return uint64(id), nil
	case uint64:
		return id, nil
	default:
		return 0, fieldError("id", "number", v)
	}
}

func fieldError(field, want string, got any) error {
	if got == nil {
		return fmt.Errorf("%w: missing %s", ErrParse, field)
	}
	return fmt.Errorf("%w: %s must be a %s, got %s", ErrParse, field, want, typeName(got))
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number, float64, int, int64, uint64:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// Encode serializes the subtree rooted at n as compact JSON.
func Encode(n *model.Node) ([]byte, error) {
	data, err := json.Marshal(ToJSON(n))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal outline: %w", err)
	}
	return data, nil
}

// EncodeIndent serializes the subtree rooted at n as indented JSON.
func EncodeIndent(n *model.Node) ([]byte, error) {
	data, err := json.MarshalIndent(ToJSON(n), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal outline: %w", err)
	}
	return data, nil
}

// Decode parses JSON text into a subtree. See FromJSON for the acceptance rules.
func Decode(data []byte) (*model.Node, error) {
	n, _, err := decode(data)
	return n, err
}

func decode(data []byte) (*model.Node, int, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrParse, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, 0, fmt.Errorf("%w: trailing data after outline", ErrParse)
	}
	return fromJSON(v)
}
