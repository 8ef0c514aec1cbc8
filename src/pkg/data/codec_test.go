package data

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"outliner/local-app/src/pkg/model"
)

func sampleTree() *model.Node {
	grandchild := model.NewNode(true, "baz")
	child1 := model.NewNode(true, "bar1", grandchild)
	child2 := model.NewNode(false, "bar2")
	return model.NewNode(false, "foo", child1, child2)
}

// assertSameTree compares ids, flags, text and child order at every depth.
func assertSameTree(t *testing.T, want, got *model.Node) {
	t.Helper()
	require.NotNil(t, got)
	assert.Equal(t, want.ID(), got.ID())
	assert.Equal(t, want.IsOpen().Get(), got.IsOpen().Get())
	assert.Equal(t, want.Text().Get(), got.Text().Get())

	wantChildren, gotChildren := want.Children(), got.Children()
	require.Len(t, gotChildren, len(wantChildren))
	for i := range wantChildren {
		assertSameTree(t, wantChildren[i], gotChildren[i])
	}
}

func TestToJSON(t *testing.T) {
	leaf := model.RestoreNode(7, true, "leaf")
	v := ToJSON(leaf)

	assert.Equal(t, uint64(7), v.ID)
	assert.True(t, v.IsOpen)
	assert.Equal(t, "leaf", v.Text)
	assert.NotNil(t, v.Children)
	assert.Empty(t, v.Children)

	data, err := Encode(leaf)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":7,"is_open":true,"text":"leaf","children":[]}`, string(data))
}

func TestRoundTrip(t *testing.T) {
	root := sampleTree()

	data, err := Encode(root)
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)
	assertSameTree(t, root, got)
	assert.Equal(t, ToJSON(root), ToJSON(got))
}

func TestRoundTripThroughGenericValue(t *testing.T) {
	root := sampleTree()

	data, err := json.Marshal(ToJSON(root))
	require.NoError(t, err)

	// Plain Unmarshal yields float64 numbers
	var generic any
	require.NoError(t, json.Unmarshal(data, &generic))

	got, err := FromJSON(generic)
	require.NoError(t, err)
	assertSameTree(t, root, got)
}

func TestFromJSONDropsMalformedChild(t *testing.T) {
	n, err := Decode([]byte(`{"id":1,"is_open":true,"text":"x","children":[{"bad":true}]}`))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), n.ID())
	assert.Empty(t, n.Children())
}

func TestFromJSONKeepsValidSiblings(t *testing.T) {
	n, dropped, err := decode([]byte(`{"id":1,"is_open":true,"text":"x","children":[
		{"id":2,"is_open":false,"text":"a","children":[]},
		{"id":3,"is_open":"yes","text":"b","children":[]},
		{"id":4,"is_open":false,"text":"c","children":[7]}
	]}`))
	require.NoError(t, err)
	assert.Equal(t, 2, dropped)

	children := n.Children()
	require.Len(t, children, 2)
	assert.Equal(t, uint64(2), children[0].ID())
	assert.Equal(t, uint64(4), children[1].ID())
	assert.Empty(t, children[1].Children())
}

func TestFromJSONRejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing id", `{"is_open":true,"text":"x","children":[]}`},
		{"missing is_open", `{"id":1,"text":"x","children":[]}`},
		{"missing text", `{"id":1,"is_open":true,"children":[]}`},
		{"missing children", `{"id":1,"is_open":true,"text":"x"}`},
		{"string id", `{"id":"1","is_open":true,"text":"x","children":[]}`},
		{"negative id", `{"id":-1,"is_open":true,"text":"x","children":[]}`},
		{"fractional id", `{"id":1.5,"is_open":true,"text":"x","children":[]}`},
		{"id overflow", `{"id":18446744073709551616,"is_open":true,"text":"x","children":[]}`},
		{"null text", `{"id":1,"is_open":true,"text":null,"children":[]}`},
		{"object children", `{"id":1,"is_open":true,"text":"x","children":{}}`},
		{"array root", `[]`},
		{"not json", `{"id":1,`},
		{"trailing data", `{"id":1,"is_open":true,"text":"x","children":[]} {}`},
		{"empty", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := Decode([]byte(tt.input))
			assert.Nil(t, n)
			assert.ErrorIs(t, err, ErrParse)
		})
	}
}

func TestFromJSONIDTypes(t *testing.T) {
	for _, id := range []any{json.Number("42"), float64(42), 42, int64(42), uint64(42)} {
		n, err := FromJSON(map[string]any{
			"id":       id,
			"is_open":  false,
			"text":     "t",
			"children": []any{},
		})
		require.NoError(t, err, "%T", id)
		assert.Equal(t, uint64(42), n.ID())
	}
}

func TestFromJSONLargeID(t *testing.T) {
	n, err := Decode([]byte(`{"id":18446744073709551614,"is_open":false,"text":"max","children":[]}`))
	require.NoError(t, err)
	assert.Equal(t, uint64(18446744073709551614), n.ID())
}

func TestFromJSONReservedID(t *testing.T) {
	_, err := Decode([]byte(`{"id":18446744073709551615,"is_open":false,"text":"max","children":[]}`))
	assert.ErrorIs(t, err, ErrParse)

	_, err = FromJSON(map[string]any{
		"id":       uint64(math.MaxUint64),
		"is_open":  false,
		"text":     "max",
		"children": []any{},
	})
	assert.ErrorIs(t, err, ErrParse)

	n, err := Decode([]byte(`{"id":1,"is_open":false,"text":"x","children":[
		{"id":18446744073709551615,"is_open":false,"text":"max","children":[]}
	]}`))
	require.NoError(t, err)
	assert.Empty(t, n.Children())
}

func TestFromJSONDoesNotAllocateIDs(t *testing.T) {
	model.ResetIDs()
	_, err := Decode([]byte(`{"id":500,"is_open":false,"text":"x","children":[]}`))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), model.NextID())
}

func TestEncodeIndent(t *testing.T) {
	root := sampleTree()
	pretty, err := EncodeIndent(root)
	require.NoError(t, err)
	compact, err := Encode(root)
	require.NoError(t, err)

	assert.Contains(t, string(pretty), "\n  ")
	assert.JSONEq(t, string(compact), string(pretty))
}

func TestDigest(t *testing.T) {
	root := sampleTree()
	before, err := Digest(root)
	require.NoError(t, err)
	assert.Len(t, before, 64)

	again, err := Digest(root)
	require.NoError(t, err)
	assert.Equal(t, before, again)

	root.SetText("changed")
	after, err := Digest(root)
	require.NoError(t, err)
	assert.NotEqual(t, before, after)

	root.SetText("foo")
	restored, err := Digest(root)
	require.NoError(t, err)
	assert.Equal(t, before, restored)
}
