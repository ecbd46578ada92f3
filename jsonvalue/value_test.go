package jsonvalue_test

import (
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsonstream/jsonstream/jsonvalue"
)

func TestParseScalars(t *testing.T) {
	cases := []struct {
		in   string
		kind jsonvalue.Type
	}{
		{"null", jsonvalue.Null},
		{"true", jsonvalue.Boolean},
		{"false", jsonvalue.Boolean},
		{"42", jsonvalue.Integer},
		{"-17", jsonvalue.Integer},
		{"3.14", jsonvalue.Number},
		{"1e10", jsonvalue.Number},
		{`"hello"`, jsonvalue.String},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			v, err := jsonvalue.ParseString(c.in)
			require.NoError(t, err)
			assert.Equal(t, c.kind, v.Type())
		})
	}
}

func TestParseNestedAccess(t *testing.T) {
	v, err := jsonvalue.ParseString(`{"a": [1, 2, {"b": true}], "c": null}`)
	require.NoError(t, err)

	assert.Equal(t, jsonvalue.Object, v.Type())
	i, err := v.Key("a").Index(0).AsInteger()
	require.NoError(t, err)
	assert.Equal(t, int64(1), i)

	b, err := v.Key("a").Index(2).Key("b").AsBoolean()
	require.NoError(t, err)
	assert.True(t, b)

	assert.Equal(t, jsonvalue.Null, v.Key("c").Type())
	assert.Equal(t, jsonvalue.Null, v.Key("missing").Type())
	assert.Equal(t, jsonvalue.Null, v.Key("a").Index(99).Type())
}

func TestDuplicateKeysPreserved(t *testing.T) {
	v, err := jsonvalue.ParseString(`{"x": 1, "x": 2}`)
	require.NoError(t, err)

	members, err := v.AsObject()
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "x", members[0].Key)
	assert.Equal(t, "x", members[1].Key)

	first, err := members[0].Value.AsInteger()
	require.NoError(t, err)
	assert.Equal(t, int64(1), first)

	// Key() returns the first occurrence for a duplicate key.
	assert.Equal(t, jsonvalue.Integer, v.Key("x").Type())
}

func TestStringEscapes(t *testing.T) {
	v, err := jsonvalue.ParseString(`"a\tb\nc\"d\\eé"`)
	require.NoError(t, err)
	s, err := v.AsString()
	require.NoError(t, err)
	assert.Equal(t, "a\tb\nc\"d\\eé", s)
}

func TestSurrogatePair(t *testing.T) {
	v, err := jsonvalue.ParseString("\"\\ud83d\\ude00\"")
	require.NoError(t, err)
	s, err := v.AsString()
	require.NoError(t, err)
	assert.Equal(t, "\U0001F600", s)
}

func TestRawUTF8Passthrough(t *testing.T) {
	v, err := jsonvalue.ParseString(`"😀"`)
	require.NoError(t, err)
	s, err := v.AsString()
	require.NoError(t, err)
	assert.Equal(t, "\U0001F600", s)
}

func TestWrongTypeAccessor(t *testing.T) {
	v, err := jsonvalue.ParseString(`"hello"`)
	require.NoError(t, err)
	_, err = v.AsInteger()
	assert.ErrorIs(t, err, jsonvalue.ErrType)
}

func TestParseError(t *testing.T) {
	_, err := jsonvalue.ParseString(`{"a": }`)
	require.Error(t, err)
}

// TestNumberAgainstOracle cross-checks number decoding against an
// independent JSON library, the way yaoapp/gou/schema's tests import jsoniter alongside
// testify/assert.
func TestNumberAgainstOracle(t *testing.T) {
	literals := []string{"0", "-0", "123456789", "3.14159", "-2.5e10", "6.022e23"}
	for _, lit := range literals {
		t.Run(lit, func(t *testing.T) {
			v, err := jsonvalue.ParseString(lit)
			require.NoError(t, err)

			var want float64
			require.NoError(t, jsoniter.UnmarshalFromString(lit, &want))

			got, err := v.AsNumber()
			require.NoError(t, err)
			assert.InDelta(t, want, got, 1e-9)
		})
	}
}
