package settings_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mmind-zeno/LieTimeOffBundle/settings"
)

// =============================================================================
// LEGACY DECODING CONTRACT
// =============================================================================

func TestDecodeLegacy_Contract(t *testing.T) {
	cases := []struct {
		raw  string
		want settings.Value
	}{
		{"1", settings.Bool(true)},
		{"0", settings.Bool(false)},
		{"25", settings.Int(25)},
		{"-3", settings.Int(-3)},
		{"12.5", settings.Float(12.5)},
		{`{"a":1}`, settings.JSON([]byte(`{"a":1}`))},
		{`[1,2]`, settings.JSON([]byte(`[1,2]`))},
		{"{not json", settings.String("{not json")},
		{"hello", settings.String("hello")},
		{"", settings.String("")},
	}

	for _, tc := range cases {
		got := settings.DecodeLegacy(tc.raw)
		assert.Equal(t, tc.want, got, "raw %q", tc.raw)
	}
}

// =============================================================================
// TAGGED WIRE FORM
// =============================================================================

func TestValue_TaggedRoundTrip(t *testing.T) {
	values := []settings.Value{
		settings.Bool(true),
		settings.Bool(false),
		settings.Int(42),
		settings.Float(12.5),
		settings.String("hello"),
		settings.JSON([]byte(`{"a":1}`)),
	}

	for _, v := range values {
		got := settings.Decode(v.Encode())
		assert.Equal(t, v, got, "wire %q", v.Encode())
	}
}

func TestValue_TaggedStringOne_NotMistakenForBool(t *testing.T) {
	// The literal string "1" was impossible to store under the legacy
	// scheme. The tag makes it round-trip.
	v := settings.String("1")
	got := settings.Decode(v.Encode())
	assert.Equal(t, settings.KindString, got.Kind)
	assert.Equal(t, "1", got.Str)
}

func TestDecode_UntaggedFallsBackToLegacy(t *testing.T) {
	assert.Equal(t, settings.Bool(true), settings.Decode("1"))
	assert.Equal(t, settings.Int(25), settings.Decode("25"))
	assert.Equal(t, settings.String("hello"), settings.Decode("hello"))
}

// =============================================================================
// ACCESSORS
// =============================================================================

func TestValue_Accessors(t *testing.T) {
	assert.Equal(t, int64(5), settings.Int(5).AsInt(0))
	assert.Equal(t, int64(12), settings.Float(12.5).AsInt(0))
	assert.Equal(t, int64(9), settings.String("x").AsInt(9), "default on kind mismatch")

	assert.Equal(t, 12.5, settings.Float(12.5).AsFloat(0))
	assert.Equal(t, 5.0, settings.Int(5).AsFloat(0))

	assert.True(t, settings.Bool(true).AsBool(false))
	assert.True(t, settings.Int(1).AsBool(false))
	assert.False(t, settings.String("yes").AsBool(false))

	assert.Equal(t, "12.5", settings.Float(12.5).AsString())
	assert.Equal(t, "1", settings.Bool(true).AsString())
}

func TestFromInterface(t *testing.T) {
	v, err := settings.FromInterface(true)
	assert.NoError(t, err)
	assert.Equal(t, settings.Bool(true), v)

	// JSON numbers arrive as float64; whole values become ints.
	v, err = settings.FromInterface(float64(25))
	assert.NoError(t, err)
	assert.Equal(t, settings.Int(25), v)

	v, err = settings.FromInterface(12.5)
	assert.NoError(t, err)
	assert.Equal(t, settings.Float(12.5), v)

	v, err = settings.FromInterface(map[string]any{"a": float64(1)})
	assert.NoError(t, err)
	assert.Equal(t, settings.KindJSON, v.Kind)

	_, err = settings.FromInterface(struct{}{})
	assert.Error(t, err)
}
