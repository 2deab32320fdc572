package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGUID_BytesUseMixedEndianLayout(t *testing.T) {
	g := MustParseGUID("00112233-4455-6677-8899-aabbccddeeff")

	want := []byte{0x33, 0x22, 0x11, 0x00, 0x55, 0x44, 0x77, 0x66, 0x88, 0x99, 0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff}
	assert.Equal(t, want, g.Bytes())

	back, err := GUIDFromBytes(want)
	require.NoError(t, err)
	assert.Equal(t, g, back)

	_, err = GUIDFromBytes([]byte{1, 2, 3})
	assert.Error(t, err)
}

func TestGUID_ValueAndScan(t *testing.T) {
	g := NewGUID()
	v, err := g.Value()
	require.NoError(t, err)

	var scanned GUID
	require.NoError(t, scanned.Scan(v))
	assert.Equal(t, g, scanned)

	require.NoError(t, scanned.Scan(nil))
	assert.True(t, scanned.IsZero())

	assert.Error(t, scanned.Scan("not bytes"))
}

func TestGUID_Parse(t *testing.T) {
	g, err := ParseGUID("00112233-4455-6677-8899-AABBCCDDEEFF")
	require.NoError(t, err)
	assert.Equal(t, "00112233-4455-6677-8899-aabbccddeeff", g.String())

	_, err = ParseGUID("nope")
	assert.Error(t, err)

	assert.Panics(t, func() { MustParseGUID("nope") })
	assert.True(t, NilGUID.IsZero())
	assert.False(t, NewGUID().IsZero())
}

func TestGUID_JSON(t *testing.T) {
	type wrapper struct {
		ID    GUID     `json:"id"`
		Split NullGUID `json:"split"`
	}
	g := MustParseGUID("00112233-4455-6677-8899-aabbccddeeff")

	b, err := json.Marshal(wrapper{ID: g})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"00112233-4455-6677-8899-aabbccddeeff","split":null}`, string(b))

	var w wrapper
	require.NoError(t, json.Unmarshal([]byte(`{"id":"00112233-4455-6677-8899-aabbccddeeff","split":"00112233-4455-6677-8899-aabbccddeeff"}`), &w))
	assert.Equal(t, g, w.ID)
	assert.True(t, w.Split.Valid)
	assert.Equal(t, g, w.Split.GUID)

	require.NoError(t, json.Unmarshal([]byte(`{"id":"00112233-4455-6677-8899-aabbccddeeff","split":""}`), &w))
	assert.False(t, w.Split.Valid)

	assert.Error(t, json.Unmarshal([]byte(`{"id":"bad"}`), &w))
	assert.Error(t, json.Unmarshal([]byte(`{"split":12}`), &w))
}

func TestNullGUID_ValueAndScan(t *testing.T) {
	var n NullGUID
	v, err := n.Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	g := NewGUID()
	require.NoError(t, n.Scan(g.Bytes()))
	assert.True(t, n.Valid)
	assert.Equal(t, g, n.GUID)

	require.NoError(t, n.Scan(nil))
	assert.False(t, n.Valid)
}
