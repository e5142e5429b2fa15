package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
)

func TestMarshalScalars(t *testing.T) {
	m := message{1: 150, 2: "testing", 3: []byte{0xde, 0xad}}

	var want []byte
	want = protowire.AppendTag(want, 1, protowire.VarintType)
	want = protowire.AppendVarint(want, 150)
	want = protowire.AppendTag(want, 2, protowire.BytesType)
	want = protowire.AppendString(want, "testing")
	want = protowire.AppendTag(want, 3, protowire.BytesType)
	want = protowire.AppendBytes(want, []byte{0xde, 0xad})

	assert.Equal(t, want, m.marshal())
}

func TestMarshalDeterministic(t *testing.T) {
	m := message{7: int64(99), 1: "a", 4: message{2: 1}}
	first := m.marshal()
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, m.marshal())
	}
}

func TestMarshalRepeated(t *testing.T) {
	m := message{1: []any{"a", "b", "c"}}
	parsed, err := parseMessage(m.marshal())
	require.NoError(t, err)

	list, ok := parsed[1].([]any)
	require.True(t, ok)
	require.Len(t, list, 3)
	assert.Equal(t, []byte("b"), list[1])
}

func TestRoundTripNested(t *testing.T) {
	m := message{
		1: message{
			2: message{1: "deep value"},
			3: 42,
		},
		5: "shallow",
	}

	parsed, err := parseMessage(m.marshal())
	require.NoError(t, err)

	assert.Equal(t, "deep value", digString(parsed, 1, 2, 1))
	assert.Equal(t, "shallow", digString(parsed, 5))
	assert.Equal(t, uint64(42), dig(parsed, 1, 3))
}

func TestDigMissingPath(t *testing.T) {
	m := message{1: message{2: "x"}}
	parsed, err := parseMessage(m.marshal())
	require.NoError(t, err)

	assert.Nil(t, dig(parsed, 1, 9))
	assert.Nil(t, dig(parsed, 9))
	assert.Empty(t, digString(parsed, 1, 2, 3), "scalar is not a message")
}

func TestParseMessageTruncated(t *testing.T) {
	m := message{1: "some content"}
	b := m.marshal()
	_, err := parseMessage(b[:len(b)-3])
	assert.Error(t, err)
}

func TestMarshalUnsupportedTypePanics(t *testing.T) {
	assert.Panics(t, func() {
		message{1: 3.14}.marshal()
	})
}
