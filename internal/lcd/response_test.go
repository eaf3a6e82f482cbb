package lcd

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aleksclark/go-4dgl/pkg/rgb565"
)

func TestDecodeAck(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ReplyAck, decodeAck([]byte{0x06}))
	assert.Equal(t, ReplyNak, decodeAck([]byte{0x15}))
	assert.Equal(t, ReplyUnknown, decodeAck([]byte{0x42}))
	assert.Equal(t, ReplyUnknown, decodeAck(nil))
	assert.Equal(t, "NAK", ReplyNak.String())
}

func TestAckError(t *testing.T) {
	t.Parallel()

	require.NoError(t, ackError(cmdCircle, []byte{respAck}))

	err := ackError(cmdCircle, []byte{respNak})
	require.ErrorIs(t, err, ErrNak)
	assert.False(t, IsSoft(err))

	err = ackError(cmdCircle, []byte{0x42})
	require.ErrorIs(t, err, ErrUnknownResponse)
	assert.True(t, IsSoft(err))

	var cerr *CommandError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, byte(cmdCircle), cerr.Op)
	assert.Equal(t, "command 0x43: unknown controller response (0x42)", err.Error())
}

func TestDecodeVersion(t *testing.T) {
	t.Parallel()

	id, err := decodeVersion([]byte{0x01, 0x02, 0x03, 0x00, 0x00})
	require.NoError(t, err)
	assert.Equal(t, DeviceIdentity{Type: 1, Revision: 2, Firmware: 3}, id)

	_, err = decodeVersion([]byte{0x01, 0x02, 0x03})
	require.ErrorIs(t, err, ErrIncompleteResponse)
	assert.Equal(t, "command 0x56: incomplete controller response (got 3 of 5 bytes)", err.Error())
}

func TestDecodePixel(t *testing.T) {
	t.Parallel()

	c, err := decodePixel([]byte{0xF8, 0x00})
	require.NoError(t, err)
	assert.Equal(t, rgb565.Color(0xF800), c)
	assert.Equal(t, uint32(0xFF0000), c.RGB())

	_, err = decodePixel([]byte{0xF8})
	require.ErrorIs(t, err, ErrIncompleteResponse)
}

func TestDecodeTouch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		resp  []byte
		wantX int
		wantY int
		err   error
	}{
		{"position", []byte{0x00, 0x64, 0x00, 0xC8}, 100, 200, nil},
		{"x invalid", []byte{0xFF, 0x00, 0x00, 0x32}, 0, 50, nil},
		{"both invalid", []byte{0xFF, 0xFF, 0xFF, 0xFF}, 0, 0, nil},
		{"wide coordinates", []byte{0x01, 0x3F, 0x00, 0xEF}, 319, 239, nil},
		{"short", []byte{0x00, 0x64}, -1, -1, ErrIncompleteResponse},
		{"empty", nil, -1, -1, ErrIncompleteResponse},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			x, y, err := decodeTouch(tt.resp)
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantX, x)
			assert.Equal(t, tt.wantY, y)
		})
	}
}

func TestDecodeTouchStatus(t *testing.T) {
	t.Parallel()

	st, err := decodeTouchStatus([]byte{0x00, 0x01, 0x00, 0x00})
	require.NoError(t, err)
	assert.Equal(t, TouchPressed, st)

	st, err = decodeTouchStatus([]byte{0x00})
	require.ErrorIs(t, err, ErrIncompleteResponse)
	assert.Equal(t, TouchUnknown, st)
	assert.Equal(t, -1, int(st))
}
