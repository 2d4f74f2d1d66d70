package jt808

import (
	"encoding/hex"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intelcon-group/mv77g-jt808/internal/testdata/packets"
	"github.com/intelcon-group/mv77g-jt808/pkg/jt808/message"
	"github.com/intelcon-group/mv77g-jt808/pkg/jt808/protocol"
)

// interior strips the delimiters from a hex-encoded frame
func interior(t *testing.T, frameHex string) []byte {
	t.Helper()
	raw, err := hex.DecodeString(frameHex)
	require.NoError(t, err)
	require.True(t, len(raw) >= 2)
	return raw[1 : len(raw)-1]
}

func TestDecodeFrameHeartbeat(t *testing.T) {
	d := NewDecoder()

	msg, err := d.DecodeFrame(interior(t, packets.Heartbeat))
	require.NoError(t, err)

	assert.Equal(t, uint16(protocol.MsgHeartbeat), msg.MessageID())
	assert.Equal(t, packets.Terminal, msg.Terminal())
	assert.Equal(t, uint16(1), msg.Sequence())
	assert.Empty(t, msg.Body())
	assert.Equal(t, "Heartbeat", msg.Type())
	assert.IsType(t, &message.Raw{}, msg)
}

func TestDecodeFrameEscaped(t *testing.T) {
	d := NewDecoder()

	// Sequence 0x007E travels escaped as 00 7D 02
	msg, err := d.DecodeFrame(interior(t, packets.HeartbeatEscaped))
	require.NoError(t, err)

	assert.Equal(t, uint16(0x007E), msg.Sequence())
}

func TestDecodeFrameLocation(t *testing.T) {
	d := NewDecoder()

	msg, err := d.DecodeFrame(interior(t, packets.Location))
	require.NoError(t, err)

	loc, ok := msg.(*message.Location)
	require.True(t, ok, "expected *message.Location, got %T", msg)

	assert.Equal(t, 31.258960, loc.Latitude)
	assert.Equal(t, 12.826744, loc.Longitude)
	assert.Equal(t, uint16(100), loc.Altitude)
	assert.Equal(t, 20.0, loc.SpeedKmh)
	assert.Equal(t, uint16(90), loc.Heading)
	assert.True(t, loc.Time.Equal(time.Date(2024, 3, 15, 12, 30, 45, 0, time.UTC)))
	assert.True(t, loc.Positioned())
	assert.False(t, loc.IgnitionOn())
}

func TestDecodeFrameLocationTLV(t *testing.T) {
	d := NewDecoder()

	msg, err := d.DecodeFrame(interior(t, packets.LocationTLV))
	require.NoError(t, err)

	loc := msg.(*message.Location)
	assert.Equal(t, "10.0", loc.Extras["odometer_km"])
	assert.Equal(t, "8", loc.Extras["satellites"])
	assert.Equal(t, "ON", loc.Extras["ignition"])
	assert.False(t, loc.ExtrasTruncated)
}

func TestDecodeFrameErrors(t *testing.T) {
	d := NewDecoder()

	t.Run("empty frame", func(t *testing.T) {
		_, err := d.DecodeFrame(nil)
		assert.ErrorIs(t, err, ErrEmptyFrame)
	})

	t.Run("checksum mismatch", func(t *testing.T) {
		_, err := d.DecodeFrame(interior(t, packets.HeartbeatCorrupt))
		require.Error(t, err)
		assert.True(t, IsChecksumError(err))
		assert.Equal(t, KindChecksum, ErrKind(err))
	})

	t.Run("bad escape sequence", func(t *testing.T) {
		_, err := d.DecodeFrame([]byte{0x00, 0x02, 0x7D, 0x05})
		require.Error(t, err)
		assert.True(t, IsFramingError(err))
		assert.Equal(t, KindFraming, ErrKind(err))
	})

	t.Run("payload too small", func(t *testing.T) {
		_, err := d.DecodeFrame([]byte{0x00, 0x02, 0x00})
		require.Error(t, err)
		assert.True(t, IsLengthError(err))
	})

	t.Run("declared length mismatch", func(t *testing.T) {
		// Heartbeat payload claiming a 5-byte body it does not carry.
		// Reseal the checksum so only the length check can fail.
		payload := []byte{0x00, 0x02, 0x00, 0x05, 0x01, 0x38, 0x00, 0x13, 0x80, 0x00, 0x00, 0x01}
		var sum byte
		for _, b := range payload {
			sum ^= b
		}
		_, err := d.DecodeFrame(append(payload, sum))
		require.Error(t, err)
		assert.True(t, IsLengthError(err))
		assert.Equal(t, KindLength, ErrKind(err))
	})

	t.Run("location body too short", func(t *testing.T) {
		// 0x0200 with a 4-byte body, resealed
		payload := []byte{0x02, 0x00, 0x00, 0x04, 0x01, 0x38, 0x00, 0x13, 0x80, 0x00, 0x00, 0x01,
			0xAA, 0xBB, 0xCC, 0xDD}
		var sum byte
		for _, b := range payload {
			sum ^= b
		}
		_, err := d.DecodeFrame(append(payload, sum))
		require.Error(t, err)
		assert.True(t, IsLengthError(err))
	})
}

func TestDecodeFrameUnknownID(t *testing.T) {
	d := NewDecoder()

	msg, err := d.DecodeFrame(interior(t, packets.Unregister))
	require.NoError(t, err)

	assert.Equal(t, uint16(protocol.MsgUnregister), msg.MessageID())
	assert.IsType(t, &message.Raw{}, msg)
}
