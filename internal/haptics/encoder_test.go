package haptics

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_Layout(t *testing.T) {
	tests := []struct {
		name     string
		loc      FeedbackLocation
		strength float32
		duration float32
		want     Command
	}{
		{
			name:     "index clamps strength above one",
			loc:      Index,
			strength: 1.5,
			duration: 0.2,
			want:     Command{0x02, 0xff, 0xcd, 0xcc, 0x4c, 0x3e, 0x00, 0x00},
		},
		{
			name:     "thumb one second",
			loc:      Thumb,
			strength: 1,
			duration: 1,
			want:     Command{0x01, 0xff, 0x00, 0x00, 0x80, 0x3f, 0x00, 0x00},
		},
		{
			name:     "pinky half strength truncates",
			loc:      Pinky,
			strength: 0.5,
			duration: 0,
			want:     Command{0x10, 0x7f, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
		},
		{
			name:     "negative strength clamps to zero",
			loc:      Ring,
			strength: -0.3,
			duration: 2,
			want:     Command{0x08, 0x00, 0x00, 0x00, 0x00, 0x40, 0x00, 0x00},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Encode(tt.loc, tt.strength, tt.duration)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Encode mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEncode_StrengthScaling(t *testing.T) {
	tests := []struct {
		strength float32
		want     byte
	}{
		{0, 0},
		{0.001, 0},
		{0.5, 127},
		{0.999, 254},
		{1, 255},
		{7, 255},
		{float32(math.Inf(1)), 255},
		{float32(math.Inf(-1)), 0},
		{float32(math.NaN()), 0},
	}

	for _, tt := range tests {
		got := Encode(Middle, tt.strength, 0)
		assert.Equal(t, tt.want, got[1], "strength %v", tt.strength)
	}
}

func TestEncode_DurationRoundTrip(t *testing.T) {
	for _, d := range []float32{0, 0.05, 0.2, 1.5, -1, 3600} {
		cmd := Encode(Index, 1.5, d)

		decoded, err := DecodeCommand(cmd[:])
		require.NoError(t, err)
		assert.Equal(t, Index, decoded.Location)
		assert.Equal(t, uint8(255), decoded.Strength)
		assert.Equal(t, math.Float32bits(d), math.Float32bits(decoded.Duration), "duration %v", d)
		assert.Zero(t, cmd[6])
		assert.Zero(t, cmd[7])
	}
}

func TestEncode_PreservesUnknownLocationCode(t *testing.T) {
	cmd := Encode(FeedbackLocation(0x1f), 0, 0)
	assert.Equal(t, byte(0x1f), cmd[0])
}

func TestEncodeRequest_IgnoresHand(t *testing.T) {
	left := EncodeRequest(FeedbackRequest{Hand: Left, Location: Ring, Strength: 0.25, Duration: 0.3})
	right := EncodeRequest(FeedbackRequest{Hand: Right, Location: Ring, Strength: 0.25, Duration: 0.3})
	assert.Equal(t, left, right)
	assert.Equal(t, Encode(Ring, 0.25, 0.3), left)
}

func TestDecodeCommand_Short(t *testing.T) {
	_, err := DecodeCommand([]byte{1, 2, 3})
	require.ErrorIs(t, err, ErrShortCommand)
}

func TestDecodedCommand_String(t *testing.T) {
	cmd := Encode(Thumb, 1, 0.25)
	decoded, err := DecodeCommand(cmd[:])
	require.NoError(t, err)
	assert.Equal(t, "thumb strength=255 duration=0.250s", decoded.String())
}
