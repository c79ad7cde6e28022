package haptics

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// CommandSize is the length of one pulse command on the wire. There is no
// framing; firmware reads fixed 8-byte records.
const CommandSize = 8

// ErrShortCommand is returned when decoding fewer than CommandSize bytes.
var ErrShortCommand = errors.New("command shorter than 8 bytes")

// Command is one encoded pulse:
//
//	[0]   location code
//	[1]   strength, 0..255
//	[2:6] duration seconds, IEEE-754 binary32, little-endian
//	[6:8] reserved, zero
type Command [CommandSize]byte

// Encode builds the command for one pulse. Strength is clamped to [0,1]
// (NaN counts as 0) before scaling to a byte.
func Encode(loc FeedbackLocation, strength, duration float32) Command {
	var cmd Command
	cmd[0] = byte(loc)
	cmd[1] = strengthByte(strength)
	putFloat32(cmd[2:6], duration)
	return cmd
}

// EncodeRequest encodes the location, strength and duration of req.
func EncodeRequest(req FeedbackRequest) Command {
	return Encode(req.Location, req.Strength, req.Duration)
}

func strengthByte(s float32) byte {
	if math.IsNaN(float64(s)) {
		return 0
	}
	return byte(255 * min(max(s, 0), 1))
}

// putFloat32 writes the binary32 representation of f into b[0:4]. The
// firmware runs on little-endian cores, as do all supported hosts.
func putFloat32(b []byte, f float32) {
	binary.LittleEndian.PutUint32(b, math.Float32bits(f))
}

// DecodedCommand is the inverse view of a Command.
type DecodedCommand struct {
	Location FeedbackLocation
	Strength uint8
	Duration float32
}

// DecodeCommand parses the first CommandSize bytes of b.
func DecodeCommand(b []byte) (DecodedCommand, error) {
	if len(b) < CommandSize {
		return DecodedCommand{}, fmt.Errorf("%w: got %d", ErrShortCommand, len(b))
	}
	return DecodedCommand{
		Location: FeedbackLocation(b[0]),
		Strength: b[1],
		Duration: math.Float32frombits(binary.LittleEndian.Uint32(b[2:6])),
	}, nil
}

func (c DecodedCommand) String() string {
	return fmt.Sprintf("%s strength=%d duration=%.3fs", c.Location, c.Strength, c.Duration)
}
