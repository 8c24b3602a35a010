// Package codec holds the matched (encoder, decoder) pairs for every
// service/topic message family, per spec.md §4.7 and §6.
package codec

import "github.com/valetudo/vendormaster/pkg/wire"

// Pose is an (x, y, θ) float32 triple.
type Pose struct {
	X, Y, Theta float32
}

func readPose(c *wire.Cursor) (Pose, error) {
	x, err := c.F32()
	if err != nil {
		return Pose{}, err
	}
	y, err := c.F32()
	if err != nil {
		return Pose{}, err
	}
	th, err := c.F32()
	if err != nil {
		return Pose{}, err
	}
	return Pose{X: x, Y: y, Theta: th}, nil
}

func writePose(w *wire.Writer, p Pose) {
	w.PutF32(p.X)
	w.PutF32(p.Y)
	w.PutF32(p.Theta)
}

// skipHeader consumes the upstream 16-byte preamble some topic messages
// carry ahead of their payload: sequence u32 + timestamp u64 + frame-id
// string with a 4-byte length prefix. Despite the fixed "16-byte" framing
// described informally, the frame-id is itself length-prefixed, so the
// true width is 16 + len(frame-id).
func skipHeader(c *wire.Cursor) error {
	if err := c.Skip(4); err != nil { // sequence
		return err
	}
	if err := c.Skip(8); err != nil { // timestamp
		return err
	}
	_, err := c.LengthPrefixed() // frame-id
	return err
}

func writeHeader(w *wire.Writer, seq uint32, timestamp uint64, frameID string) {
	w.PutU32(seq)
	w.PutU64(timestamp)
	w.PutLengthPrefixed([]byte(frameID))
}

// readHeaderedPose skips a header then reads a pose, the shape used by
// work-state's pose array and the prediction-pose topic.
func readHeaderedPose(c *wire.Cursor) (Pose, error) {
	if err := skipHeader(c); err != nil {
		return Pose{}, err
	}
	return readPose(c)
}

func writeHeaderedPose(w *wire.Writer, p Pose) {
	writeHeader(w, 0, 0, "")
	writePose(w, p)
}

// readU8Array reads a 4-byte count followed by that many bytes.
func readU8Array(c *wire.Cursor) ([]byte, error) {
	n, err := c.U32()
	if err != nil {
		return nil, err
	}
	return c.Take(int(n))
}

func writeU8Array(w *wire.Writer, vals []byte) {
	w.PutU32(uint32(len(vals)))
	w.PutBytes(vals)
}

// readU32Array reads a 4-byte count followed by that many little-endian
// u32s.
func readU32Array(c *wire.Cursor) ([]uint32, error) {
	n, err := c.U32()
	if err != nil {
		return nil, err
	}
	out := make([]uint32, n)
	for i := range out {
		v, err := c.U32()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func writeU32Array(w *wire.Writer, vals []uint32) {
	w.PutU32(uint32(len(vals)))
	for _, v := range vals {
		w.PutU32(v)
	}
}

// Point is a planar float32 coordinate pair.
type Point struct{ X, Y float32 }

// readPointArray reads a 4-byte count followed by that many float32 pairs.
func readPointArray(c *wire.Cursor) ([]Point, error) {
	n, err := c.U32()
	if err != nil {
		return nil, err
	}
	out := make([]Point, n)
	for i := range out {
		x, err := c.F32()
		if err != nil {
			return nil, err
		}
		y, err := c.F32()
		if err != nil {
			return nil, err
		}
		out[i] = Point{X: x, Y: y}
	}
	return out, nil
}

func writePointArray(w *wire.Writer, pts []Point) {
	w.PutU32(uint32(len(pts)))
	for _, p := range pts {
		w.PutF32(p.X)
		w.PutF32(p.Y)
	}
}
