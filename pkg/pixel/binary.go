package pixel

import (
	"encoding/binary"
	"fmt"
	"image"
)

// headerLen is the size of the width/height header written by MarshalBinary.
const headerLen = 8

// MarshalBinary encodes p as a big-endian width and height followed by the
// tightly packed channel bytes.
func (p *LA) MarshalBinary() ([]byte, error) {
	w, h := p.Width(), p.Height()
	out := make([]byte, headerLen+2*w*h)
	binary.BigEndian.PutUint32(out[0:4], uint32(w))
	binary.BigEndian.PutUint32(out[4:8], uint32(h))
	dst := out[headerLen:]
	for y := 0; y < h; y++ {
		s := p.PixOffset(p.Rect.Min.X, p.Rect.Min.Y+y)
		copy(dst[y*2*w:(y+1)*2*w], p.Pix[s:s+2*w])
	}
	return out, nil
}

// UnmarshalBinary decodes data written by MarshalBinary into p.
func (p *LA) UnmarshalBinary(data []byte) error {
	if len(data) < headerLen {
		return fmt.Errorf("pixel: short header (%d bytes)", len(data))
	}
	w := int(binary.BigEndian.Uint32(data[0:4]))
	h := int(binary.BigEndian.Uint32(data[4:8]))
	if len(data)-headerLen != 2*w*h {
		return fmt.Errorf("pixel: %dx%d image needs %d bytes, got %d", w, h, 2*w*h, len(data)-headerLen)
	}
	p.Pix = append([]uint8(nil), data[headerLen:]...)
	p.Stride = 2 * w
	p.Rect = image.Rect(0, 0, w, h)
	return nil
}
