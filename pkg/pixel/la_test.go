package pixel

import (
	"image"
	"image/color"
	"testing"
)

func TestNewLAZeroed(t *testing.T) {
	p := NewLA(3, 2)
	if p.Width() != 3 || p.Height() != 2 || p.Stride != 6 || len(p.Pix) != 12 {
		t.Fatalf("NewLA(3,2) = %dx%d stride %d len %d", p.Width(), p.Height(), p.Stride, len(p.Pix))
	}
	for i, v := range p.Pix {
		if v != 0 {
			t.Fatalf("Pix[%d] = %d, want 0", i, v)
		}
	}
}

func TestSetLAAt(t *testing.T) {
	p := NewLA(4, 4)
	p.SetLA(2, 3, 10, 20)
	if l, a := p.LAAt(2, 3); l != 10 || a != 20 {
		t.Errorf("LAAt(2,3) = %d,%d, want 10,20", l, a)
	}

	// Out of bounds is a no-op.
	p.SetLA(4, 0, 1, 1)
	p.SetLA(-1, 0, 1, 1)
	if l, a := p.LAAt(9, 9); l != 0 || a != 0 {
		t.Errorf("LAAt out of bounds = %d,%d, want 0,0", l, a)
	}

	if got := p.At(2, 3); got != (color.NRGBA{R: 10, G: 10, B: 10, A: 20}) {
		t.Errorf("At(2,3) = %v", got)
	}
}

func TestNRGBA(t *testing.T) {
	p := NewLA(2, 1)
	p.SetLA(0, 0, 100, 255)
	p.SetLA(1, 0, 7, 9)

	out := p.NRGBA()
	want := []uint8{100, 100, 100, 255, 7, 7, 7, 9}
	for i, v := range want {
		if out.Pix[i] != v {
			t.Fatalf("NRGBA().Pix = %v, want %v", out.Pix[:8], want)
		}
	}
}

func TestFromImage(t *testing.T) {
	t.Run("gray", func(t *testing.T) {
		g := image.NewGray(image.Rect(0, 0, 2, 2))
		g.SetGray(1, 1, color.Gray{Y: 77})
		p := FromImage(g)
		if l, a := p.LAAt(1, 1); l != 77 || a != 255 {
			t.Errorf("LAAt(1,1) = %d,%d, want 77,255", l, a)
		}
	})

	t.Run("nrgba keeps straight alpha", func(t *testing.T) {
		src := image.NewNRGBA(image.Rect(0, 0, 1, 1))
		src.SetNRGBA(0, 0, color.NRGBA{R: 255, G: 255, B: 255, A: 128})
		p := FromImage(src)
		if l, a := p.LAAt(0, 0); l != 255 || a != 128 {
			t.Errorf("LAAt(0,0) = %d,%d, want 255,128", l, a)
		}
	})

	t.Run("offset bounds", func(t *testing.T) {
		src := image.NewNRGBA(image.Rect(5, 5, 7, 6))
		src.SetNRGBA(6, 5, color.NRGBA{A: 42})
		p := FromImage(src)
		if p.Bounds() != image.Rect(0, 0, 2, 1) {
			t.Fatalf("Bounds() = %v", p.Bounds())
		}
		if _, a := p.LAAt(1, 0); a != 42 {
			t.Errorf("alpha at (1,0) = %d, want 42", a)
		}
	})

	t.Run("la round trip", func(t *testing.T) {
		src := NewLA(3, 3)
		src.SetLA(2, 2, 9, 8)
		p := FromImage(src)
		if l, a := p.LAAt(2, 2); l != 9 || a != 8 {
			t.Errorf("LAAt(2,2) = %d,%d, want 9,8", l, a)
		}
	})
}

func TestBinaryRoundTrip(t *testing.T) {
	p := NewLA(3, 2)
	p.SetLA(0, 0, 1, 2)
	p.SetLA(2, 1, 3, 4)

	data, err := p.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	if len(data) != 8+12 {
		t.Fatalf("encoded length = %d, want 20", len(data))
	}

	var q LA
	if err := q.UnmarshalBinary(data); err != nil {
		t.Fatalf("UnmarshalBinary: %v", err)
	}
	if q.Width() != 3 || q.Height() != 2 {
		t.Fatalf("decoded size %dx%d", q.Width(), q.Height())
	}
	if l, a := q.LAAt(2, 1); l != 3 || a != 4 {
		t.Errorf("LAAt(2,1) = %d,%d, want 3,4", l, a)
	}
}

func TestUnmarshalBinaryErrors(t *testing.T) {
	var q LA
	if err := q.UnmarshalBinary([]byte{0, 0}); err == nil {
		t.Error("short header should fail")
	}
	if err := q.UnmarshalBinary([]byte{0, 0, 0, 2, 0, 0, 0, 2, 1}); err == nil {
		t.Error("truncated pixels should fail")
	}
}
