package render

import "testing"

func TestImageWriteTile(t *testing.T) {
	img := NewImage(4, 4, 2)
	tile := NewImage(2, 2, 2)
	for i := range tile.Pix {
		tile.Pix[i] = float32(i + 1)
	}

	if err := img.WriteTile(tile, 2, 1); err != nil {
		t.Fatal(err)
	}

	// First tile row lands at pixel (2, 1).
	offset := img.Index(2, 1)
	for i := 0; i < 4; i++ {
		if got := img.Pix[offset+i]; got != float32(i+1) {
			t.Fatalf("expected tile value %d at offset %d; got %g", i+1, offset+i, got)
		}
	}

	if err := img.WriteTile(tile, 3, 3); err == nil {
		t.Fatal("expected out of bounds tile write to fail")
	}
	if err := img.WriteTile(NewImage(2, 2, 4), 0, 0); err == nil {
		t.Fatal("expected channel mismatch tile write to fail")
	}
}

func TestImageCopyChannel(t *testing.T) {
	dst := NewImage(2, 1, 4)
	src := NewImage(2, 1, 4)
	src.Pix = []float32{1, 2, 3, 0.5, 5, 6, 7, 0.25}

	if err := dst.CopyChannel(3, src, 3); err != nil {
		t.Fatal(err)
	}

	if dst.Pix[3] != 0.5 || dst.Pix[7] != 0.25 {
		t.Fatalf("expected alpha channel copy; got %v", dst.Pix)
	}
	for _, i := range []int{0, 1, 2, 4, 5, 6} {
		if dst.Pix[i] != 0 {
			t.Fatalf("expected color channels to remain untouched; got %v", dst.Pix)
		}
	}

	if err := dst.CopyChannel(3, NewImage(1, 1, 4), 3); err == nil {
		t.Fatal("expected dimension mismatch channel copy to fail")
	}
}

func TestImageFlatten(t *testing.T) {
	img := NewImage(2, 1, 4)
	img.Pix = []float32{1, 2, 3, 4, 5, 6, 7, 8}

	// Trim to fewer channels.
	got := img.Flatten(1)
	exp := []float32{1, 5}
	if len(got) != len(exp) || got[0] != exp[0] || got[1] != exp[1] {
		t.Fatalf("expected flattened depth channel %v; got %v", exp, got)
	}

	// Same channel count copies verbatim.
	got = img.Flatten(4)
	if len(got) != 8 || got[7] != 8 {
		t.Fatalf("expected full flatten; got %v", got)
	}
	got[0] = 99
	if img.Pix[0] == 99 {
		t.Fatal("expected flatten to return a copy")
	}
}
