package render

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"
	"time"
)

func sampleTicket() Ticket {
	bought := time.Date(2024, 5, 10, 14, 3, 22, 0, time.UTC)
	return Ticket{
		GameName:    "Lot Set",
		CodePrefix:  "LS",
		Code:        661112,
		Numbers:     []int{4, 17, 42, 88, 100},
		PurchasedAt: bought,
		DrawDate:    bought.AddDate(0, 1, 0),
	}
}

func TestRenderProducesDecodablePNG(t *testing.T) {
	r := NewRenderer(640, 260)
	data, err := r.Render(sampleTicket())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("Render returned empty image")
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Output is not valid PNG: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != 640 || bounds.Dy() != 260 {
		t.Errorf("Unexpected dimensions %dx%d", bounds.Dx(), bounds.Dy())
	}
}

// Every ticket carries a scannable QR of prefix+code, drawn at qrOrigin.
// The rendered pixels must agree with the QR glyph for the same content.
func TestRenderIncludesTicketQR(t *testing.T) {
	r := NewRenderer(640, 260)
	data, err := r.Render(sampleTicket())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Output is not valid PNG: %v", err)
	}

	want, err := qrGlyph("LS661112")
	if err != nil {
		t.Fatalf("qrGlyph failed: %v", err)
	}

	qx, qy := qrOrigin(640, 260)
	darkSeen, lightSeen := false, false
	for y := 0; y < qrSize; y += 7 {
		for x := 0; x < qrSize; x += 7 {
			if isDark(want.At(x, y)) != isDark(img.At(qx+x, qy+y)) {
				t.Fatalf("QR pixel mismatch at offset (%d,%d)", x, y)
			}
			if isDark(img.At(qx+x, qy+y)) {
				darkSeen = true
			} else {
				lightSeen = true
			}
		}
	}
	if !darkSeen || !lightSeen {
		t.Errorf("QR region has no module contrast (dark=%v light=%v)", darkSeen, lightSeen)
	}
}

func isDark(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	return (r+g+b)/3 < 0x8000
}

func TestRenderHandlesEmptyNumbers(t *testing.T) {
	r := NewRenderer(320, 140)
	tk := sampleTicket()
	tk.Numbers = nil
	if _, err := r.Render(tk); err != nil {
		t.Errorf("Render with no numbers failed: %v", err)
	}
}
