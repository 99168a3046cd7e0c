package render

import (
	"bytes"
	"fmt"
	"image"
	"strings"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// qrSize is the side length of the scannable code printed on every ticket
const qrSize = 72

// qrOrigin places the QR on the right edge, vertically centered
func qrOrigin(width, height int) (int, int) {
	return width - qrSize - 20, (height - qrSize) / 2
}

// Ticket is everything printed on a ticket image
type Ticket struct {
	GameName    string
	CodePrefix  string
	Code        int64
	Numbers     []int
	PurchasedAt time.Time
	DrawDate    time.Time
}

// Renderer draws ticket images at a fixed size
type Renderer struct {
	width  int
	height int
}

// NewRenderer returns a renderer for width x height tickets
func NewRenderer(width, height int) *Renderer {
	return &Renderer{width: width, height: height}
}

// Width returns the configured image width
func (r *Renderer) Width() int { return r.width }

// Height returns the configured image height
func (r *Renderer) Height() int { return r.height }

// Render produces a PNG of the ticket
func (r *Renderer) Render(t Ticket) ([]byte, error) {
	dc := gg.NewContext(r.width, r.height)
	dc.SetFillRule(gg.FillRuleWinding)

	w := float64(r.width)
	h := float64(r.height)

	// Blue-to-indigo gradient background
	for y := 0; y < r.height; y++ {
		f := float64(y) / h
		dc.SetRGB(0.10+f*0.08, 0.22+f*0.05, 0.55+f*0.20)
		dc.DrawLine(0, float64(y), w, float64(y))
		dc.Stroke()
	}

	// Ticket border
	dc.SetRGBA(1, 1, 1, 0.85)
	dc.SetLineWidth(3)
	dc.DrawRoundedRectangle(6, 6, w-12, h-12, 14)
	dc.Stroke()

	// Brand strip
	brandFace, err := loadFont(gobold.TTF, 22)
	if err != nil {
		return nil, fmt.Errorf("failed to load brand font: %w", err)
	}
	dc.SetFontFace(brandFace)
	dc.SetRGB(1, 0.84, 0.1)
	dc.DrawString("QUICKLOOT", 24, 38)

	// Game name on the right of the strip
	nameFace, err := loadFont(gobold.TTF, 16)
	if err != nil {
		return nil, fmt.Errorf("failed to load name font: %w", err)
	}
	dc.SetFontFace(nameFace)
	dc.SetRGB(1, 1, 1)
	nw, _ := dc.MeasureString(t.GameName)
	dc.DrawString(t.GameName, w-nw-24, 38)

	dc.SetRGBA(1, 1, 1, 0.5)
	dc.SetLineWidth(1)
	dc.DrawLine(18, 50, w-18, 50)
	dc.Stroke()

	// Ticket code, large and centered
	code := fmt.Sprintf("%s%d", t.CodePrefix, t.Code)
	codeFace, err := loadFont(gomono.TTF, 34)
	if err != nil {
		return nil, fmt.Errorf("failed to load code font: %w", err)
	}
	dc.SetFontFace(codeFace)
	cw, _ := dc.MeasureString(code)
	drawSharpText(dc, code, (w-cw)/2, h/2)

	// Chosen numbers
	nums := make([]string, len(t.Numbers))
	for i, n := range t.Numbers {
		nums[i] = fmt.Sprintf("%d", n)
	}
	line := strings.Join(nums, " , ")
	numFace, err := loadFont(goregular.TTF, 18)
	if err != nil {
		return nil, fmt.Errorf("failed to load numbers font: %w", err)
	}
	dc.SetFontFace(numFace)
	dc.SetRGB(1, 1, 1)
	lw, _ := dc.MeasureString(line)
	dc.DrawString(line, (w-lw)/2, h/2+34)

	// Scannable copy of the ticket code
	qrImg, err := qrGlyph(code)
	if err != nil {
		return nil, fmt.Errorf("failed to draw ticket QR: %w", err)
	}
	qx, qy := qrOrigin(r.width, r.height)
	dc.DrawImage(qrImg, qx, qy)

	// Purchase date bottom-left, draw date bottom-right
	dateFace, err := loadFont(goregular.TTF, 13)
	if err != nil {
		return nil, fmt.Errorf("failed to load date font: %w", err)
	}
	dc.SetFontFace(dateFace)
	dc.SetRGBA(1, 1, 1, 0.9)
	dc.DrawString(t.PurchasedAt.Format("02/01/2006"), 24, h-20)
	draw := "Draw " + t.DrawDate.Format("02/01/2006")
	dw, _ := dc.MeasureString(draw)
	dc.DrawString(draw, w-dw-24, h-20)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode ticket PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// drawSharpText draws text with a subtle shadow pass for perceived sharpness
func drawSharpText(dc *gg.Context, text string, x, y float64) {
	dc.Push()
	dc.SetRGBA(0, 0, 0, 0.5)
	dc.DrawString(text, x+0.5, y+0.5)
	dc.Pop()
	dc.SetRGB(1, 1, 1)
	dc.DrawString(text, x, y)
}

// qrGlyph renders content as a QR image sized for the ticket layout
func qrGlyph(content string) (image.Image, error) {
	qr, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return nil, err
	}
	qr.DisableBorder = true
	return qr.Image(qrSize), nil
}

// loadFont loads a font face from embedded TTF data
func loadFont(fontData []byte, size float64) (font.Face, error) {
	f, err := truetype.Parse(fontData)
	if err != nil {
		return nil, err
	}
	face := truetype.NewFace(f, &truetype.Options{
		Size:       size,
		DPI:        72,
		Hinting:    font.HintingFull,
		SubPixelsX: 4,
		SubPixelsY: 4,
	})
	return face, nil
}
