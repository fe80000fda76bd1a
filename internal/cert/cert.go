package cert

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// 中文说明：
// 固定版式的绿色贡献证书：标题、用户名、累计积分、累计 CO₂、签发日期。
// 输出 PNG 字节，渲染结果只取决于入参。

const (
	certWidth  = 800
	certHeight = 500
)

var (
	certBackground = color.RGBA{R: 0xF4, G: 0xFA, B: 0xF4, A: 0xFF}
	certBorder     = color.RGBA{R: 0x2E, G: 0x7D, B: 0x32, A: 0xFF}
	certInk        = color.RGBA{R: 0x1B, G: 0x36, B: 0x1E, A: 0xFF}
)

// Render 生成证书 PNG。
func Render(username string, totalPoints int64, totalCO2Kg float64, issued time.Time) ([]byte, error) {
	if username == "" {
		return nil, fmt.Errorf("certificate requires a username")
	}
	img := image.NewRGBA(image.Rect(0, 0, certWidth, certHeight))

	for y := 0; y < certHeight; y++ {
		for x := 0; x < certWidth; x++ {
			img.Set(x, y, certBackground)
		}
	}
	drawBorder(img, 12, certBorder)
	drawBorder(img, 16, certBorder)

	lines := []string{
		"CERTIFICATE OF GREEN CONTRIBUTION",
		"",
		"This certifies that",
		username,
		"",
		fmt.Sprintf("earned %d green points", totalPoints),
		fmt.Sprintf("and saved %.2f kg of CO2", totalCO2Kg),
		"through sustainable disposal of discarded items.",
		"",
		"Issued on " + issued.Format("2 January 2006"),
	}

	face := basicfont.Face7x13
	y := 140
	for _, line := range lines {
		if line != "" {
			drawCentered(img, face, line, y)
		}
		y += 32
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding certificate: %w", err)
	}
	return buf.Bytes(), nil
}

func drawBorder(img *image.RGBA, inset int, c color.RGBA) {
	for x := inset; x < certWidth-inset; x++ {
		img.Set(x, inset, c)
		img.Set(x, certHeight-inset-1, c)
	}
	for y := inset; y < certHeight-inset; y++ {
		img.Set(inset, y, c)
		img.Set(certWidth-inset-1, y, c)
	}
}

func drawCentered(img *image.RGBA, face font.Face, text string, y int) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(certInk),
		Face: face,
	}
	width := d.MeasureString(text)
	x := (fixed.I(certWidth) - width) / 2
	d.Dot = fixed.Point26_6{X: x, Y: fixed.I(y)}
	d.DrawString(text)
}
