package export

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var (
	pngColWidths = []int{60, 260, 200, 420}
	pngRowHeight = 36
	pngPadding   = 12

	headerFill = color.RGBA{R: 255, G: 209, B: 102, A: 255}
	gridGray   = color.RGBA{R: 136, G: 136, B: 136, A: 255}
)

// PNG renders the winner table as an image and returns the file path.
// It uses the built-in bitmap face, so the output is the low-fidelity
// export meant for quick channel posts.
func PNG(raffle string, rows []Row) (string, error) {
	tableWidth := 0
	for _, w := range pngColWidths {
		tableWidth += w
	}
	width := tableWidth + pngPadding*2
	height := pngRowHeight*(len(rows)+2) + pngPadding*2

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	y := pngPadding
	drawText(img, pngPadding, y+24, title(raffle), color.Black)
	y += pngRowHeight

	// header row
	fillRect(img, pngPadding, y, width-pngPadding, y+pngRowHeight, headerFill)
	drawCells(img, y, headerCells(), color.Black)
	strokeRect(img, pngPadding, y, width-pngPadding, y+pngRowHeight, color.Black)
	y += pngRowHeight

	for _, row := range rows {
		cells := []string{
			fmt.Sprintf("%d", row.Serial), row.DisplayName, row.ShortName, row.Link,
		}
		drawCells(img, y, cells, color.Black)
		strokeRect(img, pngPadding, y, width-pngPadding, y+pngRowHeight, gridGray)
		y += pngRowHeight
	}

	path := tempPath(raffle, "png")
	out, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer out.Close()
	if err := png.Encode(out, img); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

func headerCells() []string {
	return append([]string{}, header...)
}

func drawCells(img *image.RGBA, y int, cells []string, c color.Color) {
	x := pngPadding
	for i, cell := range cells {
		drawText(img, x+8, y+22, cell, c)
		x += pngColWidths[i]
		vline(img, x, y, y+pngRowHeight, gridGray)
	}
}

func drawText(img *image.RGBA, x, y int, s string, c color.Color) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

func fillRect(img *image.RGBA, x0, y0, x1, y1 int, c color.Color) {
	draw.Draw(img, image.Rect(x0, y0, x1, y1), image.NewUniform(c), image.Point{}, draw.Src)
}

func strokeRect(img *image.RGBA, x0, y0, x1, y1 int, c color.Color) {
	hline(img, x0, x1, y0, c)
	hline(img, x0, x1, y1, c)
	vline(img, x0, y0, y1, c)
	vline(img, x1, y0, y1, c)
}

func hline(img *image.RGBA, x0, x1, y int, c color.Color) {
	for x := x0; x <= x1; x++ {
		img.Set(x, y, c)
	}
}

func vline(img *image.RGBA, x, y0, y1 int, c color.Color) {
	for y := y0; y <= y1; y++ {
		img.Set(x, y, c)
	}
}
