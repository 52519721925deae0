// Scene rasterizes a forest world into a PNG for chat embedding, the same
// composition the browser canvas draws.
package scene

import (
	"image"
	"math"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/lunavega/ecogame/forest"
	"github.com/lunavega/ecogame/memimg"
)

const (
	charScale = 2.2
	windScale = 1.6
	treeScale = 1.6
)

// Render draws the world at its native size. Scales are uniform,
// min(w/1280, h/720), so sprites keep their aspect ratio on any canvas.
func Render(w *forest.World) image.Image {
	width, height := int(w.W), int(w.H)
	dc := gg.NewContext(width, height)

	drawBackground(dc, width, height)

	s := math.Min(w.W/forest.BaseW, w.H/forest.BaseH)

	treeSizes := [...]float64{60 * treeScale * s, 120 * treeScale * s, 160 * treeScale * s}
	for i, t := range w.Trees {
		name := memimg.SpriteTree1
		switch t.Stage {
		case 2:
			name = memimg.SpriteTree2
		case 3:
			name = memimg.SpriteTree3
		}
		size := treeSizes[0]
		if t.Stage >= 2 && t.Stage <= 3 {
			size = treeSizes[t.Stage-1]
		}
		if img, ok := memimg.GetSpriteFromMemory(name); ok {
			drawScaled(dc, img, t.X-size/2, t.Y-size, size, size)
		}
		if i == w.Player.Selected {
			dc.SetRGBA(1, 1, 1, 0.9)
			dc.SetLineWidth(2)
			dc.DrawCircle(t.X, t.Y-10, 28)
			dc.Stroke()
		}
	}

	windSize := 72 * windScale * s
	for _, t := range w.Winds {
		if img, ok := memimg.GetSpriteFromMemory(memimg.SpriteWind); ok {
			drawScaled(dc, img, t.X-windSize/2, t.Y-windSize/2, windSize, windSize)
		} else {
			dc.SetRGB(1, 1, 1)
			dc.SetLineWidth(1)
			dc.DrawLine(t.X-24, t.Y, t.X+24, t.Y)
			dc.DrawLine(t.X, t.Y-24, t.X, t.Y+24)
			dc.Stroke()
		}
	}

	p := w.Player
	charW := 56 * charScale * s
	charH := 56 * charScale * s
	if img, ok := memimg.GetSpriteFromMemory(memimg.SpriteChar); ok {
		drawScaled(dc, img, p.X-charW/2, p.Y-charH, charW, charH)
	} else {
		dc.SetHexColor("#203a43")
		dc.DrawCircle(p.X, p.Y-10, 16*s)
		dc.Fill()
		dc.SetHexColor("#7fe9a9")
		dc.DrawRectangle(p.X-6*s, p.Y-10*s, 12*s, 22*s)
		dc.Fill()
	}

	return dc.Image()
}

// SavePNG renders the world into dir under name and returns the file path.
func SavePNG(w *forest.World, dir, name string) (string, error) {
	img := Render(w)
	path := filepath.Join(dir, name+".png")
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", err
	}
	if err := imaging.Save(img, path); err != nil {
		return "", err
	}
	return path, nil
}

// drawBackground letterboxes the background sprite onto the canvas, night
// bars filling the rest, the same contain scaling the browser canvas uses.
func drawBackground(dc *gg.Context, width, height int) {
	dc.SetHexColor("#0b0f12")
	dc.Clear()

	bg, ok := memimg.GetSpriteFromMemory(memimg.SpriteBG)
	if !ok {
		return
	}
	bw := float64(bg.Bounds().Dx())
	bh := float64(bg.Bounds().Dy())
	scale := math.Min(float64(width)/bw, float64(height)/bh)
	dw, dh := bw*scale, bh*scale
	fitted := imaging.Resize(bg, int(dw), int(dh), imaging.Lanczos)
	dc.DrawImage(fitted, int((float64(width)-dw)/2), int((float64(height)-dh)/2))
}

func drawScaled(dc *gg.Context, img image.Image, x, y, w, h float64) {
	if w < 1 || h < 1 {
		return
	}
	resized := imaging.Resize(img, int(w), int(h), imaging.Lanczos)
	dc.DrawImage(resized, int(x), int(y))
}
