package scene

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/lunavega/ecogame/forest"
	"github.com/lunavega/ecogame/memimg"
	"github.com/lunavega/ecogame/structs"
)

// Rendering must work with no sprites on disk: shape fallbacks only.
func TestRenderFallbackCanvas(t *testing.T) {
	w := forest.NewWorld(640, 360, forest.Costs{})
	w.Trees = append(w.Trees, structs.Tree{X: 100, Y: 300, Stage: 2})
	w.Winds = append(w.Winds, structs.WindTurbine{X: 400, Y: 300, PPS: 2})
	w.Player.Selected = 0

	img := Render(w)

	bounds := img.Bounds()
	if bounds.Dx() != 640 || bounds.Dy() != 360 {
		t.Fatalf("rendered %dx%d, want 640x360", bounds.Dx(), bounds.Dy())
	}
}

// The background is letterboxed (contain scaling), never cropped to cover:
// a square sprite on a wide canvas leaves night-colored bars at the sides.
func TestBackgroundLetterboxed(t *testing.T) {
	dir := t.TempDir()
	bg := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			bg.Set(x, y, color.White)
		}
	}
	f, err := os.Create(filepath.Join(dir, memimg.SpriteBG))
	if err != nil {
		t.Fatalf("create sprite: %v", err)
	}
	if err := png.Encode(f, bg); err != nil {
		t.Fatalf("encode sprite: %v", err)
	}
	f.Close()

	if err := memimg.LoadSprites(dir); err != nil {
		t.Fatalf("load sprites: %v", err)
	}
	t.Cleanup(func() { memimg.LoadSprites(t.TempDir()) })

	w := forest.NewWorld(640, 360, forest.Costs{})
	img := Render(w)

	// Square sprite scaled to 360x360 centered at x=140; x=5 is a bar.
	r, g, b, _ := img.At(5, 180).RGBA()
	if r>>8 != 0x0b || g>>8 != 0x0f || b>>8 != 0x12 {
		t.Fatalf("side bar color = #%02x%02x%02x, want #0b0f12", r>>8, g>>8, b>>8)
	}
	r, _, _, _ = img.At(320, 180).RGBA()
	if r>>8 != 0xff {
		t.Fatalf("background sprite not drawn at center: r=%02x", r>>8)
	}
}
