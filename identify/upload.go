package identify

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

const thumbWidth = 256

// ArchiveUpload keeps the submitted photo on disk next to a Lanczos
// thumbnail, so recent identifications and proofs can be shown again
// without holding the originals in memory.
func ArchiveUpload(dir, id string, imageData []byte) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return err
	}

	originalPath := filepath.Join(dir, fmt.Sprintf("%s.jpg", id))
	if err := os.WriteFile(originalPath, imageData, 0644); err != nil {
		return err
	}

	thumb := imaging.Resize(img, thumbWidth, 0, imaging.Lanczos)
	thumbPath := filepath.Join(dir, fmt.Sprintf("%s_small.jpg", id))
	return imaging.Save(thumb, thumbPath, imaging.JPEGQuality(95))
}
