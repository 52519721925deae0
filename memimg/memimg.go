// In-memory sprite cache for scene rendering, hot-reloaded from disk so
// artwork can be swapped without a restart.
package memimg

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Well-known sprite names the forest scene looks up.
const (
	SpriteChar  = "char.png"
	SpriteTree1 = "tree1.png"
	SpriteTree2 = "tree2.png"
	SpriteTree3 = "tree3.png"
	SpriteWind  = "wind.png"
	SpriteBG    = "bg.png"
)

var (
	sprites      map[string]image.Image
	spritesMutex sync.RWMutex
)

// LoadSprites reads every image in the directory into memory. Files that
// fail to decode are skipped; the scene has shape fallbacks for missing
// sprites.
func LoadSprites(directory string) error {
	sprites = make(map[string]image.Image)
	return filepath.Walk(directory, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			img, err := LoadImage(path)
			if err != nil {
				fmt.Printf("skipping sprite %s: %v\n", path, err)
				return nil
			}
			sprites[filepath.Base(path)] = img
		}
		return nil
	})
}

func LoadImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, err
	}
	return img, nil
}

// WatchSprites hot-reloads changed or newly dropped sprite files. Runs
// forever; start it on its own goroutine.
func WatchSprites(directory string) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		panic(err)
	}
	defer watcher.Close()

	done := make(chan bool)
	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
					img, err := LoadImage(event.Name)
					if err == nil {
						spritesMutex.Lock()
						sprites[filepath.Base(event.Name)] = img
						spritesMutex.Unlock()
					}
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				fmt.Println("error:", err)
			}
		}
	}()

	err = watcher.Add(directory)
	if err != nil {
		panic(err)
	}
	<-done
}

func GetSpriteFromMemory(filename string) (image.Image, bool) {
	spritesMutex.RLock()
	img, exists := sprites[filename]
	spritesMutex.RUnlock()
	return img, exists
}
