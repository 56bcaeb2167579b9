package tessera

import (
	"fmt"
	"image/png"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

// ResourceTrunk is a named collection of images, sounds and music tracks
// that components borrow. The trunk owns them.
type ResourceTrunk struct {
	Name string

	images map[string]*ebiten.Image
	sounds map[string]*Sound
	music  map[string]*Music
}

// NewResourceTrunk creates an empty trunk.
func NewResourceTrunk(name string) *ResourceTrunk {
	return &ResourceTrunk{
		Name:   name,
		images: make(map[string]*ebiten.Image),
		sounds: make(map[string]*Sound),
		music:  make(map[string]*Music),
	}
}

// LoadDirectoryTrunk loads every resource under fsys. PNG files become images
// and WAV files become sounds, except WAV files inside a "music" directory,
// which become music tracks. Resources are named by their slash-separated
// path without extension, e.g. "pieces/red" or "music/theme".
func LoadDirectoryTrunk(fsys fs.FS, name string) (*ResourceTrunk, error) {
	t := NewResourceTrunk(name)
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		ext := strings.ToLower(path.Ext(p))
		key := strings.TrimSuffix(p, path.Ext(p))
		switch {
		case ext == ".png":
			return t.loadImage(fsys, p, key)
		case ext == ".wav" && isMusicPath(p):
			f, err := fsys.Open(p)
			if err != nil {
				return err
			}
			m, err := LoadMusic(f)
			if err != nil {
				return fmt.Errorf("%s: %w", p, err)
			}
			t.music[key] = m
		case ext == ".wav":
			f, err := fsys.Open(p)
			if err != nil {
				return err
			}
			s, err := LoadSound(f)
			if err != nil {
				return fmt.Errorf("%s: %w", p, err)
			}
			t.sounds[key] = s
		}
		return nil
	})
	if err != nil {
		t.Close()
		return nil, fmt.Errorf("tessera: load trunk %q: %w", name, err)
	}
	Logger().Info("tessera: loaded resource trunk",
		"trunk", name, "images", len(t.images), "sounds", len(t.sounds), "music", len(t.music))
	return t, nil
}

func isMusicPath(p string) bool {
	return strings.HasPrefix(p, "music/") || strings.Contains(p, "/music/")
}

func (t *ResourceTrunk) loadImage(fsys fs.FS, p, key string) error {
	f, err := fsys.Open(p)
	if err != nil {
		return err
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		return fmt.Errorf("%s: %w", p, err)
	}
	t.images[key] = ebiten.NewImageFromImage(img)
	return nil
}

// AddImage registers img under name, replacing any image with that name.
func (t *ResourceTrunk) AddImage(name string, img *ebiten.Image) {
	t.images[name] = img
}

// AddAtlas registers every region of a TexturePacker sheet as an image
// named after its frame. pages are the sheet's page images in order.
func (t *ResourceTrunk) AddAtlas(jsonData []byte, pages []*ebiten.Image) error {
	regions, err := parseAtlas(jsonData)
	if err != nil {
		return err
	}
	sprites := make(map[string]*ebiten.Image, len(regions))
	for name, r := range regions {
		s, err := r.sprite(pages)
		if err != nil {
			return fmt.Errorf("tessera: atlas region %q: %w", name, err)
		}
		sprites[name] = s
	}
	for name, s := range sprites {
		t.images[name] = s
	}
	return nil
}

// Image returns the image registered under name.
func (t *ResourceTrunk) Image(name string) (*ebiten.Image, error) {
	if img, ok := t.images[name]; ok {
		return img, nil
	}
	return nil, fmt.Errorf("tessera: trunk %q: image %q: %w", t.Name, name, ErrNotFound)
}

// Sound returns the sound registered under name.
func (t *ResourceTrunk) Sound(name string) (*Sound, error) {
	if s, ok := t.sounds[name]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("tessera: trunk %q: sound %q: %w", t.Name, name, ErrNotFound)
}

// Music returns the music track registered under name.
func (t *ResourceTrunk) Music(name string) (*Music, error) {
	if m, ok := t.music[name]; ok {
		return m, nil
	}
	return nil, fmt.Errorf("tessera: trunk %q: music %q: %w", t.Name, name, ErrNotFound)
}

// Images returns the sorted names of every image in the trunk.
func (t *ResourceTrunk) Images() []string {
	names := make([]string, 0, len(t.images))
	for n := range t.images {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Close releases the music sources. Images are left to the garbage collector.
func (t *ResourceTrunk) Close() {
	for _, m := range t.music {
		m.Close()
	}
	clear(t.music)
}
