package tessera

import (
	"encoding/json"
	"fmt"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// atlasRegion describes a named sprite inside an atlas page.
type atlasRegion struct {
	page     int
	frame    image.Rectangle // rect within the page
	original image.Point     // untrimmed size as authored
	offset   image.Point     // trim offset within the untrimmed sprite
	trimmed  bool
	rotated  bool
}

// parseAtlas parses TexturePacker JSON. Both the hash format (a single
// "frames" object) and the array format (a "textures" list with per-page
// frames) are understood.
func parseAtlas(jsonData []byte) (map[string]atlasRegion, error) {
	var probe struct {
		Frames   json.RawMessage `json:"frames"`
		Textures json.RawMessage `json:"textures"`
	}
	if err := json.Unmarshal(jsonData, &probe); err != nil {
		return nil, fmt.Errorf("tessera: failed to parse atlas JSON: %w", err)
	}

	regions := make(map[string]atlasRegion)
	switch {
	case probe.Textures != nil:
		var textures []jsonTexturePage
		if err := json.Unmarshal(probe.Textures, &textures); err != nil {
			return nil, fmt.Errorf("tessera: failed to parse atlas textures array: %w", err)
		}
		for i, tex := range textures {
			for name, f := range tex.Frames {
				regions[name] = f.region(i)
			}
		}
	case probe.Frames != nil:
		var frames map[string]jsonFrame
		if err := json.Unmarshal(probe.Frames, &frames); err != nil {
			return nil, fmt.Errorf("tessera: failed to parse atlas frames: %w", err)
		}
		for name, f := range frames {
			regions[name] = f.region(0)
		}
	default:
		return nil, fmt.Errorf("tessera: atlas JSON has neither \"frames\" nor \"textures\" key")
	}
	return regions, nil
}

type jsonRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type jsonSize struct {
	W int `json:"w"`
	H int `json:"h"`
}

type jsonFrame struct {
	Frame            jsonRect `json:"frame"`
	Rotated          bool     `json:"rotated"`
	Trimmed          bool     `json:"trimmed"`
	SpriteSourceSize jsonRect `json:"spriteSourceSize"`
	SourceSize       jsonSize `json:"sourceSize"`
}

type jsonTexturePage struct {
	Image  string               `json:"image"`
	Frames map[string]jsonFrame `json:"frames"`
}

func (f jsonFrame) region(page int) atlasRegion {
	r := atlasRegion{
		page:     page,
		frame:    image.Rect(f.Frame.X, f.Frame.Y, f.Frame.X+f.Frame.W, f.Frame.Y+f.Frame.H),
		original: image.Pt(f.SourceSize.W, f.SourceSize.H),
		offset:   image.Pt(f.SpriteSourceSize.X, f.SpriteSourceSize.Y),
		trimmed:  f.Trimmed,
		rotated:  f.Rotated,
	}
	if r.original == (image.Point{}) {
		r.original = r.frame.Size()
	}
	return r
}

// sprite cuts the region out of its page. Trimmed regions are padded back to
// their authored size so that sprites from one sheet keep a uniform size.
func (r atlasRegion) sprite(pages []*ebiten.Image) (*ebiten.Image, error) {
	if r.page >= len(pages) || pages[r.page] == nil {
		return nil, fmt.Errorf("tessera: atlas page %d: %w", r.page, ErrNullSurface)
	}
	if r.rotated {
		return nil, fmt.Errorf("tessera: rotated atlas regions are not supported")
	}
	sub := pages[r.page].SubImage(r.frame).(*ebiten.Image)
	if !r.trimmed || r.frame.Size() == r.original {
		return sub, nil
	}
	full := ebiten.NewImage(r.original.X, r.original.Y)
	var op ebiten.DrawImageOptions
	op.GeoM.Translate(float64(r.offset.X), float64(r.offset.Y))
	full.DrawImage(sub, &op)
	return full, nil
}
