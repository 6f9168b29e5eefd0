package kiln

import (
	"encoding/json"
	"fmt"
)

// Atlas maps sprite names to clip rectangles inside one sprite-sheet
// Renderable.
type Atlas struct {
	Sheet *Renderable
	clips map[string]Rect
}

// NewAtlas creates an atlas over sheet with the given named clips.
func NewAtlas(sheet *Renderable, clips map[string]Rect) *Atlas {
	a := &Atlas{Sheet: sheet, clips: make(map[string]Rect, len(clips))}
	for name, r := range clips {
		a.clips[name] = r
	}
	return a
}

// Clip returns the named clip rectangle.
func (a *Atlas) Clip(name string) (Rect, bool) {
	r, ok := a.clips[name]
	return r, ok
}

// Len returns the number of named clips.
func (a *Atlas) Len() int { return len(a.clips) }

// Render draws the named clip at pos.
func (a *Atlas) Render(dst Presenter, name string, pos Point) error {
	r, ok := a.clips[name]
	if !ok {
		return fmt.Errorf("kiln: atlas clip %q not found", name)
	}
	return a.Sheet.Render(dst, pos, &r)
}

// LoadAtlas parses TexturePacker JSON for a single sheet. Both the hash
// format (a "frames" object) and the array format (a "textures" list whose
// first page is used) are accepted.
func LoadAtlas(jsonData []byte, sheet *Renderable) (*Atlas, error) {
	var head struct {
		Frames   json.RawMessage `json:"frames"`
		Textures json.RawMessage `json:"textures"`
	}
	if err := json.Unmarshal(jsonData, &head); err != nil {
		return nil, fmt.Errorf("kiln: failed to parse atlas JSON: %w", err)
	}

	var frames map[string]jsonFrame
	switch {
	case head.Textures != nil:
		var pages []jsonTexturePage
		if err := json.Unmarshal(head.Textures, &pages); err != nil {
			return nil, fmt.Errorf("kiln: failed to parse atlas textures array: %w", err)
		}
		if len(pages) == 0 {
			return nil, fmt.Errorf("kiln: atlas textures array is empty")
		}
		frames = pages[0].Frames
	case head.Frames != nil:
		if err := json.Unmarshal(head.Frames, &frames); err != nil {
			return nil, fmt.Errorf("kiln: failed to parse atlas frames: %w", err)
		}
	default:
		return nil, fmt.Errorf("kiln: atlas JSON has neither \"frames\" nor \"textures\" key")
	}

	a := &Atlas{Sheet: sheet, clips: make(map[string]Rect, len(frames))}
	for name, f := range frames {
		a.clips[name] = Rect{f.Frame.X, f.Frame.Y, f.Frame.W, f.Frame.H}
	}
	return a, nil
}

type jsonRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type jsonFrame struct {
	Frame jsonRect `json:"frame"`
}

type jsonTexturePage struct {
	Image  string               `json:"image"`
	Frames map[string]jsonFrame `json:"frames"`
}
