// Package artwork derives the viewer's colors from the cover art embedded
// in an audio file.
package artwork

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"
	"sort"

	"github.com/EdlinOrg/prominentcolor"
	"github.com/dhowden/tag"
	"github.com/nfnt/resize"
)

const thumbnailSize = 96

var ErrNoArtwork = errors.New("no embedded artwork")

type Palette struct {
	// Primary highlights the current line.
	Primary string
	// Accent marks the upcoming line.
	Accent string
	// Secondary is used for the header.
	Secondary string
	// Dim is used for past and far-future lines.
	Dim string
}

func DefaultPalette() *Palette {
	return &Palette{
		Primary:   "#8BA4E8",
		Accent:    "#B8A8E8",
		Secondary: "#E8A4C8",
		Dim:       "#6272A4",
	}
}

// FromFile reads the embedded cover of an audio file and decodes it.
func FromFile(audioPath string) (image.Image, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read tags: %w", err)
	}

	pic := m.Picture()
	if pic == nil || len(pic.Data) == 0 {
		return nil, ErrNoArtwork
	}

	return Decode(pic.Data)
}

func Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode artwork: %w", err)
	}
	return img, nil
}

// PaletteFor returns the palette for an audio file, falling back to the
// default when it has no usable cover.
func PaletteFor(audioPath string) *Palette {
	img, err := FromFile(audioPath)
	if err != nil {
		return DefaultPalette()
	}
	return ExtractPalette(img)
}

type swatch struct {
	r, g, b    uint32
	sat        float64
	brightness float64
}

func newSwatch(c prominentcolor.ColorItem) swatch {
	r := float64(c.Color.R) / 255.0
	g := float64(c.Color.G) / 255.0
	b := float64(c.Color.B) / 255.0

	hi := math.Max(math.Max(r, g), b)
	lo := math.Min(math.Min(r, g), b)

	var sat float64
	if hi > 0 {
		sat = (hi - lo) / hi
	}

	return swatch{r: c.Color.R, g: c.Color.G, b: c.Color.B, sat: sat, brightness: hi}
}

// score favours saturated colors of medium brightness
func (s swatch) score() float64 {
	return s.sat * (1.0 - math.Abs(s.brightness-0.6))
}

func ExtractPalette(img image.Image) *Palette {
	if img == nil {
		return DefaultPalette()
	}

	thumb := resize.Thumbnail(thumbnailSize, thumbnailSize, img, resize.Bilinear)

	items, err := prominentcolor.KmeansWithAll(4, thumb, prominentcolor.ArgumentNoCropping, prominentcolor.DefaultSize, nil)
	if err != nil || len(items) == 0 {
		return DefaultPalette()
	}

	swatches := make([]swatch, len(items))
	for i, item := range items {
		swatches[i] = newSwatch(item)
	}

	sort.SliceStable(swatches, func(i, j int) bool {
		return swatches[i].score() > swatches[j].score()
	})

	def := DefaultPalette()
	p := &Palette{
		Primary:   boost(swatches[0]),
		Accent:    def.Accent,
		Secondary: def.Secondary,
		Dim:       def.Dim,
	}
	if len(swatches) > 1 {
		p.Accent = boost(swatches[1])
	}
	if len(swatches) > 2 {
		p.Secondary = boost(swatches[2])
	}
	p.Dim = dim(swatches[0])

	return p
}

// boost lifts dark colors and mutes very bright ones so text stays legible
// on a dark terminal.
func boost(s swatch) string {
	r, g, b := s.r, s.g, s.b

	if s.brightness < 0.4 {
		factor := 2.5
		if s.brightness > 0 {
			factor = math.Min(2.5, 0.4/s.brightness)
		}
		r = uint32(math.Min(255, float64(r)*factor))
		g = uint32(math.Min(255, float64(g)*factor))
		b = uint32(math.Min(255, float64(b)*factor))
		if s.brightness == 0 {
			r, g, b = 0x66, 0x66, 0x66
		}
	}

	if s.brightness > 0.85 {
		avg := float64(r+g+b) / 3
		r = uint32(avg + (float64(r)-avg)*0.7)
		g = uint32(avg + (float64(g)-avg)*0.7)
		b = uint32(avg + (float64(b)-avg)*0.7)
	}

	return hex(r, g, b)
}

// dim mixes a color halfway to mid grey.
func dim(s swatch) string {
	mix := func(v uint32) uint32 {
		return (v + 0x60) / 2
	}
	return hex(mix(s.r), mix(s.g), mix(s.b))
}

func hex(r, g, b uint32) string {
	return fmt.Sprintf("#%02X%02X%02X", min(r, 255), min(g, 255), min(b, 255))
}
