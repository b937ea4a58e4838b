package theme

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"

	"go-vj/modulation"
)

// Palette is an ordered list of colours sampled by position
type Palette struct {
	Name   string
	Colors []modulation.RGB
}

// LoadGPL reads a GIMP palette file
func LoadGPL(path string) (*Palette, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	p, err := ParseGPL(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// ParseGPL parses GIMP palette text
func ParseGPL(r io.Reader) (*Palette, error) {
	p := &Palette{}
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if strings.HasPrefix(line, "Name:") {
			p.Name = strings.TrimSpace(strings.TrimPrefix(line, "Name:"))
			continue
		}

		// Skip headers and comments
		if line == "" || line[0] == '#' || strings.HasPrefix(line, "GIMP") || strings.HasPrefix(line, "Columns") {
			continue
		}

		// first 3 fields are R G B
		fields := strings.Fields(line)
		if len(fields) >= 3 {
			r, err1 := strconv.Atoi(fields[0])
			g, err2 := strconv.Atoi(fields[1])
			b, err3 := strconv.Atoi(fields[2])
			if err1 == nil && err2 == nil && err3 == nil {
				p.Colors = append(p.Colors, modulation.RGB{clampByte(r), clampByte(g), clampByte(b)})
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(p.Colors) == 0 {
		return nil, fmt.Errorf("no colors found in palette")
	}
	return p, nil
}

func clampByte(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// Gradient builds an n-colour palette blending through stops in HCL space
func Gradient(name string, n int, stops ...uint32) *Palette {
	p := &Palette{Name: name}
	if len(stops) == 0 || n < 1 {
		return p
	}
	if len(stops) == 1 || n == 1 {
		for i := 0; i < n; i++ {
			p.Colors = append(p.Colors, modulation.Hex(stops[0]))
		}
		return p
	}

	cs := make([]colorful.Color, len(stops))
	for i, s := range stops {
		c := modulation.Hex(s)
		cs[i] = colorful.Color{R: float64(c[0]) / 255, G: float64(c[1]) / 255, B: float64(c[2]) / 255}
	}
	for i := 0; i < n; i++ {
		pos := float64(i) / float64(n-1) * float64(len(cs)-1)
		j := int(pos)
		if j >= len(cs)-1 {
			j = len(cs) - 2
		}
		c := cs[j].BlendHcl(cs[j+1], pos-float64(j)).Clamped()
		r, g, b := c.RGB255()
		p.Colors = append(p.Colors, modulation.RGB{r, g, b})
	}
	return p
}

// Built-in palettes
var builtins = map[string]func() *Palette{
	"plasma": func() *Palette {
		return Gradient("plasma", 16, 0x0d0887, 0x6a00a8, 0xb12a90, 0xe16462, 0xfca636, 0xf0f921)
	},
	"mono": func() *Palette {
		return Gradient("mono", 16, 0x101010, 0xf0f0f0)
	},
	"ice": func() *Palette {
		return Gradient("ice", 16, 0x03045e, 0x0077b6, 0x00b4d8, 0xcaf0f8)
	},
}

// Builtin returns a built-in palette by name
func Builtin(name string) (*Palette, bool) {
	f, ok := builtins[strings.ToLower(name)]
	if !ok {
		return nil, false
	}
	return f(), true
}

// LoadPalette resolves a theme setting: a .gpl path or a built-in name
func LoadPalette(name string) (*Palette, error) {
	if strings.HasSuffix(strings.ToLower(name), ".gpl") {
		return LoadGPL(name)
	}
	if p, ok := Builtin(name); ok {
		return p, nil
	}
	return nil, fmt.Errorf("unknown palette %q", name)
}

// Lookup returns interpolated color for normalized value 0-1
func (p *Palette) Lookup(norm float64) modulation.RGB {
	if !(norm > 0) || len(p.Colors) == 1 { // NaN too
		return p.Colors[0]
	}
	if norm >= 1 {
		return p.Colors[len(p.Colors)-1]
	}

	pos := norm * float64(len(p.Colors)-1)
	i := int(pos)
	frac := pos - float64(i)

	c0 := p.Colors[i]
	c1 := p.Colors[i+1]

	return modulation.RGB{
		lerp(c0[0], c1[0], frac),
		lerp(c0[1], c1[1], frac),
		lerp(c0[2], c1[2], frac),
	}
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(a)*(1-t) + float64(b)*t)
}

// Index returns color at specific index (no interpolation)
func (p *Palette) Index(i int) modulation.RGB {
	if i < 0 {
		return p.Colors[0]
	}
	if i >= len(p.Colors) {
		return p.Colors[len(p.Colors)-1]
	}
	return p.Colors[i]
}
