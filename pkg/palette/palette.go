// Package palette maps color names from the CRM vocabulary to display hex
// codes. The table is plain data embedded from palette.yaml.
package palette

import (
	_ "embed"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/maryline/catalogsync/pkg/errors"
)

//go:embed palette.yaml
var defaultData []byte

// Palette is a read-only color name to hex table.
type Palette struct {
	exact  map[string]string
	folded map[string]string
}

// Parse builds a palette from YAML mapping names to hex codes.
func Parse(data []byte) (*Palette, error) {
	var entries map[string]string
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, errors.WrapParse("yaml", "palette", err)
	}
	p := &Palette{
		exact:  make(map[string]string, len(entries)),
		folded: make(map[string]string, len(entries)),
	}
	for name, hex := range entries {
		p.exact[name] = hex
		key := fold(name)
		if _, taken := p.folded[key]; !taken {
			p.folded[key] = hex
		}
	}
	return p, nil
}

// Default returns the embedded palette.
func Default() *Palette {
	p, err := Parse(defaultData)
	if err != nil {
		panic("palette: embedded palette.yaml is invalid: " + err.Error())
	}
	return p
}

// Lookup returns the hex code for name. ok is false for unknown names.
func (p *Palette) Lookup(name string) (hex string, ok bool) {
	if p == nil {
		return "", false
	}
	if hex, ok = p.exact[name]; ok {
		return hex, true
	}
	hex, ok = p.folded[fold(name)]
	return hex, ok
}

// Len returns the number of entries.
func (p *Palette) Len() int {
	if p == nil {
		return 0
	}
	return len(p.exact)
}

func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
