package decoder

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/marinelog/decoder/internal/models"
)

// SymbolTable maps vendor icon codes to symbol names. Binary formats store
// icons as small integers; GPX carries symbol names directly and bypasses
// the table. Garmin's binary archive stores no icon codes, so it has no map
// here.
type SymbolTable struct {
	Lowrance   map[uint8]string `yaml:"lowrance"`
	Humminbird map[uint8]string `yaml:"humminbird"`
	Raymarine  map[uint8]string `yaml:"raymarine"`
}

// DefaultSymbolTable returns the built-in icon mappings observed across
// vendor exports.
func DefaultSymbolTable() *SymbolTable {
	return &SymbolTable{
		Lowrance: map[uint8]string{
			0:  "Cross",
			1:  "Dot",
			2:  "Diamond",
			3:  "Fish",
			4:  "Anchor",
			5:  "Gas",
			6:  "Danger",
			7:  "Buoy",
			8:  "Rock",
			9:  "Weed",
			10: "Shallow Water",
		},
		Humminbird: map[uint8]string{
			0: "Flag",
			1: "Fish - Small",
			2: "Fish - Medium",
			3: "Fish - Large",
			4: "Anchor",
			5: "Buoy",
			6: "Rock",
			7: "Stump",
			8: "Brush Pile",
			9: "Dock",
		},
		Raymarine: map[uint8]string{
			0: "Square",
			1: "Circle",
			2: "Triangle",
			3: "Fish",
			4: "Anchor",
			5: "Wreck",
			6: "Rock",
			7: "Buoy",
			8: "Danger",
			9: "Mooring",
		},
	}
}

// Lookup resolves an icon code for the given vendor, returning "" when the
// code is unknown.
func (t *SymbolTable) Lookup(device models.Device, code uint8) string {
	if t == nil {
		return ""
	}
	switch device {
	case models.DeviceLowrance:
		return t.Lowrance[code]
	case models.DeviceHumminbird:
		return t.Humminbird[code]
	case models.DeviceRaymarine:
		return t.Raymarine[code]
	}
	return ""
}

// ParseSymbolTable parses a YAML symbol-table overlay and merges it over
// the built-in table, so a file only needs to list the codes it changes.
func ParseSymbolTable(data []byte) (*SymbolTable, error) {
	var overlay SymbolTable
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return nil, fmt.Errorf("parsing symbol table YAML: %w", err)
	}
	table := DefaultSymbolTable()
	mergeSymbolMap(table.Lowrance, overlay.Lowrance)
	mergeSymbolMap(table.Humminbird, overlay.Humminbird)
	mergeSymbolMap(table.Raymarine, overlay.Raymarine)
	return table, nil
}

// ParseSymbolTableFromReader parses a YAML symbol table from a reader.
func ParseSymbolTableFromReader(r io.Reader) (*SymbolTable, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading symbol table: %w", err)
	}
	return ParseSymbolTable(data)
}

// LoadSymbolTable reads a YAML symbol table from disk. The decode path
// itself never touches the file system; this is a configuration helper for
// callers such as the CLI.
func LoadSymbolTable(path string) (*SymbolTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading symbol table file: %w", err)
	}
	return ParseSymbolTable(data)
}

func mergeSymbolMap(dst, src map[uint8]string) {
	for code, name := range src {
		dst[code] = name
	}
}
