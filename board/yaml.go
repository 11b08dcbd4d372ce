package board

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// File is the on-disk YAML form of a board.
type File struct {
	Colors int      `yaml:"colors"`
	Rows   []string `yaml:"rows"`
}

func LoadYAML(r io.Reader) (*Board, error) {
	var f File
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decoding board file: %w", err)
	}
	return FromRows(f.Rows, f.Colors)
}

func (b *Board) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(File{Colors: b.NColors(), Rows: b.Rows()})
}
