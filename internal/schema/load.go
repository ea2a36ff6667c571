package schema

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// File is an on-disk override of the built-in field mappings.
type File struct {
	Stops    Mapping `yaml:"stops" validate:"required,min=1,dive"`
	Vehicles Mapping `yaml:"vehicles" validate:"required,min=1,dive"`
}

// Load reads and validates a mapping file. Validation happens here, at
// load time, so a malformed mapping fails before any record is touched.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load schema: read %q: %w", path, err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("load schema: parse %q: %w", path, err)
	}

	if err := Validate(&f); err != nil {
		return nil, fmt.Errorf("load schema: %q: %w", path, err)
	}
	return &f, nil
}

// Validate checks a mapping file for structural problems: empty
// mappings, unnamed fields and duplicate targets.
func Validate(f *File) error {
	v := validator.New()
	if err := v.Struct(f); err != nil {
		return err
	}
	for name, m := range map[string]Mapping{"stops": f.Stops, "vehicles": f.Vehicles} {
		seen := make(map[string]struct{}, len(m))
		for _, fm := range m {
			if _, ok := seen[fm.Target]; ok {
				return fmt.Errorf("%s mapping: duplicate target %q", name, fm.Target)
			}
			seen[fm.Target] = struct{}{}
		}
	}
	return nil
}

// Default returns the built-in mappings used when no override file is
// configured.
func Default() *File {
	return &File{Stops: DefaultStopMapping(), Vehicles: DefaultVehicleMapping()}
}
