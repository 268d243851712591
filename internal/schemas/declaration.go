// Package schemas maps condition-class names to their database tables.
// Every trial points at experiment, behavior, and stimulus condition rows;
// the tables holding those rows depend on the class the session ran with
// (e.g. stimulus class Grating -> cond_grating). SCHEMAS.toml lets labs
// declare classes beyond the built-ins.
package schemas

import (
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// DeclarationFile is the default filename for condition-class declarations
const DeclarationFile = "SCHEMAS.toml"

// Kind identifies which schema a condition class belongs to
type Kind string

const (
	// Experiment classes parameterize trial structure
	Experiment Kind = "experiment"
	// Behavior classes parameterize response/reward handling
	Behavior Kind = "behavior"
	// Stimulus classes parameterize what was presented
	Stimulus Kind = "stimulus"
)

// ClassDeclaration maps one condition class to its table
type ClassDeclaration struct {
	// Class is the condition-class name as stored in the conditions table
	Class string `toml:"class"`

	// Table is the condition table holding the class parameters
	Table string `toml:"table"`

	// Children are optional parameter-group tables joined on the condition hash
	Children []string `toml:"children,omitempty"`
}

// File represents the root structure of SCHEMAS.toml
type File struct {
	Version    int                `toml:"version"`
	Experiment []ClassDeclaration `toml:"experiment"`
	Behavior   []ClassDeclaration `toml:"behavior"`
	Stimulus   []ClassDeclaration `toml:"stimulus"`
}

// Declarations provides class lookup across the three schemas
type Declarations struct {
	byKind map[Kind]map[string]ClassDeclaration
}

// UnknownClassError reports a lookup for a class with no declaration
type UnknownClassError struct {
	Kind  Kind
	Class string
}

func (e *UnknownClassError) Error() string {
	return fmt.Sprintf("cannot find %s class %q in schema declarations", e.Kind, e.Class)
}

// Defaults returns the built-in class declarations matching the tables
// created by storage.EnsureSchema.
func Defaults() *Declarations {
	f := &File{
		Version: 1,
		Experiment: []ClassDeclaration{
			{Class: "MatchToSample", Table: "cond_match_to_sample"},
		},
		Behavior: []ClassDeclaration{
			{Class: "MatchPort", Table: "cond_match_port"},
		},
		Stimulus: []ClassDeclaration{
			{Class: "Grating", Table: "cond_grating", Children: []string{"cond_grating_movie"}},
		},
	}
	return fromFile(f)
}

// Load reads SCHEMAS.toml from dir. A missing file yields the defaults;
// a present but unparseable file is an error.
func Load(dir string) (*Declarations, error) {
	return LoadFile(filepath.Join(dir, DeclarationFile))
}

// LoadFile reads a declaration file at an explicit path.
func LoadFile(path string) (*Declarations, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Defaults(), nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", DeclarationFile, err)
	}

	var f File
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", DeclarationFile, err)
	}
	if f.Version < 1 {
		f.Version = 1
	}

	// Declared classes extend the defaults rather than replace them.
	decls := Defaults()
	for kind, classes := range map[Kind][]ClassDeclaration{
		Experiment: f.Experiment,
		Behavior:   f.Behavior,
		Stimulus:   f.Stimulus,
	} {
		for _, c := range classes {
			if c.Class == "" || c.Table == "" {
				return nil, fmt.Errorf("%s: %s declaration needs both class and table", DeclarationFile, kind)
			}
			decls.byKind[kind][c.Class] = c
		}
	}
	return decls, nil
}

func fromFile(f *File) *Declarations {
	d := &Declarations{byKind: map[Kind]map[string]ClassDeclaration{
		Experiment: {},
		Behavior:   {},
		Stimulus:   {},
	}}
	for _, c := range f.Experiment {
		d.byKind[Experiment][c.Class] = c
	}
	for _, c := range f.Behavior {
		d.byKind[Behavior][c.Class] = c
	}
	for _, c := range f.Stimulus {
		d.byKind[Stimulus][c.Class] = c
	}
	return d
}

// Lookup returns the declaration for a class within a schema kind.
func (d *Declarations) Lookup(kind Kind, class string) (ClassDeclaration, error) {
	c, ok := d.byKind[kind][class]
	if !ok {
		return ClassDeclaration{}, &UnknownClassError{Kind: kind, Class: class}
	}
	return c, nil
}

// Classes returns the declared class names for a kind, for diagnostics.
func (d *Declarations) Classes(kind Kind) []string {
	var names []string
	for name := range d.byKind[kind] {
		names = append(names, name)
	}
	return names
}

// Save writes the declarations of a File to <dir>/SCHEMAS.toml.
func (f *File) Save(dir string) error {
	data, err := toml.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", DeclarationFile, err)
	}
	return os.WriteFile(filepath.Join(dir, DeclarationFile), data, 0644)
}
