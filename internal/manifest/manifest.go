// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/invowk/deliver/pkg/cmdtree"
	"github.com/invowk/deliver/pkg/cueutil"
)

const (
	// FormatTOML is the TOML manifest format.
	FormatTOML Format = "toml"
	// FormatYAML is the YAML manifest format.
	FormatYAML Format = "yaml"
	// FormatCUE is the CUE manifest format.
	FormatCUE Format = "cue"
)

var (
	//go:embed manifest_schema.cue
	manifestSchema string

	// ErrUnsupportedFormat is returned for files whose extension is not a
	// known manifest format.
	ErrUnsupportedFormat = errors.New("unsupported manifest format")
	// ErrInvalidManifest is wrapped by ValidationErrors.
	ErrInvalidManifest = errors.New("invalid agent manifest")
	// ErrEmptyManifest is returned for a file with no content.
	ErrEmptyManifest = errors.New("empty agent manifest")
)

type (
	// Format is a manifest serialization format.
	Format string

	// Manifest describes one automation agent.
	Manifest struct {
		// Agent names the agent. It labels the agent's commands in choice
		// prompts.
		Agent       string `toml:"agent" yaml:"agent" json:"agent"`
		Description string `toml:"description" yaml:"description" json:"description,omitempty"`
		// DefaultConflict applies to commands without their own policy.
		DefaultConflict cmdtree.ResolutionKind `toml:"default_conflict" yaml:"default_conflict" json:"default_conflict,omitempty"`
		Commands        []Command              `toml:"commands" yaml:"commands" json:"commands,omitempty"`
		Intents         []Intent               `toml:"intents" yaml:"intents" json:"intents,omitempty"`

		// Path is the file the manifest was loaded from.
		Path string `toml:"-" yaml:"-" json:"-"`
	}

	// Command is a scripted command contributed by an agent.
	Command struct {
		Phrase      string                 `toml:"phrase" yaml:"phrase" json:"phrase"`
		Description string                 `toml:"description" yaml:"description" json:"description,omitempty"`
		Aliases     []string               `toml:"aliases" yaml:"aliases" json:"aliases,omitempty"`
		Conflict    cmdtree.ResolutionKind `toml:"conflict" yaml:"conflict" json:"conflict,omitempty"`
		// ChoiceLabel defaults to the agent name.
		ChoiceLabel string       `toml:"choice_label" yaml:"choice_label" json:"choice_label,omitempty"`
		Script      string       `toml:"script" yaml:"script" json:"script"`
		Options     []Option     `toml:"options" yaml:"options" json:"options,omitempty"`
		Positionals []Positional `toml:"positionals" yaml:"positionals" json:"positionals,omitempty"`
	}

	// Option is a named parameter of a command.
	Option struct {
		Name        string             `toml:"name" yaml:"name" json:"name"`
		Short       string             `toml:"short" yaml:"short" json:"short,omitempty"`
		Type        cmdtree.OptionType `toml:"type" yaml:"type" json:"type,omitempty"`
		Description string             `toml:"description" yaml:"description" json:"description,omitempty"`
		Default     string             `toml:"default" yaml:"default" json:"default,omitempty"`
		Required    bool               `toml:"required" yaml:"required" json:"required,omitempty"`
		Choices     []string           `toml:"choices" yaml:"choices" json:"choices,omitempty"`
	}

	// Positional refines a positional marker of the command phrase.
	Positional struct {
		Key         string   `toml:"key" yaml:"key" json:"key"`
		Description string   `toml:"description" yaml:"description" json:"description,omitempty"`
		Choices     []string `toml:"choices" yaml:"choices" json:"choices,omitempty"`
	}

	// Intent is a phrase the agent can answer, either with one of its
	// commands or with its own script. Several agents answering the same
	// intent make the user choose.
	Intent struct {
		Phrase      string `toml:"phrase" yaml:"phrase" json:"phrase"`
		Description string `toml:"description" yaml:"description" json:"description,omitempty"`
		// Command is the phrase of a command declared in the same manifest.
		Command string `toml:"command" yaml:"command" json:"command,omitempty"`
		Script  string `toml:"script" yaml:"script" json:"script,omitempty"`
	}
)

// FormatOf returns the manifest format for path, based on its extension.
func FormatOf(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, true
	case ".yaml", ".yml":
		return FormatYAML, true
	case ".cue":
		return FormatCUE, true
	default:
		return "", false
	}
}

// Load reads, decodes and validates the manifest at path.
func Load(path string) (*Manifest, error) {
	format, ok := FormatOf(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read agent manifest at %s: %w", path, err)
	}
	return Parse(data, format, path)
}

// Parse decodes and validates manifest content. name is used in error
// messages and recorded as the manifest Path.
func Parse(data []byte, format Format, name string) (*Manifest, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyManifest, name)
	}
	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, name); err != nil {
		return nil, err
	}

	m, err := decode(data, format, name)
	if err != nil {
		return nil, err
	}
	m.Path = name

	if errs := m.Validate(); len(errs) > 0 {
		return nil, errs
	}
	return m, nil
}

func decode(data []byte, format Format, name string) (*Manifest, error) {
	var m Manifest
	switch format {
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&m); err != nil {
			var strict *toml.StrictMissingError
			if errors.As(err, &strict) {
				return nil, fmt.Errorf("%s: unknown fields:\n%s", name, strict.String())
			}
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&m); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("%w: %s", ErrEmptyManifest, name)
			}
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	case FormatCUE:
		result, err := cueutil.ParseAndDecodeString[Manifest](manifestSchema, data, "#Manifest",
			cueutil.WithFilename(name),
		)
		if err != nil {
			return nil, err
		}
		m = *result.Value
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return &m, nil
}

// Command returns the command declared with phrase, or nil.
func (m *Manifest) Command(phrase string) *Command {
	want := strings.Join(strings.Fields(phrase), " ")
	for i := range m.Commands {
		if strings.Join(strings.Fields(m.Commands[i].Phrase), " ") == want {
			return &m.Commands[i]
		}
	}
	return nil
}

func (o Option) toOption() cmdtree.Option {
	return cmdtree.Option{
		Name:        o.Name,
		Short:       o.Short,
		Description: o.Description,
		Type:        o.Type,
		Default:     o.Default,
		Required:    o.Required,
		Choices:     o.Choices,
	}
}

func (p Positional) toPositional() cmdtree.Positional {
	return cmdtree.Positional{Key: p.Key, Description: p.Description, Choices: p.Choices}
}
