package domain

import (
	"sort"

	"gopkg.in/yaml.v3"
)

// LevelMeta is the display metadata attached to a level.
type LevelMeta struct {
	LevelName   string `yaml:"levelName,omitempty" json:"levelName,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Animal      string `yaml:"animal,omitempty" json:"animal,omitempty"`
	Icon        string `yaml:"icon,omitempty" json:"icon,omitempty"`
	Color       string `yaml:"color,omitempty" json:"color,omitempty"`
	Stars       int    `yaml:"stars,omitempty" json:"stars,omitempty"`

	// TotalStages is filled in by the stage resolver, never authored.
	TotalStages int `yaml:"-" json:"totalStages,omitempty"`
}

// StageMeta is the display metadata attached to one subtype stage.
type StageMeta struct {
	Title string `yaml:"title,omitempty" json:"title,omitempty"`
	Goal  string `yaml:"goal,omitempty" json:"goal,omitempty"`
}

// LevelDefinition is one level's content: an ordered set of subtype buckets,
// each holding the exercises for one stage.
type LevelDefinition struct {
	Order     []string               `yaml:"order,omitempty" json:"order,omitempty"`
	Subtypes  map[string][]*Exercise `yaml:"subtypes" json:"subtypes"`
	Meta      LevelMeta              `yaml:"meta,omitempty" json:"meta,omitempty"`
	StageMeta map[string]StageMeta   `yaml:"stageMeta,omitempty" json:"stageMeta,omitempty"`

	// subtypeKeys preserves the authoring order of the subtypes mapping so
	// a derived stage order is deterministic when order is absent.
	subtypeKeys []string
}

// SubtypeOrder returns the stage order: the explicit order list if present,
// else the subtype keys in authoring order, else the keys sorted.
func (d *LevelDefinition) SubtypeOrder() []string {
	if len(d.Order) > 0 {
		return d.Order
	}
	if len(d.subtypeKeys) > 0 {
		return d.subtypeKeys
	}
	keys := make([]string, 0, len(d.Subtypes))
	for k := range d.Subtypes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SetSubtypeKeys fixes the derived stage order for definitions built in code
// rather than decoded from YAML.
func (d *LevelDefinition) SetSubtypeKeys(keys []string) {
	d.subtypeKeys = cloneStrings(keys)
}

// UnmarshalYAML decodes the definition and captures the authoring order of
// the subtypes mapping keys, which plain map decoding would lose.
func (d *LevelDefinition) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		Order     []string               `yaml:"order"`
		Subtypes  map[string][]*Exercise `yaml:"subtypes"`
		Meta      LevelMeta              `yaml:"meta"`
		StageMeta map[string]StageMeta   `yaml:"stageMeta"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	d.Order = raw.Order
	d.Subtypes = raw.Subtypes
	d.Meta = raw.Meta
	d.StageMeta = raw.StageMeta
	d.subtypeKeys = nil

	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value != "subtypes" {
			continue
		}
		mapping := node.Content[i+1]
		if mapping.Kind != yaml.MappingNode {
			break
		}
		for j := 0; j+1 < len(mapping.Content); j += 2 {
			d.subtypeKeys = append(d.subtypeKeys, mapping.Content[j].Value)
		}
	}
	return nil
}

// Clone returns a deep copy of the whole definition.
func (d *LevelDefinition) Clone() *LevelDefinition {
	if d == nil {
		return nil
	}
	c := &LevelDefinition{
		Order:       cloneStrings(d.Order),
		Meta:        d.Meta,
		subtypeKeys: cloneStrings(d.subtypeKeys),
	}
	if d.Subtypes != nil {
		c.Subtypes = make(map[string][]*Exercise, len(d.Subtypes))
		for key, list := range d.Subtypes {
			cloned := make([]*Exercise, len(list))
			for i, ex := range list {
				cloned[i] = ex.Clone()
			}
			c.Subtypes[key] = cloned
		}
	}
	if d.StageMeta != nil {
		c.StageMeta = make(map[string]StageMeta, len(d.StageMeta))
		for key, meta := range d.StageMeta {
			c.StageMeta[key] = meta
		}
	}
	return c
}
