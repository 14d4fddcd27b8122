package domain

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Value holds either a scalar string or a sequence of strings. Catalog
// authors use both shapes for fields like correct and solution, so the type
// preserves whichever shape was written.
type Value struct {
	scalar string
	list   []string
	isList bool
	set    bool
}

// StringValue returns a scalar Value.
func StringValue(s string) Value {
	return Value{scalar: s, set: true}
}

// ListValue returns a sequence Value.
func ListValue(items ...string) Value {
	return Value{list: items, isList: true, set: true}
}

// IsSet reports whether the field was present at all.
func (v Value) IsSet() bool { return v.set }

// IsList reports whether the field held a sequence.
func (v Value) IsList() bool { return v.set && v.isList }

// Scalar returns the scalar form. For a sequence it returns the first
// element, which is what the alias-resolution rules expect.
func (v Value) Scalar() string {
	if !v.set {
		return ""
	}
	if v.isList {
		if len(v.list) == 0 {
			return ""
		}
		return v.list[0]
	}
	return v.scalar
}

// List returns the sequence form. A scalar is wrapped as a one-element list.
func (v Value) List() []string {
	if !v.set {
		return nil
	}
	if v.isList {
		return v.list
	}
	return []string{v.scalar}
}

// Clone returns a deep copy.
func (v Value) Clone() Value {
	c := v
	c.list = cloneStrings(v.list)
	return c
}

// UnmarshalYAML accepts either a scalar or a sequence node.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		*v = StringValue(s)
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := node.Decode(&items); err != nil {
			return err
		}
		*v = ListValue(items...)
		return nil
	default:
		return fmt.Errorf("value must be a scalar or a sequence, got %v", node.Kind)
	}
}

// MarshalYAML writes back the original shape.
func (v Value) MarshalYAML() (any, error) {
	if !v.set {
		return nil, nil
	}
	if v.isList {
		return v.list, nil
	}
	return v.scalar, nil
}

// UnmarshalJSON accepts either a string or an array of strings.
func (v *Value) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = StringValue(s)
		return nil
	}
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("value must be a string or string array: %w", err)
	}
	*v = ListValue(items...)
	return nil
}

// MarshalJSON writes back the original shape; an unset value encodes as null.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.set {
		return []byte("null"), nil
	}
	if v.isList {
		return json.Marshal(v.list)
	}
	return json.Marshal(v.scalar)
}

// IsZero lets yaml omitempty skip unset values.
func (v Value) IsZero() bool { return !v.set }
