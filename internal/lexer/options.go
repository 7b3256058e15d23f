package lexer

import (
	"strings"
)

// PropertyType is the value kind of a lexer property.
type PropertyType int

const (
	PropertyBool PropertyType = iota
	PropertyInt
	PropertyString
)

func (t PropertyType) String() string {
	switch t {
	case PropertyBool:
		return "boolean"
	case PropertyInt:
		return "integer"
	case PropertyString:
		return "string"
	}
	return "unknown"
}

type option struct {
	kind        PropertyType
	description string
	value       string
	set         func(value string) bool
}

// OptionSet binds property names to fields of a lexer's options struct.
// Booleans and integers parse like C atoi: leading whitespace, an optional
// sign and digits, anything else reads as 0.
type OptionSet struct {
	names     []string
	options   map[string]*option
	wordLists []string
}

func NewOptionSet() *OptionSet {
	return &OptionSet{options: map[string]*option{}}
}

func (o *OptionSet) define(name string, opt *option) {
	if _, exists := o.options[name]; !exists {
		o.names = append(o.names, name)
	}
	o.options[name] = opt
}

// DefineBool binds name to *target.
func (o *OptionSet) DefineBool(name string, target *bool, description string) {
	o.define(name, &option{
		kind:        PropertyBool,
		description: description,
		set: func(value string) bool {
			v := Atoi(value) != 0
			if *target == v {
				return false
			}
			*target = v
			return true
		},
	})
}

// DefineInt binds name to *target.
func (o *OptionSet) DefineInt(name string, target *int, description string) {
	o.define(name, &option{
		kind:        PropertyInt,
		description: description,
		set: func(value string) bool {
			v := Atoi(value)
			if *target == v {
				return false
			}
			*target = v
			return true
		},
	})
}

// DefineString binds name to *target.
func (o *OptionSet) DefineString(name string, target *string, description string) {
	o.define(name, &option{
		kind:        PropertyString,
		description: description,
		set: func(value string) bool {
			if *target == value {
				return false
			}
			*target = value
			return true
		},
	})
}

// DefineWordListSets records the descriptions of the keyword slots.
func (o *OptionSet) DefineWordListSets(descriptions []string) {
	o.wordLists = descriptions
}

// PropertySet applies value to a known property and reports whether the
// bound field changed. Unknown names report false.
func (o *OptionSet) PropertySet(name, value string) bool {
	opt, ok := o.options[name]
	if !ok {
		return false
	}
	opt.value = value
	return opt.set(value)
}

// PropertyGet returns the last value set for name, or "".
func (o *OptionSet) PropertyGet(name string) string {
	if opt, ok := o.options[name]; ok {
		return opt.value
	}
	return ""
}

// Has reports whether name is a known property.
func (o *OptionSet) Has(name string) bool {
	_, ok := o.options[name]
	return ok
}

// Names returns the property names in definition order.
func (o *OptionSet) Names() []string {
	return append([]string(nil), o.names...)
}

// PropertyNames returns the property names separated by newlines.
func (o *OptionSet) PropertyNames() string {
	return strings.Join(o.names, "\n")
}

// PropertyType returns the kind of name; unknown names are booleans.
func (o *OptionSet) PropertyType(name string) PropertyType {
	if opt, ok := o.options[name]; ok {
		return opt.kind
	}
	return PropertyBool
}

func (o *OptionSet) DescribeProperty(name string) string {
	if opt, ok := o.options[name]; ok {
		return opt.description
	}
	return ""
}

// DescribeWordListSets returns the keyword slot descriptions separated by
// newlines.
func (o *OptionSet) DescribeWordListSets() string {
	return strings.Join(o.wordLists, "\n")
}

// WordListDescriptions returns the keyword slot descriptions.
func (o *OptionSet) WordListDescriptions() []string {
	return append([]string(nil), o.wordLists...)
}

// Atoi parses the leading integer of s the way C atoi does.
func Atoi(s string) int {
	i := 0
	for i < len(s) && (s[i] == ' ' || (s[i] >= '\t' && s[i] <= '\r')) {
		i++
	}
	neg := false
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		neg = s[i] == '-'
		i++
	}
	n := 0
	for ; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		n = n*10 + int(s[i]-'0')
		if n > 1<<31 {
			n = 1 << 31
		}
	}
	if neg {
		return -n
	}
	return n
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
