package define

type mappingKind int

const (
	mappingIdentity mappingKind = iota
	mappingTransform
	mappingFixed
	mappingFixedList
)

// Mapping is a rewrite policy for ids, dependency lists or require targets.
// The zero value is Identity.
type Mapping struct {
	kind   mappingKind
	fn     func(string) string
	value  string
	values []string
}

// Identity leaves every value unchanged.
func Identity() Mapping {
	return Mapping{}
}

// Transform maps every string through fn. A nil fn is Identity.
func Transform(fn func(string) string) Mapping {
	if fn == nil {
		return Identity()
	}
	return Mapping{kind: mappingTransform, fn: fn}
}

// Fixed replaces a single value, or a whole dependency list by [value].
func Fixed(value string) Mapping {
	return Mapping{kind: mappingFixed, value: value}
}

// FixedList replaces a whole dependency list. Applied to a single string it
// leaves the string unchanged.
func FixedList(values []string) Mapping {
	return Mapping{kind: mappingFixedList, values: append([]string{}, values...)}
}

// Alias maps keys found in table to their value and passes every other string
// through unchanged.
func Alias(table map[string]string) Mapping {
	if len(table) == 0 {
		return Identity()
	}
	aliases := make(map[string]string, len(table))
	for key, value := range table {
		aliases[key] = value
	}
	return Transform(func(value string) string {
		if alias, ok := aliases[value]; ok {
			return alias
		}
		return value
	})
}

// Suffix appends suffix to every string, e.g. "-debug".
func Suffix(suffix string) Mapping {
	if suffix == "" {
		return Identity()
	}
	return Transform(func(value string) string {
		return value + suffix
	})
}

// IsIdentity reports whether m changes nothing.
func (m Mapping) IsIdentity() bool {
	return m.kind == mappingIdentity
}

// Apply maps one string.
func (m Mapping) Apply(value string) string {
	switch m.kind {
	case mappingTransform:
		return m.fn(value)
	case mappingFixed:
		return m.value
	default:
		return value
	}
}

// ApplyList maps a dependency list. The result never aliases values.
func (m Mapping) ApplyList(values []string) []string {
	switch m.kind {
	case mappingTransform:
		mapped := make([]string, len(values))
		for i, value := range values {
			mapped[i] = m.fn(value)
		}
		return mapped
	case mappingFixed:
		return []string{m.value}
	case mappingFixedList:
		return append([]string{}, m.values...)
	default:
		return append([]string{}, values...)
	}
}
