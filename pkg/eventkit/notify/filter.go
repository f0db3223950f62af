package notify

// Filter narrows which notifications a handler receives. Each field is
// optional: an unset field matches anything, a set field must match
// exactly, and all set fields must match together. The zero Filter
// matches every notification.
type Filter struct {
	scope *string
	group *string
	level *Level
}

// FilterOption sets one field of a Filter.
type FilterOption func(*Filter)

// MatchScope requires an exact scope match.
func MatchScope(scope string) FilterOption {
	return func(f *Filter) {
		f.scope = &scope
	}
}

// MatchGroup requires an exact group match.
func MatchGroup(group string) FilterOption {
	return func(f *Filter) {
		f.group = &group
	}
}

// MatchLevel requires an exact level match.
func MatchLevel(level Level) FilterOption {
	return func(f *Filter) {
		f.level = &level
	}
}

// NewFilter creates a Filter. With no options it matches everything.
func NewFilter(opts ...FilterOption) Filter {
	var f Filter
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

// Equal reports whether two filters constrain the same fields to the
// same values.
func (f Filter) Equal(other Filter) bool {
	return equalPtr(f.scope, other.scope) &&
		equalPtr(f.group, other.group) &&
		equalPtr(f.level, other.level)
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Matches reports whether n satisfies every set field of the filter.
func (f Filter) Matches(n Notification) bool {
	if f.scope != nil && *f.scope != n.Scope {
		return false
	}
	if f.group != nil && *f.group != n.Group {
		return false
	}
	if f.level != nil && *f.level != n.Level {
		return false
	}
	return true
}
