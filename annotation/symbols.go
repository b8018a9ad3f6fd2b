package annotation

const (
	// TagSeparator is the separator for the tvb struct tag subtags.
	TagSeparator = ";"
	// Separator is the separator for the subtag values.
	Separator = ","
	// Skip is the tag value used to omit the field.
	Skip = "-"
)
