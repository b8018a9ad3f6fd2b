package traits

import (
	"reflect"
	"strings"

	"github.com/neuronlabs/tvb/annotation"
)

// FieldTag is the key: values pair for the given field struct's tag.
type FieldTag struct {
	Key    string
	Values []string
	// Raw is the unsplit value of the tag.
	Raw string
}

// ExtractFieldTags extracts the []*FieldTag from the reflect struct field for given struct 'fieldTag'.
// The tag is defined as follows:
//
//	type Model struct {
//		Field string `tvb:"subtag=value1,value2;subtag2"`
//	}                 ^               ^      ^
//	              fieldTag   valueSeparator  tagSeparator
func ExtractFieldTags(field reflect.StructField, fieldTag string) []*FieldTag {
	tag, ok := field.Tag.Lookup(fieldTag)
	if !ok {
		return nil
	}
	return parseFieldTags(tag, annotation.TagSeparator, annotation.Separator)
}

func parseFieldTags(tag, tagSeparator, valuesSeparator string) []*FieldTag {
	if tag == annotation.Skip {
		return []*FieldTag{{Key: annotation.Skip}}
	}

	var (
		separators []int
		tags       []*FieldTag
		options    []string
	)
	tagSeparatorRune := []rune(tagSeparator)[0]

	// find all the not escaped separators
	for i, r := range tag {
		if i != 0 && r == tagSeparatorRune && tag[i-1] != '\\' {
			separators = append(separators, i)
		}
	}

	for i, sep := range separators {
		if i == 0 {
			options = append(options, tag[:sep])
		} else {
			options = append(options, tag[separators[i-1]+1:sep])
		}
		if i == len(separators)-1 {
			options = append(options, tag[sep+1:])
		}
	}
	if options == nil {
		options = append(options, tag)
	}

	for _, o := range options {
		o = strings.TrimSpace(strings.Replace(o, "\\"+tagSeparator, tagSeparator, -1))
		if o == "" {
			continue
		}
		var equalIndex int
		for i, r := range o {
			if r == '=' && i != 0 && o[i-1] != '\\' {
				equalIndex = i
				break
			}
		}

		ft := &FieldTag{}
		if equalIndex != 0 {
			ft.Key = strings.TrimSpace(o[:equalIndex])
			ft.Raw = strings.TrimSpace(o[equalIndex+1:])
			for _, v := range strings.Split(ft.Raw, valuesSeparator) {
				ft.Values = append(ft.Values, strings.TrimSpace(v))
			}
		} else {
			ft.Key = o
		}
		tags = append(tags, ft)
	}
	return tags
}
