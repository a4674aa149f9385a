package hltv

import (
	"fmt"

	"hltv-ranking/pkg/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// Accessor reads the raw string value of a matched element.
type Accessor interface {
	Access(sel *goquery.Selection) (string, bool)
	// Attr names the attribute being read, it is empty for text.
	Attr() string
}

type textAccessor struct{}

func (textAccessor) Access(sel *goquery.Selection) (string, bool) {
	return htmlutil.NormalizeText(htmlutil.GetText(sel.Get(0))), true
}

func (textAccessor) Attr() string {
	return ""
}

type attrAccessor string

func (a attrAccessor) Access(sel *goquery.Selection) (string, bool) {
	return htmlutil.GetAttr(sel.Get(0), string(a))
}

func (a attrAccessor) Attr() string {
	return string(a)
}

// Text reads the normalized text content of an element.
func Text() Accessor {
	return textAccessor{}
}

// Attr reads the attribute `name` of an element, it is a StructureError for
// the attribute to be missing.
func Attr(name string) Accessor {
	return attrAccessor(name)
}

// Field describes where a single value lives on the page and how to convert it.
type Field[T any] struct {
	Selector string
	// Accessor defaults to Text().
	Accessor Accessor
	// Transform defaults to the identity, which is only valid for Field[string].
	Transform func(raw string) (T, error)
}

// Extract finds the first descendant of `scope` matching the field's selector
// and returns its converted value.
func Extract[T any](scope *goquery.Selection, field Field[T]) (T, error) {
	var zero T

	match := scope.Find(field.Selector).First()
	if match.Length() == 0 {
		return zero, &StructureError{Selector: field.Selector}
	}

	accessor := field.Accessor
	if accessor == nil {
		accessor = Text()
	}
	raw, ok := accessor.Access(match)
	if !ok {
		return zero, &StructureError{Selector: field.Selector, Attr: accessor.Attr()}
	}

	if field.Transform == nil {
		value, ok := any(raw).(T)
		if !ok {
			panic(fmt.Sprintf("field %q has no transform to %T", field.Selector, zero))
		}
		return value, nil
	}

	value, err := field.Transform(raw)
	if err != nil {
		return zero, &FieldError{Selector: field.Selector, Value: raw, Err: err}
	}
	return value, nil
}
