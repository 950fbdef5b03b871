package document

import "net/url"

// The Put helpers skip absent values, so encoders never emit null.

// PutString sets key when v is not nil.
func (o *Object) PutString(key string, v *string) *Object {
	if v != nil {
		o.Set(key, *v)
	}
	return o
}

// PutBool sets key when v is not nil.
func (o *Object) PutBool(key string, v *bool) *Object {
	if v != nil {
		o.Set(key, *v)
	}
	return o
}

// PutURL sets key to the absolute form of v when v is not nil.
func (o *Object) PutURL(key string, v *url.URL) *Object {
	if v != nil {
		o.Set(key, v.String())
	}
	return o
}

// PutObject sets key when v is not nil.
func (o *Object) PutObject(key string, v *Object) *Object {
	if v != nil {
		o.Set(key, v)
	}
	return o
}

// PutArray sets key when items is not nil. An empty, non-nil slice is written as [].
func (o *Object) PutArray(key string, items []any) *Object {
	if items != nil {
		o.Set(key, items)
	}
	return o
}

// PutText sets key to the string form of a string-backed value such as an enum.
func PutText[T ~string](o *Object, key string, v *T) *Object {
	if v != nil {
		o.Set(key, string(*v))
	}
	return o
}

// TextArray converts a string-backed slice to document items. A nil slice stays nil.
func TextArray[T ~string](values []T) []any {
	if values == nil {
		return nil
	}
	items := make([]any, 0, len(values))
	for _, v := range values {
		items = append(items, string(v))
	}
	return items
}
