package document

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/starford/apiops/internal/apperr"
)

// FieldError reports a present field whose value could not be decoded.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %q: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// Is makes every FieldError match apperr.ErrDecode.
func (e *FieldError) Is(target error) bool { return target == apperr.ErrDecode }

// IsDecodeError reports whether err comes from a malformed document field.
func IsDecodeError(err error) bool {
	return errors.Is(err, apperr.ErrDecode)
}

type readState struct {
	strict  bool
	err     error
	readers []*Reader
}

// Reader decodes the fields of one object tree. Accessors return nil for absent
// keys; the first malformed field is kept and reported by Close, in the manner
// of bufio.Scanner.
type Reader struct {
	obj    *Object
	prefix string
	seen   map[string]struct{}
	state  *readState
}

// NewReader reads obj. In strict mode Close also fails on keys nobody asked for.
func NewReader(obj *Object, strict bool) *Reader {
	return newReader(obj, "", &readState{strict: strict})
}

func newReader(obj *Object, prefix string, state *readState) *Reader {
	r := &Reader{obj: obj, prefix: prefix, seen: make(map[string]struct{}), state: state}
	state.readers = append(state.readers, r)
	return r
}

func (r *Reader) field(key string) string {
	if r.prefix == "" {
		return key
	}
	return r.prefix + "." + key
}

func (r *Reader) record(field string, err error) {
	if r.state.err == nil {
		r.state.err = &FieldError{Field: field, Err: err}
	}
}

func (r *Reader) fail(key string, err error) {
	r.record(r.field(key), err)
}

// lookup returns the value under key. A JSON null counts as absent.
func (r *Reader) lookup(key string) (any, bool) {
	r.seen[key] = struct{}{}
	v, ok := r.obj.Get(key)
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// Err returns the first decode failure so far.
func (r *Reader) Err() error { return r.state.err }

// String returns the string under key, or nil.
func (r *Reader) String(key string) *string {
	v, ok := r.lookup(key)
	if !ok {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		r.fail(key, fmt.Errorf("expected string, found %s", kindOf(v)))
		return nil
	}
	return &s
}

// Bool returns the boolean under key, or nil.
func (r *Reader) Bool(key string) *bool {
	v, ok := r.lookup(key)
	if !ok {
		return nil
	}
	b, ok := v.(bool)
	if !ok {
		r.fail(key, fmt.Errorf("expected boolean, found %s", kindOf(v)))
		return nil
	}
	return &b
}

// URL returns the absolute URL under key, or nil.
func (r *Reader) URL(key string) *url.URL {
	s := r.String(key)
	if s == nil {
		return nil
	}
	u, err := url.Parse(*s)
	if err != nil {
		r.fail(key, err)
		return nil
	}
	if !u.IsAbs() {
		r.fail(key, fmt.Errorf("%q is not an absolute URL", *s))
		return nil
	}
	return u
}

// Object returns a reader over the nested object under key, or nil.
func (r *Reader) Object(key string) *Reader {
	v, ok := r.lookup(key)
	if !ok {
		return nil
	}
	obj, ok := v.(*Object)
	if !ok {
		r.fail(key, fmt.Errorf("expected object, found %s", kindOf(v)))
		return nil
	}
	return newReader(obj, r.field(key), r.state)
}

// Document returns the nested object under key as-is, or nil. Its keys are
// left to whoever decodes it next.
func (r *Reader) Document(key string) *Object {
	v, ok := r.lookup(key)
	if !ok {
		return nil
	}
	obj, ok := v.(*Object)
	if !ok {
		r.fail(key, fmt.Errorf("expected object, found %s", kindOf(v)))
		return nil
	}
	return obj
}

// Array returns the items under key. ok is false when the key is absent or malformed.
func (r *Reader) Array(key string) (items []any, ok bool) {
	v, present := r.lookup(key)
	if !present {
		return nil, false
	}
	arr, isArr := v.([]any)
	if !isArr {
		r.fail(key, fmt.Errorf("expected array, found %s", kindOf(v)))
		return nil, false
	}
	return arr, true
}

// StringItem reads item i of the array under key as a string.
func (r *Reader) StringItem(key string, i int, item any) (string, bool) {
	s, ok := item.(string)
	if !ok {
		r.ItemError(key, i, fmt.Errorf("expected string, found %s", kindOf(item)))
		return "", false
	}
	return s, true
}

// ItemError records err as a failure of item i of the array under key.
func (r *Reader) ItemError(key string, i int, err error) {
	r.record(fmt.Sprintf("%s[%d]", r.field(key), i), err)
}

// ParseField applies parse to the string under key, recording its error against the field.
func ParseField[T any](r *Reader, key string, parse func(string) (T, error)) *T {
	s := r.String(key)
	if s == nil {
		return nil
	}
	v, err := parse(*s)
	if err != nil {
		r.fail(key, err)
		return nil
	}
	return &v
}

// Close returns the first decode failure. In strict mode it then reports keys
// no accessor asked for, on this reader or any nested one.
func (r *Reader) Close() error {
	if r.state.err != nil || !r.state.strict {
		return r.state.err
	}
	for _, reader := range r.state.readers {
		if err := reader.unknownKeys(); err != nil {
			return err
		}
	}
	return nil
}

func (r *Reader) unknownKeys() error {
	var unknown []string
	for _, key := range r.obj.Keys() {
		if _, ok := r.seen[key]; !ok {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	slices.Sort(unknown)
	field := r.prefix
	if field == "" {
		field = "."
	}
	return &FieldError{Field: field, Err: fmt.Errorf("unknown keys: %s", strings.Join(unknown, ", "))}
}
