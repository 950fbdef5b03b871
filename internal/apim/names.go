package apim

import (
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/apiops/internal/apperr"
)

var nameRules = []validation.Rule{
	validation.Required.Error("cannot be empty or whitespace"),
}

func validateName(kind, value string) error {
	if err := validation.Validate(strings.TrimSpace(value), nameRules...); err != nil {
		return fmt.Errorf("%w: %s name %v", apperr.ErrInvalidName, kind, err)
	}
	return nil
}

// APIName identifies one API. It doubles as the directory name of the API.
type APIName struct {
	value string
}

// NewAPIName validates value and wraps it.
func NewAPIName(value string) (APIName, error) {
	if err := validateName("api", value); err != nil {
		return APIName{}, err
	}
	return APIName{value: value}, nil
}

// MustAPIName is NewAPIName for names known to be valid. It panics otherwise.
func MustAPIName(value string) APIName {
	name, err := NewAPIName(value)
	if err != nil {
		panic(err)
	}
	return name
}

func (n APIName) String() string { return n.value }

// IsZero reports whether n was never constructed.
func (n APIName) IsZero() bool { return n.value == "" }

// VersionSetName identifies one API version set.
type VersionSetName struct {
	value string
}

// NewVersionSetName validates value and wraps it.
func NewVersionSetName(value string) (VersionSetName, error) {
	if err := validateName("version set", value); err != nil {
		return VersionSetName{}, err
	}
	return VersionSetName{value: value}, nil
}

// MustVersionSetName is NewVersionSetName for names known to be valid.
func MustVersionSetName(value string) VersionSetName {
	name, err := NewVersionSetName(value)
	if err != nil {
		panic(err)
	}
	return name
}

func (n VersionSetName) String() string { return n.value }

// IsZero reports whether n was never constructed.
func (n VersionSetName) IsZero() bool { return n.value == "" }
