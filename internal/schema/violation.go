package schema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ViolationKind classifies the first schema violation found in a definition.
type ViolationKind string

const (
	KindRequired ViolationKind = "required"
	KindType     ViolationKind = "type"
	KindEnum     ViolationKind = "enum"
	KindOther    ViolationKind = "other"
)

// Violation is a schema failure rendered for test authors.
type Violation struct {
	Kind    ViolationKind
	Field   string
	Message string
	Err     error
}

func (v *Violation) Error() string { return v.Message }

func (v *Violation) Unwrap() error { return v.Err }

var printer = message.NewPrinter(language.English)

func describe(err error) *Violation {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return &Violation{Kind: KindOther, Message: "validation error: " + err.Error(), Err: err}
	}

	leaf := firstLeaf(ve)
	field := strings.Join(leaf.InstanceLocation, ".")
	name := field
	if name == "" {
		name = "(root)"
	}

	switch k := leaf.ErrorKind.(type) {
	case *kind.Required:
		missing := ""
		if len(k.Missing) > 0 {
			missing = k.Missing[0]
		}
		if field != "" {
			missing = field + "." + missing
		}
		return &Violation{
			Kind:    KindRequired,
			Field:   missing,
			Message: fmt.Sprintf("required field '%s' is missing", missing),
			Err:     err,
		}
	case *kind.Type:
		return &Violation{
			Kind:    KindType,
			Field:   field,
			Message: fmt.Sprintf("field '%s' must be of type %s, got %s", name, strings.Join(k.Want, " or "), k.Got),
			Err:     err,
		}
	case *kind.Enum:
		allowed := make([]string, 0, len(k.Want))
		for _, w := range k.Want {
			allowed = append(allowed, fmt.Sprint(w))
		}
		return &Violation{
			Kind:    KindEnum,
			Field:   field,
			Message: fmt.Sprintf("field '%s' must be one of: %s", name, strings.Join(allowed, ", ")),
			Err:     err,
		}
	default:
		return &Violation{
			Kind:    KindOther,
			Field:   field,
			Message: "validation error: " + leaf.ErrorKind.LocalizedString(printer),
			Err:     err,
		}
	}
}

// firstLeaf walks causes depth-first and returns the first violation without causes.
func firstLeaf(ve *jsonschema.ValidationError) *jsonschema.ValidationError {
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return ve
}
