package chat

import (
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// Stage of the identity flow.
type Stage int

const (
	NotReady Stage = iota
	Validating
	Ready
	Cancelled
)

func (s Stage) String() string {
	switch s {
	case NotReady:
		return "NOT_READY"
	case Validating:
		return "VALIDATING"
	case Ready:
		return "READY"
	case Cancelled:
		return "CANCELLED"
	default:
		return "UNKNOWN"
	}
}

type displayName struct {
	Name string `validate:"required,max=64,nocontrol"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("nocontrol", func(fl validator.FieldLevel) bool {
		return strings.IndexFunc(fl.Field().String(), unicode.IsControl) < 0
	})
	return v
}

// ValidateDisplayName trims name and checks it.
func ValidateDisplayName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if err := validate.Struct(displayName{Name: name}); err != nil {
		return "", ErrInvalidDisplayName
	}
	return name, nil
}

// Identity walks NOT_READY -> VALIDATING -> READY | CANCELLED. READY and
// CANCELLED are final; a READY identity can still be renamed.
type Identity struct {
	stage Stage
	name  string
}

func (id *Identity) Stage() Stage { return id.stage }
func (id *Identity) Name() string { return id.name }

// Begin opens the name prompt.
func (id *Identity) Begin() error {
	if id.stage != NotReady {
		return ErrInvalidTransition
	}
	id.stage = Validating
	return nil
}

// Submit offers a display name. Invalid names keep the prompt open.
func (id *Identity) Submit(name string) (string, error) {
	if id.stage != Validating {
		return "", ErrInvalidTransition
	}
	name, err := ValidateDisplayName(name)
	if err != nil {
		return "", err
	}
	id.name = name
	id.stage = Ready
	return name, nil
}

func (id *Identity) Cancel() error {
	if id.stage != NotReady && id.stage != Validating {
		return ErrInvalidTransition
	}
	id.stage = Cancelled
	return nil
}

// Rename changes the name of a READY identity.
func (id *Identity) Rename(name string) (string, error) {
	if id.stage != Ready {
		return "", ErrInvalidTransition
	}
	name, err := ValidateDisplayName(name)
	if err != nil {
		return "", err
	}
	id.name = name
	return name, nil
}
