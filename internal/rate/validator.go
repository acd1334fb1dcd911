package rate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrSourceRequired = errors.New("source currency is required")
	ErrTargetRequired = errors.New("target currency is required")
	ErrSameCodes      = errors.New("source and target must be different")
	ErrInvalidCode    = errors.New("currency code must be 3 uppercase letters")
	ErrInvalidRequest = errors.New("invalid request")
)

const codeRule = "len=3,uppercase,alpha"

type Validator struct {
	validate *validator.Validate
}

// ValidateCodes checks a source/target pair before any lookup is made.
func (v *Validator) ValidateCodes(source, target string) error {
	if source == "" {
		return ErrSourceRequired
	}
	if target == "" {
		return ErrTargetRequired
	}
	if v.validate.Var(source, codeRule) != nil || v.validate.Var(target, codeRule) != nil {
		return ErrInvalidCode
	}
	if source == target {
		return ErrSameCodes
	}
	return nil
}

// Struct validates the `validate` tags of a request DTO.
func (v *Validator) Struct(req any) error {
	err := v.validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s failed on %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag()))
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalidRequest, strings.Join(msgs, "; "))
}

func NewValidator() *Validator {
	return &Validator{validate: validator.New(validator.WithRequiredStructEnabled())}
}
