package validator

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// Validator validates structs tagged with `validate` tags.
type Validator interface {
	// Struct validates a struct value.
	Struct(s any) error

	// StructCtx validates a struct value with a context.
	StructCtx(ctx context.Context, s any) error

	// Var validates a single value against a tag expression.
	Var(field any, tag string) error

	// GetValidator exposes the underlying validator instance.
	GetValidator() *validator.Validate
}

// Validate is the global validator instance.
var (
	Validate Validator
	once     sync.Once
)

func init() {
	once.Do(func() {
		Validate = New()
	})
}

type validatorImpl struct {
	validator *validator.Validate
	trans     ut.Translator
}

// New creates a validator with english error translations.
func New() Validator {
	v := &validatorImpl{
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}

	locale := en.New()
	uni := ut.New(locale, locale)
	if trans, found := uni.GetTranslator("en"); found {
		v.trans = trans
		_ = en_translations.RegisterDefaultTranslations(v.validator, trans)
	}

	return v
}

func (v *validatorImpl) Struct(s any) error {
	if s == nil {
		return errors.New("validation target cannot be nil")
	}

	return v.translateError(v.validator.Struct(s))
}

func (v *validatorImpl) StructCtx(ctx context.Context, s any) error {
	if s == nil {
		return errors.New("validation target cannot be nil")
	}

	return v.translateError(v.validator.StructCtx(ctx, s))
}

func (v *validatorImpl) Var(field any, tag string) error {
	return v.translateError(v.validator.Var(field, tag))
}

func (v *validatorImpl) GetValidator() *validator.Validate {
	return v.validator
}

func (v *validatorImpl) translateError(err error) error {
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || v.trans == nil {
		return err
	}

	fields := make([]FieldError, 0, len(validationErrors))
	messages := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		field := FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Message: fe.Translate(v.trans),
		}
		fields = append(fields, field)
		messages = append(messages, field.Message)
	}

	return &Errors{
		Fields:  fields,
		message: strings.Join(messages, "; "),
	}
}

// FieldError describes a single failed field.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// Errors aggregates translated validation failures.
type Errors struct {
	Fields  []FieldError
	message string
}

// Error returns the joined field messages.
func (e *Errors) Error() string {
	return e.message
}

// ByField returns the message for a field, or "" when the field passed.
func (e *Errors) ByField(field string) string {
	for _, fe := range e.Fields {
		if fe.Field == field {
			return fe.Message
		}
	}
	return ""
}
