package validation

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/labstack/echo/v4"

	"github.com/octobees/leads-manager/internal/dto"
)

const (
	tagNotBlank   = "notblank"
	tagEmailShape = "email_shape"
)

var emailShape = regexp.MustCompile(`^\S+@\S+\.\S+$`)

var fieldLabels = map[string]string{
	"name":         "Name",
	"company":      "Company",
	"job_title":    "Job title",
	"phone_number": "Phone number",
	"email":        "Email",
	"headcount":    "Headcount",
	"industry":     "Industry",
}

// Violation describes a single rejected field.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error aggregates field violations for a payload.
type Error struct {
	Violations []Violation
}

func (e *Error) Error() string {
	messages := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		messages = append(messages, v.Message)
	}
	return strings.Join(messages, "; ")
}

// Message returns the first message recorded for field, if any.
func (e *Error) Message(field string) string {
	for _, v := range e.Violations {
		if v.Field == field {
			return v.Message
		}
	}
	return ""
}

// Validator checks lead payloads against their struct tags and reports translated messages.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// Default returns a process-wide validator.
var Default = sync.OnceValue(New)

// New builds a validator with English messages.
func New() *Validator {
	enLocale := en.New()
	trans, _ := ut.New(enLocale, enLocale).GetTranslator("en")

	validate := validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})

	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		panic(fmt.Sprintf("register default translations: %v", err))
	}
	mustRegister(validate.RegisterValidation(tagNotBlank, func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	}))
	mustRegister(validate.RegisterValidation(tagEmailShape, func(fl validator.FieldLevel) bool {
		return emailShape.MatchString(fl.Field().String())
	}))

	requiredMsg := labelled("{0} is required")
	mustRegister(validate.RegisterTranslation("required", trans, requiredMsg.register("required"), requiredMsg.translate("required")))
	mustRegister(validate.RegisterTranslation(tagNotBlank, trans, requiredMsg.register(tagNotBlank), requiredMsg.translate(tagNotBlank)))
	emailMsg := labelled("Invalid email format")
	mustRegister(validate.RegisterTranslation(tagEmailShape, trans, emailMsg.register(tagEmailShape), emailMsg.translate(tagEmailShape)))

	return &Validator{validate: validate, translator: trans}
}

// Struct validates a payload using its `validate` tags.
func (v *Validator) Struct(payload any) error {
	return v.toError(v.validate.Struct(payload))
}

// Submission applies the checks run before a new lead is sent to the backend:
// the struct rules plus the email shape check.
func (v *Validator) Submission(payload dto.LeadCreate) error {
	var result Error
	if err := v.Struct(payload); err != nil {
		var verr *Error
		if !errors.As(err, &verr) {
			return err
		}
		result.Violations = append(result.Violations, verr.Violations...)
	}
	if payload.Email != nil && *payload.Email != "" && result.Message("email") == "" {
		if err := v.Email(*payload.Email); err != nil {
			var verr *Error
			if !errors.As(err, &verr) {
				return err
			}
			result.Violations = append(result.Violations, verr.Violations...)
		}
	}
	if len(result.Violations) == 0 {
		return nil
	}
	return &result
}

// Email checks that value has the local@domain.tld shape.
func (v *Validator) Email(value string) error {
	err := v.toError(v.validate.Var(value, tagEmailShape))
	var verr *Error
	if errors.As(err, &verr) {
		for i := range verr.Violations {
			verr.Violations[i].Field = "email"
		}
	}
	return err
}

func (v *Validator) toError(err error) error {
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	result := &Error{Violations: make([]Violation, 0, len(ve))}
	for _, fe := range ve {
		result.Violations = append(result.Violations, Violation{
			Field:   fe.Field(),
			Message: fe.Translate(v.translator),
		})
	}
	return result
}

// EchoValidator adapts Validator to echo's Validator interface.
type EchoValidator struct {
	validator *Validator
}

// Echo wraps v for use as echo.Echo.Validator.
func Echo(v *Validator) *EchoValidator {
	return &EchoValidator{validator: v}
}

// Validate implements echo.Validator.
func (e *EchoValidator) Validate(i any) error {
	err := e.validator.Struct(i)
	if err == nil {
		return nil
	}
	var verr *Error
	if errors.As(err, &verr) {
		return verr
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

type labelled string

func (l labelled) register(tag string) validator.RegisterTranslationsFunc {
	return func(trans ut.Translator) error {
		return trans.Add(tag, string(l), true)
	}
}

func (l labelled) translate(tag string) validator.TranslationFunc {
	return func(trans ut.Translator, fe validator.FieldError) string {
		msg, err := trans.T(tag, label(fe.Field()))
		if err != nil {
			return fe.Error()
		}
		return msg
	}
}

func label(field string) string {
	if l, ok := fieldLabels[field]; ok {
		return l
	}
	return field
}

func mustRegister(err error) {
	if err != nil {
		panic(fmt.Sprintf("register validation: %v", err))
	}
}
