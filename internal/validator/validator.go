package validator

import (
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	govalidator "github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	appErrors "github.com/noah-isme/dojo-api/pkg/errors"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

var clockPattern = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]$`)

var (
	once     sync.Once
	instance *govalidator.Validate
	trans    ut.Translator
)

func translator() ut.Translator {
	New()
	return trans
}

// New returns the shared validator. It reports JSON field names, understands the clock
// and date tags, and translates failures into English messages. Translations live on a
// single translator so the instance is built once.
func New() *govalidator.Validate {
	once.Do(func() {
		enLocale := en.New()
		uni := ut.New(enLocale, enLocale)
		trans, _ = uni.GetTranslator("en")
		instance = build(trans)
	})
	return instance
}

func build(t ut.Translator) *govalidator.Validate {
	v := govalidator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("clock", func(fl govalidator.FieldLevel) bool {
		return IsClock(fl.Field().String())
	})
	_ = v.RegisterValidation("date", func(fl govalidator.FieldLevel) bool {
		return IsDate(fl.Field().String())
	})

	_ = en_translations.RegisterDefaultTranslations(v, t)
	registerMessage(v, t, "clock", "{0} must be a time in HH:MM format")
	registerMessage(v, t, "date", "{0} must be a date in YYYY-MM-DD format")
	return v
}

func registerMessage(v *govalidator.Validate, t ut.Translator, tag, text string) {
	_ = v.RegisterTranslation(tag, t,
		func(ut ut.Translator) error { return ut.Add(tag, text, true) },
		func(ut ut.Translator, fe govalidator.FieldError) string {
			msg, err := ut.T(tag, fe.Field())
			if err != nil {
				return fe.Error()
			}
			return msg
		},
	)
}

// IsClock reports whether value is a 24h HH:MM time.
func IsClock(value string) bool {
	return clockPattern.MatchString(value)
}

// IsDate reports whether value is a YYYY-MM-DD calendar date.
func IsDate(value string) bool {
	_, err := time.Parse(DateLayout, value)
	return err == nil
}

// ClockMinutes converts an HH:MM value into minutes since midnight. Callers validate first.
func ClockMinutes(value string) int {
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return 0
	}
	h, _ := strconv.Atoi(parts[0])
	m, _ := strconv.Atoi(parts[1])
	return h*60 + m
}

// Fields converts validation failures into per-field messages.
func Fields(err error) []appErrors.FieldError {
	var ve govalidator.ValidationErrors
	if !errors.As(err, &ve) {
		return []appErrors.FieldError{{Field: "body", Message: err.Error()}}
	}
	fields := make([]appErrors.FieldError, 0, len(ve))
	for _, fe := range ve {
		fields = append(fields, appErrors.FieldError{Field: fieldPath(fe), Message: fe.Translate(translator())})
	}
	return fields
}

// fieldPath drops the top-level struct name from the namespace, "Req.daysOfWeek[0]" → "daysOfWeek[0]".
func fieldPath(fe govalidator.FieldError) string {
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	return fe.Field()
}

// ToAppError wraps a validator failure into the 400 error with field details.
func ToAppError(err error, message string) error {
	if err == nil {
		return nil
	}
	if message == "" {
		message = appErrors.ErrValidation.Message
	}
	return appErrors.Validation(message, Fields(err), err)
}

// Field builds a single-field validation error for checks done outside struct tags.
func Field(field, message string) error {
	return appErrors.Validation(appErrors.ErrValidation.Message, []appErrors.FieldError{{Field: field, Message: message}}, nil)
}

// FromBindError converts a JSON decoding failure into a 400 error. Unknown fields,
// type mismatches and syntax errors are reported against the offending field.
func FromBindError(err error) error {
	if err == nil {
		return nil
	}
	var ve govalidator.ValidationErrors
	if errors.As(err, &ve) {
		return ToAppError(err, "")
	}

	field := "body"
	message := err.Error()

	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	switch {
	case errors.Is(err, io.EOF):
		message = "request body is required"
	case errors.As(err, &typeErr):
		if typeErr.Field != "" {
			field = typeErr.Field
		}
		message = "must be of type " + typeErr.Type.String()
	case errors.As(err, &syntaxErr):
		message = "malformed JSON"
	case strings.HasPrefix(message, "json: unknown field "):
		field = strings.Trim(strings.TrimPrefix(message, "json: unknown field "), `"`)
		message = "unknown field"
	}

	return appErrors.Validation("invalid request body", []appErrors.FieldError{{Field: field, Message: message}}, err)
}
