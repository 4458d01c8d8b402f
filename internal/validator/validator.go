package validator

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/pt_BR"
	ut "github.com/go-playground/universal-translator"
	govalidator "github.com/go-playground/validator/v10"
	pt_translations "github.com/go-playground/validator/v10/translations/pt_BR"
)

var (
	// trans is the singleton Portuguese translator for validation errors.
	trans ut.Translator

	// standalone validates structs outside of Gin's binding (the exam form).
	standalone *govalidator.Validate

	once sync.Once
)

func initTranslator() {
	once.Do(func() {
		locale := pt_BR.New()
		uni := ut.New(locale, locale)
		trans, _ = uni.GetTranslator("pt_BR")

		standalone = govalidator.New()
		configure(standalone)
	})
}

// configure applies JSON field naming and Portuguese messages to v.
func configure(v *govalidator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = pt_translations.RegisterDefaultTranslations(v, trans)

	// required_without has no default translation; show it like required.
	_ = v.RegisterTranslation("required_without", trans,
		func(u ut.Translator) error {
			return u.Add("required_without", "{0} é um campo obrigatório", true)
		},
		func(u ut.Translator, fe govalidator.FieldError) string {
			msg, _ := u.T("required_without", fe.Field())
			return msg
		},
	)
}

// Setup registers the validator with Portuguese translations on Gin's binding engine.
// Call once during application startup.
func Setup() {
	initTranslator()
	if v, ok := binding.Validator.Engine().(*govalidator.Validate); ok {
		configure(v)
	}
}

// Struct validates s with the standalone validator and returns a map of
// field name → message, or nil when s is valid.
func Struct(s interface{}) map[string]string {
	initTranslator()
	if err := standalone.Struct(s); err != nil {
		return TranslateErrors(err)
	}
	return nil
}

// TranslateErrors takes a binding/validation error and returns a map of
// field name → human-readable error message. If the error is not a
// validation error, it returns a single-key map with "detail".
func TranslateErrors(err error) map[string]string {
	initTranslator()
	fields := make(map[string]string)

	var ve govalidator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			fields[fe.Field()] = fe.Translate(trans)
		}
		return fields
	}

	// Not a validation error (e.g., JSON syntax error).
	fields["detail"] = err.Error()
	return fields
}

// Bind binds and validates the request body into dst.
// Returns nil on success or a translated field error map on failure.
func Bind(c *gin.Context, dst interface{}) map[string]string {
	if err := c.ShouldBindJSON(dst); err != nil {
		return TranslateErrors(err)
	}
	return nil
}
