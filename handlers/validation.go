package handlers

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/ar"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	ar_translations "github.com/go-playground/validator/v10/translations/ar"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	validate    *validator.Validate
	translators *ut.UniversalTranslator
)

func init() {
	validate = validator.New()

	// Report JSON field names instead of Go struct field names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	english := en.New()
	translators = ut.New(english, english, ar.New())
	enTrans, _ := translators.GetTranslator("en")
	arTrans, _ := translators.GetTranslator("ar")
	if err := en_translations.RegisterDefaultTranslations(validate, enTrans); err != nil {
		panic(err)
	}
	if err := ar_translations.RegisterDefaultTranslations(validate, arTrans); err != nil {
		panic(err)
	}
}

// validationDetails maps each failing JSON field to a message in lang.
// Unknown locales get English.
func validationDetails(err error, lang string) map[string]string {
	trans, _ := translators.GetTranslator(lang)
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return map[string]string{"_": err.Error()}
	}
	details := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		details[fe.Field()] = fe.Translate(trans)
	}
	return details
}
