package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	phonePattern    = regexp.MustCompile(`^\+?[0-9][0-9 ()\-]{5,19}$`)
	postcodePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9 \-]{1,9}$`)

	registerOnce sync.Once
	registerErr  error
)

// RegisterValidators adds the phone and postcode tags to gin's validator and
// makes field errors use JSON names. It is safe to call more than once.
func RegisterValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = errors.New("gin validator engine is not validator/v10")
			return
		}
		v.RegisterTagNameFunc(jsonFieldName)
		if err := v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
			return phonePattern.MatchString(strings.TrimSpace(fl.Field().String()))
		}); err != nil {
			registerErr = err
			return
		}
		registerErr = v.RegisterValidation("postcode", func(fl validator.FieldLevel) bool {
			return postcodePattern.MatchString(strings.TrimSpace(fl.Field().String()))
		})
	})
	return registerErr
}

func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

// bindError answers 400 with a message per invalid field when err came from
// validation, or a generic message for malformed bodies.
func bindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fieldMessage(fe)
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "Please check the form for errors", "fields": fields})
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "phone":
		return "Enter a valid phone number."
	case "postcode":
		return "Enter a valid postcode."
	case "iso3166_1_alpha2":
		return "Select a valid country."
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters.", fe.Param())
	case "min":
		return fmt.Sprintf("Ensure this value is at least %s.", fe.Param())
	case "oneof":
		return fmt.Sprintf("Select one of: %s.", fe.Param())
	case "url":
		return "Enter a valid URL."
	default:
		return "This value is invalid."
	}
}
