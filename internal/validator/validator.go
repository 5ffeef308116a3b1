package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/xelth-com/swiftlog/internal/models"
)

var (
	validate *validator.Validate
	once     sync.Once
)

// getInstance returns the shared validator with the logistics tags registered
func getInstance() *validator.Validate {
	once.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		_ = validate.RegisterValidation("delivery_status", func(fl validator.FieldLevel) bool {
			return models.DeliveryStatus(fl.Field().String()).Valid()
		})
		_ = validate.RegisterValidation("op_status", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			return s == "" || models.OperationalStatus(s).Valid()
		})
	})
	return validate
}

// ValidateStruct runs the struct tag rules of s and reports the first
// failing field in a readable form.
func ValidateStruct(s interface{}) error {
	err := getInstance().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		switch fe.Tag() {
		case "required":
			return fmt.Errorf("%s is required", fe.Field())
		case "min":
			return fmt.Errorf("%s must have at least %s characters", fe.Field(), fe.Param())
		case "email":
			return fmt.Errorf("%s must be a valid email", fe.Field())
		case "delivery_status", "op_status", "oneof":
			return fmt.Errorf("%s has an invalid value %q", fe.Field(), fmt.Sprint(fe.Value()))
		}
		return fmt.Errorf("%s failed %s validation", fe.Field(), fe.Tag())
	}
	return err
}
