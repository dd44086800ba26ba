package validator

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"file-storage-api/internal/domain/file"
)

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report json field names, not Go ones
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("bucket", func(fl validator.FieldLevel) bool {
		return file.ValidBucketName(fl.Field().String())
	})
	_ = v.RegisterValidation("level", func(fl validator.FieldLevel) bool {
		_, err := file.ParseLevel(fl.Field().String())
		return err == nil
	})

	return v
}

func IsUUID(s string) (bool, uuid.UUID) {
	id, err := uuid.Parse(s)
	return err == nil, id
}

// Struct validates a request DTO and returns field -> message, or nil.
func Struct(req any) map[string]string {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"request": err.Error()}
	}

	errs := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		errs[fe.Field()] = message(fe)
	}
	return errs
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "max":
		return field + " must be at most " + fe.Param() + " characters"
	case "bucket":
		return "3-63 lowercase letters, digits, '.' or '-', starting and ending with a letter or digit"
	case "level":
		return "must be one of read, write, owner"
	}
	return field + " is invalid"
}
