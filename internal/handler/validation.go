package handler

import (
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"fitsocial/backend/internal/models"
)

var registerOnce sync.Once

// RegisterValidators adds the custom rules used by the request DTOs to gin's
// validator and makes errors report json field names.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
			return models.Weekday(fl.Field().String()).Valid()
		})
	})
}
