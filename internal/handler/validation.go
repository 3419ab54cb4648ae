package handler

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"mesto_service/internal/apperr"
)

const (
	bodyKey = "Body"
	uriKey  = "URI"

	msgMalformedBody = "Переданы некорректные данные"
)

var (
	httpURLPattern = regexp.MustCompile(`^https?://(www\.)?[-a-zA-Z0-9@:%._+~#=]{1,256}\.[a-zA-Z0-9()]{1,6}\b([-a-zA-Z0-9()@:%_+.~#?&/=]*)$`)

	registerOnce sync.Once
)

// registerValidators adds the custom rules to gin's validator and makes
// error fields use their json or uri names.
func registerValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			panic("unexpected gin validator engine")
		}

		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"json", "uri"} {
				name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
				if name != "" && name != "-" {
					return name
				}
			}
			return fld.Name
		})

		if err := v.RegisterValidation("httpurl", func(fl validator.FieldLevel) bool {
			return httpURLPattern.MatchString(fl.Field().String())
		}); err != nil {
			panic(err)
		}

		// maxbytes limits the encoded length; max counts runes.
		if err := v.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
			limit, err := strconv.Atoi(fl.Param())
			if err != nil {
				panic(fmt.Sprintf("maxbytes: bad param %q", fl.Param()))
			}
			return len(fl.Field().String()) <= limit
		}); err != nil {
			panic(err)
		}
	})
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return msgMalformedBody
	}

	fe := verrs[0]
	field := fe.Field()

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%q is required", field)
	case "email":
		return fmt.Sprintf("%q must be a valid email", field)
	case "min":
		return fmt.Sprintf("%q length must be at least %s characters long", field, fe.Param())
	case "max":
		return fmt.Sprintf("%q length must be less than or equal to %s characters long", field, fe.Param())
	case "maxbytes":
		return fmt.Sprintf("%q length must be less than or equal to %s bytes long", field, fe.Param())
	case "httpurl":
		return fmt.Sprintf("%q must be a valid http(s) URL", field)
	case "uuid":
		return fmt.Sprintf("%q must be a valid id", field)
	}

	return fmt.Sprintf("%q fails the %q rule", field, fe.Tag())
}

// validateBody binds the request body (JSON or form) into T and checks its
// binding tags. An empty body is validated as a zero T.
func validateBody[T any]() gin.HandlerFunc {
	registerValidators()

	return handle(func(c *gin.Context) error {
		var payload T
		if err := c.ShouldBind(&payload); err != nil {
			if !errors.Is(err, io.EOF) {
				return apperr.Validation(validationMessage(err))
			}
			if err := binding.Validator.ValidateStruct(&payload); err != nil {
				return apperr.Validation(validationMessage(err))
			}
		}

		c.Set(bodyKey, payload)

		return nil
	})
}

func validateURI[T any]() gin.HandlerFunc {
	registerValidators()

	return handle(func(c *gin.Context) error {
		var params T
		if err := c.ShouldBindUri(&params); err != nil {
			return apperr.Validation(validationMessage(err))
		}

		c.Set(uriKey, params)

		return nil
	})
}

func body[T any](c *gin.Context) T {
	v, _ := c.Get(bodyKey)
	payload, _ := v.(T)
	return payload
}

func uri[T any](c *gin.Context) T {
	v, _ := c.Get(uriKey)
	params, _ := v.(T)
	return params
}
