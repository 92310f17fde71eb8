package handlers

import (
	"fmt"
	"sync"

	"github.com/emali/estates-api/internal/domain/user"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators installs the custom binding rules used by the request
// types in domain/user. Safe to call more than once.
func RegisterValidators() error {
	var err error

	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
			return
		}

		rules := map[string]func(string) bool{
			"phone":          user.IsPhone,
			"strongpassword": user.IsStrongPassword,
			"username":       user.IsUsername,
			"language":       user.IsLanguage,
			"identifier":     user.IsIdentifier,
		}

		for tag, fn := range rules {
			fn := fn
			if regErr := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
				return fn(fl.Field().String())
			}); regErr != nil {
				err = fmt.Errorf("register %s: %w", tag, regErr)
				return
			}
		}
	})

	return err
}
