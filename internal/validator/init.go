package validator

import (
	"ctchen222/Hex/internal/game"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON name.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	if err := validate.RegisterValidation("boardsize", validBoardSize); err != nil {
		panic(err)
	}
}

// validBoardSize accepts sizes the game engine can play on.
func validBoardSize(fl validator.FieldLevel) bool {
	n := fl.Field().Int()
	return n >= game.MinBoardSize && n <= game.MaxBoardSize
}

func GetValidator() *validator.Validate {
	return validate
}
