package models

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// License plates follow the 4-digit + 3-letter format, e.g. "1234ABC".
var plateRegexp = regexp.MustCompile(`^[0-9]{4}[A-Z]{3}$`)

// User ids carry a category prefix: "C" for clients, "A" for admins.
var personIDRegexp = regexp.MustCompile(`^[CA][0-9A-Za-z]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterValidation("plate", func(fl validator.FieldLevel) bool {
		return plateRegexp.MatchString(fl.Field().String())
	})
	v.RegisterValidation("person_id", func(fl validator.FieldLevel) bool {
		return personIDRegexp.MatchString(fl.Field().String())
	})
	v.RegisterValidation("vehicle_category", func(fl validator.FieldLevel) bool {
		return VehicleCategory(fl.Field().String()).Valid()
	})
	v.RegisterValidation("admin_role", func(fl validator.FieldLevel) bool {
		return AdminRole(fl.Field().String()).Valid()
	})
	v.RegisterValidation("assurance_tier", func(fl validator.FieldLevel) bool {
		return AssuranceTier(fl.Field().String()).Valid()
	})

	return v
}

// ValidPlate reports whether a license plate matches the required format.
func ValidPlate(plate string) bool {
	return plateRegexp.MatchString(plate)
}
