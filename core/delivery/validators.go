package delivery

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/gabriel-goncalves1122/SGPA/core"
)

func InitValidators(validate *validator.Validate, translator ut.Translator) {
	validate.RegisterStructValidation(deliveryStructValidation, NewDelivery{})
}

func deliveryStructValidation(sl validator.StructLevel) {
	nd := sl.Current().Interface().(NewDelivery)
	if nd.SubmittedAt.IsSet() && !nd.SubmittedAt.IsValid() {
		sl.ReportError(nd.SubmittedAt, "dataEnvio", "SubmittedAt", core.InvalidDateTag, "")
	}
}
