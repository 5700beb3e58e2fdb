package project

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/gabriel-goncalves1122/SGPA/core"
)

func InitValidators(validate *validator.Validate, _ ut.Translator) {
	validate.RegisterStructValidation(projectStructValidation, NewProject{})
}

// projectStructValidation checks the project dates: start date required, both dates parsable
// and the end date not before the start date.
func projectStructValidation(sl validator.StructLevel) {
	np := sl.Current().Interface().(NewProject)

	switch {
	case !np.StartDate.IsSet():
		sl.ReportError(np.StartDate, "dataInicio", "StartDate", "required", "")
	case !np.StartDate.IsValid():
		sl.ReportError(np.StartDate, "dataInicio", "StartDate", core.InvalidDateTag, "")
	}
	if np.EndDate.IsSet() && !np.EndDate.IsValid() {
		sl.ReportError(np.EndDate, "dataFim", "EndDate", core.InvalidDateTag, "")
	}
	if np.StartDate.IsValid() && np.EndDate.IsValid() && np.EndDate.Time.Before(np.StartDate.Time) {
		sl.ReportError(np.EndDate, "dataFim", "EndDate", core.DateRangeTag, "dataInicio")
	}
}
