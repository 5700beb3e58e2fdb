package task

import (
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/gabriel-goncalves1122/SGPA/core"
)

var (
	statusTag  = "taskstatus"
	statusText = "{0} must be one of: " + strings.Join(Statuses, ", ")
)

func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(statusTag, statusValidation)
	core.RegisterCustomTranslation(validate, translator, statusTag, statusText)

	validate.RegisterStructValidation(taskStructValidation, NewTask{})
}

func statusValidation(fl validator.FieldLevel) bool {
	return core.ContainsString(Statuses, fl.Field().String())
}

// taskStructValidation checks that supplied dates parse and that the end date is not before
// the start date.
func taskStructValidation(sl validator.StructLevel) {
	nt := sl.Current().Interface().(NewTask)

	if nt.StartDate.IsSet() && !nt.StartDate.IsValid() {
		sl.ReportError(nt.StartDate, "dataInicio", "StartDate", core.InvalidDateTag, "")
	}
	if nt.EndDate.IsSet() && !nt.EndDate.IsValid() {
		sl.ReportError(nt.EndDate, "dataFim", "EndDate", core.InvalidDateTag, "")
	}
	if nt.StartDate.IsValid() && nt.EndDate.IsValid() && nt.EndDate.Time.Before(nt.StartDate.Time) {
		sl.ReportError(nt.EndDate, "dataFim", "EndDate", core.DateRangeTag, "dataInicio")
	}
}
