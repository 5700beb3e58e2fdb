package echoapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/gabriel-goncalves1122/SGPA/core"
)

var orderingParam = "ordering"

// Ordering binds the `ordering=field,-field` query parameter.
type Ordering struct {
	Orderings []core.DBOrdering
}

// Bind reads the ordering parameter, keeping only the allowed fields.
func (ord *Ordering) Bind(ctx echo.Context, allowed []string) {
	val := ctx.QueryParam(orderingParam)
	if val == "" {
		return
	}

	for _, field := range strings.Split(val, ",") {
		field = strings.TrimSpace(field)
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = field[1:] // drop "-"
		}
		if !core.ContainsString(allowed, field) {
			continue
		}
		ord.Orderings = append(ord.Orderings, core.DBOrdering{Field: field, Ascending: !descending})
	}
}

// bind decodes the request into v. Malformed or wrong-typed input is a validation error.
func bind(ctx echo.Context, v interface{}) error {
	err := ctx.Bind(v)
	if err == nil {
		return nil
	}
	if herr, ok := err.(*echo.HTTPError); ok && herr.Code == http.StatusBadRequest {
		return core.NewValidationError(errors.Errorf("invalid request body: %v", herr.Message))
	}
	return errors.Wrap(err, "binding request")
}

type MessageResponse struct {
	Message string `json:"message"`
}
