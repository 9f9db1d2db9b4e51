package mockapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/uia-acad/notas/core"
)

var (
	errUnauthorized = echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	errForbidden    = echo.NewHTTPError(http.StatusForbidden, "permission denied")
	errNotFound     = echo.NewHTTPError(http.StatusNotFound, "not found")
)

// fieldDetail is one entry of the "detail" list on validation rejections,
// mirroring the real API's error envelope.
type fieldDetail struct {
	Loc []string `json:"loc"`
	Msg string   `json:"msg"`
}

// httpErrorHandler renders every error as {"detail": ...}: a string for
// plain failures, a list of {loc, msg} items for validation rejections.
func httpErrorHandler(err error, c echo.Context) {
	var code int
	var detail interface{}

	switch err := err.(type) {
	case *echo.HTTPError:
		if herr, ok := err.Internal.(*echo.HTTPError); ok {
			err = herr
		}
		code = err.Code
		detail = err.Message
	case validator.ValidationErrors:
		details := make([]fieldDetail, 0, len(err))
		for _, vErr := range err {
			details = append(details, fieldDetail{
				Loc: []string{"body", vErr.Field()},
				Msg: vErr.Translate(core.Translator),
			})
		}
		code = http.StatusUnprocessableEntity
		detail = details
	case *core.ValidationError:
		if err.Fields != nil {
			details := make([]fieldDetail, 0, len(err.Fields))
			for _, fErr := range err.Fields {
				details = append(details, fieldDetail{
					Loc: []string{"body", fErr.Field},
					Msg: fErr.Error,
				})
			}
			detail = details
		} else {
			detail = err.Error()
		}
		code = http.StatusUnprocessableEntity
	default:
		code = http.StatusInternalServerError
		detail = http.StatusText(http.StatusInternalServerError)
	}

	if !c.Response().Committed {
		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(code)
		} else {
			werr = c.JSON(code, echo.Map{"detail": detail})
		}
		if werr != nil {
			c.Echo().Logger.Error(werr)
		}
	}
}
