package api

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nttcom/threatconnectome-sub000/monitoring"
)

func recovermiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) (returnErr error) {
			defer func() {
				if r := recover(); r != nil {
					if r == http.ErrAbortHandler {
						panic(r)
					}
					err, ok := r.(error)
					if !ok {
						err = fmt.Errorf("%v", r)
					}
					monitoring.RecoverAndAlert("panic in handler "+ctx.Path(), err)
					returnErr = echo.NewHTTPError(500, "internal server error").WithInternal(err)
				}
			}()
			return next(ctx)
		}
	}
}
