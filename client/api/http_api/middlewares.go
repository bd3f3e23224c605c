package http_api

import (
	"fmt"
	"net/http"

	. "github.com/labstack/echo/v4"

	cs "github.com/earthmind-network/earthmind-go/client/api/http_api/context_service"
)

func contextServiceMiddleware(next HandlerFunc) HandlerFunc {
	return func(ctx Context) error {
		return next(cs.New(ctx))
	}
}

// Custom error handler
func customHTTPErrorHandler(err error, c Context) {
	csError, ok := err.(*cs.CSErrorResp)
	if !ok {
		if he, ok := err.(*HTTPError); ok {
			csError = &cs.CSErrorResp{
				ErrorMessage: fmt.Sprintf("%s", he.Message),
			}
		} else {
			csError = &cs.CSErrorResp{
				ErrorMessage: http.StatusText(http.StatusInternalServerError),
			}
		}
	}

	if !c.Response().Committed {
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(http.StatusInternalServerError)
		} else {
			_ = c.JSON(http.StatusInternalServerError, csError)
		}
	}
}
