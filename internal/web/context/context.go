package context

import (
	"github.com/labstack/echo/v4"
)

type Context struct {
	echo.Context
}

func NewContext(c echo.Context) *Context {
	return &Context{Context: c}
}

func (ctx *Context) Json(data any) error {
	return ctx.JsonWithCode(200, data)
}

func (ctx *Context) JsonWithCode(code int, data any) error {
	return ctx.JSON(code, data)
}

func (ctx *Context) PlainText(code int, message string) error {
	return ctx.String(code, message)
}

func (ctx *Context) RequestID() string {
	return ctx.Response().Header().Get(echo.HeaderXRequestID)
}
