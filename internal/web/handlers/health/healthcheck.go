package health

import (
	"time"

	"github.com/thomiceli/gistgrep/internal/web/context"
)

func Ping(ctx *context.Context) error {
	return ctx.PlainText(200, "pong")
}

func Healthcheck(ctx *context.Context) error {
	return ctx.Json(map[string]interface{}{
		"gistgrep": "ok",
		"time":     time.Now().Format(time.RFC3339),
	})
}
