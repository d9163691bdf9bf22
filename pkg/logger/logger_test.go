package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newEchoContext() echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestFromEchoReturnsRequestLogger(t *testing.T) {
	c := newEchoContext()
	want := zap.NewNop().With(zap.String("request_id", "abc-123"))
	c.Set("logger", want)

	assert.Same(t, want, FromEcho(c))
}

func TestFromEchoFallsBackWithoutMiddleware(t *testing.T) {
	c := newEchoContext()

	got := FromEcho(c)
	assert.NotNil(t, got, "must always hand back a usable logger")
}

func TestFromEchoIgnoresForeignValue(t *testing.T) {
	c := newEchoContext()
	c.Set("logger", "not a logger")

	assert.NotNil(t, FromEcho(c))
}
