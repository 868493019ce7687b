package routers

import (
	"net/http"

	"iris-api/internal/transport"

	"github.com/labstack/echo/v4"
)

const indexPage = `<html><body>
<h1>iris-api</h1>
<p>JSON-RPC endpoint: POST /jsonrpc</p>
<p>Try: {"id": 1, "method": "segment_from_camera", "params": null}</p>
</body></html>`

const helloPage = `<html><body>Hello World!</body></html>`

// DefaultContent is the static-content hook served behind GET. It keeps
// the tiny fixed page set the device firmware shipped with.
func DefaultContent(path string) ([]byte, string, bool) {
	switch path {
	case "/", "/index.html":
		return []byte(indexPage), echo.MIMETextHTMLCharsetUTF8, true
	case "/hello.html":
		return []byte(helloPage), echo.MIMETextHTMLCharsetUTF8, true
	}
	return nil, "", false
}

// RegisterContentRoutes mounts the GET fall-through onto the content
// hook. Paths the hook does not know 404.
func RegisterContentRoutes(e *echo.Group, content transport.ContentFunc) {
	e.GET("/*", func(c echo.Context) error {
		body, contentType, ok := content(c.Request().URL.Path)
		if !ok {
			return c.NoContent(http.StatusNotFound)
		}
		return c.Blob(http.StatusOK, contentType, body)
	})
}
