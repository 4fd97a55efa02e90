package templates

import (
	"context"
	"strings"

	"github.com/a-h/templ"
)

// RenderString renders component into a string, used for websocket frames.
func RenderString(ctx context.Context, component templ.Component) (string, error) {
	var buf strings.Builder
	if err := component.Render(ctx, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
