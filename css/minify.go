package css

import (
	"fmt"

	"github.com/tdewolff/minify/v2"
	mincss "github.com/tdewolff/minify/v2/css"
)

const mediaType = "text/css"

// Minify compacts stylesheet.
func Minify(data []byte) ([]byte, error) {
	m := minify.New()
	m.AddFunc(mediaType, mincss.Minify)

	out, err := m.Bytes(mediaType, data)
	if err != nil {
		return nil, fmt.Errorf("unable to minify stylesheet: %w", err)
	}
	return out, nil
}
