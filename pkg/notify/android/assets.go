package android

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"io/fs"
	"os"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// ImageInfo describes an image file without decoding its pixels.
type ImageInfo struct {
	Format string
	Width  int
	Height int
}

func (i ImageInfo) wire() map[string]any {
	return map[string]any{
		"format": i.Format,
		"width":  i.Width,
		"height": i.Height,
	}
}

// ProbeImage reads the header of the image at path. With a nil fsys the
// path is opened on the local filesystem.
func ProbeImage(fsys fs.FS, path string) (ImageInfo, error) {
	var (
		f   io.ReadCloser
		err error
	)
	if fsys == nil {
		f, err = os.Open(path)
	} else {
		f, err = fsys.Open(strings.TrimPrefix(path, "/"))
	}
	if err != nil {
		return ImageInfo{}, err
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return ImageInfo{}, err
	}
	return ImageInfo{Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}
