package model

// EmbeddedImage is one image found inside a document. Data is nil when the
// parser detected the image but could not extract its bytes.
type EmbeddedImage struct {
	Data   []byte `json:"-"`
	Format string `json:"format,omitempty"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
	Page   int    `json:"page,omitempty"`
}

// Processable reports whether the image has bytes to send for analysis.
func (img EmbeddedImage) Processable() bool {
	return len(img.Data) > 0
}

// MediaType maps the parser's format tag to a declared media type.
func (img EmbeddedImage) MediaType() string {
	switch img.Format {
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	default:
		return "image/jpeg"
	}
}
