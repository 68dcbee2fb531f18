package window

// BuilderOption configures a window at construction time, following the
// same functional-option shape as the rest of this module's builders.
type BuilderOption func(*config)

type config struct {
	title                           string
	width, height                   int
	minWidth, minHeight             int
	maxWidth, maxHeight             int
}

func defaultConfig() *config {
	return &config{
		title:     "render window",
		width:     1280,
		height:    720,
		minWidth:  200,
		minHeight: 200,
		maxWidth:  7680,
		maxHeight: 4320,
	}
}

// WithTitle sets the window's title bar text.
func WithTitle(title string) BuilderOption {
	return func(c *config) { c.title = title }
}

// WithSize sets the initial window size in logical units.
func WithSize(width, height int) BuilderOption {
	return func(c *config) { c.width, c.height = width, height }
}

// WithSizeLimits bounds interactive resizing.
func WithSizeLimits(minWidth, minHeight, maxWidth, maxHeight int) BuilderOption {
	return func(c *config) {
		c.minWidth, c.minHeight = minWidth, minHeight
		c.maxWidth, c.maxHeight = maxWidth, maxHeight
	}
}
