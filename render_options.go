package mdv

import "github.com/muesli/termenv"

// RenderOption configures ANSI rendering.
type RenderOption func(*renderConfig)

type renderConfig struct {
	osc8       bool
	width      int
	linkIndex  bool
	profile    termenv.Profile
	profileSet bool
}

// WithOSC8 enables or disables OSC 8 hyperlinks on link text.
func WithOSC8(enabled bool) RenderOption {
	return func(cfg *renderConfig) {
		cfg.osc8 = enabled
	}
}

// WithWidth truncates each line to width cells. Lines are never wrapped;
// zero disables truncation.
func WithWidth(width int) RenderOption {
	return func(cfg *renderConfig) {
		cfg.width = width
	}
}

// WithLinkIndex appends a numbered legend of the document's links, matching
// the digit keys that select them.
func WithLinkIndex(enabled bool) RenderOption {
	return func(cfg *renderConfig) {
		cfg.linkIndex = enabled
	}
}

// WithColorProfile forces a color profile instead of detecting one from the
// writer. termenv.Ascii produces plain text.
func WithColorProfile(p termenv.Profile) RenderOption {
	return func(cfg *renderConfig) {
		cfg.profile = p
		cfg.profileSet = true
	}
}

func buildRenderConfig(opts []RenderOption) renderConfig {
	cfg := renderConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
