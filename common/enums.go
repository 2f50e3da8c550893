// The only reason this package exists is that both configuration and theme
// builder need the same enums and I do not want theme package to depend on
// configuration. So enums live separately.
package common

//go:generate go tool go-enum --marshal --names

// Brand variables which could have theme palette generated.
// ENUM(brand-color, success-color, error-color, warning-color)
type BrandVariable string

// LessName returns variable name as it appears in LESS source.
func (b BrandVariable) LessName() string {
	return "@" + string(b)
}

// Stylesheet preprocessor used to render fragments.
// ENUM(builtin, exec)
type RendererKind int
