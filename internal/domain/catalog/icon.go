// internal/domain/catalog/icon.go
package catalog

// CategoryIcon identifies the presentation glyph for a category.
// Values are validated at data-entry time so the storefront never has to
// fall back to a placeholder at render time.
type CategoryIcon string

const (
	IconCake      CategoryIcon = "cake"
	IconCupcake   CategoryIcon = "cupcake"
	IconBread     CategoryIcon = "bread"
	IconCookie    CategoryIcon = "cookie"
	IconCroissant CategoryIcon = "croissant"
	IconPie       CategoryIcon = "pie"
	IconDonut     CategoryIcon = "donut"
	IconTart      CategoryIcon = "tart"
	IconPastry    CategoryIcon = "pastry"
)

var iconGlyphs = map[CategoryIcon]string{
	IconCake:      "🎂",
	IconCupcake:   "🧁",
	IconBread:     "🍞",
	IconCookie:    "🍪",
	IconCroissant: "🥐",
	IconPie:       "🥧",
	IconDonut:     "🍩",
	IconTart:      "🍰",
	IconPastry:    "🥮",
}

// Valid reports whether the icon identifier is a known glyph key
func (i CategoryIcon) Valid() bool {
	_, ok := iconGlyphs[i]
	return ok
}

// Glyph returns the presentation glyph for the icon
func (i CategoryIcon) Glyph() string {
	return iconGlyphs[i]
}

// ValidIcons lists the accepted icon identifiers
func ValidIcons() []CategoryIcon {
	icons := make([]CategoryIcon, 0, len(iconGlyphs))
	for icon := range iconGlyphs {
		icons = append(icons, icon)
	}
	return icons
}
