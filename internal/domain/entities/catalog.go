package entities

// CatalogEntry describes one selectable data file. Entries come from static
// configuration and never change at runtime.
type CatalogEntry struct {
	Filename    string `mapstructure:"filename"`    // file locator: path under the data dir or http(s) URL
	Title       string `mapstructure:"title"`       // display title
	Description string `mapstructure:"description"` // one-line description
	Icon        string `mapstructure:"icon"`        // emoji glyph shown next to the title
}

// CatalogTile is a catalog entry as shown to the user, with its
// informational question count.
type CatalogTile struct {
	Index int
	Entry CatalogEntry
	Count *int   // nil until the entry has been counted
	Label string // "Loading...", "<n> Questions" or "Click to start"
}
