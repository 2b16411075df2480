package survey

// SelectionMode says which path drives the location fields.
type SelectionMode int

const (
	ModeNone SelectionMode = iota
	ModeCatalog
	ModeCustom
)

func (m SelectionMode) String() string {
	switch m {
	case ModeCatalog:
		return "catalog"
	case ModeCustom:
		return "custom"
	default:
		return "none"
	}
}

// Selection is the location choice: nothing yet, Catalog(key) or Custom.
// The zero value is "nothing yet".
type Selection struct {
	mode SelectionMode
	key  string
}

// CatalogSelection selects a catalog destination.
func CatalogSelection(key string) Selection {
	return Selection{mode: ModeCatalog, key: key}
}

// CustomSelection selects free or device-resolved entry.
func CustomSelection() Selection {
	return Selection{mode: ModeCustom}
}

func (s Selection) Mode() SelectionMode { return s.mode }

// Key returns the catalog key; empty unless the mode is ModeCatalog.
func (s Selection) Key() string { return s.key }

func (s Selection) IsCustom() bool { return s.mode == ModeCustom }

func (s Selection) IsCatalog() bool { return s.mode == ModeCatalog }
