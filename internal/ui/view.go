package ui

// ViewType identifies each screen the view manager can show.
type ViewType int

const (
	ViewExtensionList ViewType = iota
	ViewExtensionDetail
	ViewExtensionCreate
	ViewExtensionEdit
	ViewProfileList
	ViewProfileDetail
	ViewProfileCreate
	ViewProfileEdit
	ViewConfirmDelete
	ViewSettings
	ViewImportDialog
)

func (v ViewType) String() string {
	switch v {
	case ViewExtensionList:
		return "extension-list"
	case ViewExtensionDetail:
		return "extension-detail"
	case ViewExtensionCreate:
		return "extension-create"
	case ViewExtensionEdit:
		return "extension-edit"
	case ViewProfileList:
		return "profile-list"
	case ViewProfileDetail:
		return "profile-detail"
	case ViewProfileCreate:
		return "profile-create"
	case ViewProfileEdit:
		return "profile-edit"
	case ViewConfirmDelete:
		return "confirm-delete"
	case ViewSettings:
		return "settings"
	case ViewImportDialog:
		return "import-dialog"
	default:
		return "unknown"
	}
}

// isForm reports whether the view captures free text input. While a form is
// active the global keymap is bypassed so typing "q" does not quit.
func (v ViewType) isForm() bool {
	switch v {
	case ViewExtensionCreate, ViewExtensionEdit,
		ViewProfileCreate, ViewProfileEdit,
		ViewImportDialog:
		return true
	default:
		return false
	}
}

// tab reports which top-level tab the view belongs under.
func (v ViewType) tab() int {
	switch v {
	case ViewProfileList, ViewProfileDetail, ViewProfileCreate, ViewProfileEdit:
		return tabProfiles
	case ViewSettings:
		return tabSettings
	default:
		return tabExtensions
	}
}
