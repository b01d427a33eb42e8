// Package action defines the closed set of messages the app processes.
// Every keystroke, background event, and intent is normalized into one of
// these values before any state changes.
package action

// Action is an immutable event or intent. The interface is sealed so the
// set of variants stays closed and exhaustively handleable.
type Action interface{ isAction() }

// Lifecycle.
type (
	Tick        struct{}
	Render      struct{}
	Resize      struct{ Width, Height int }
	Suspend     struct{}
	Resume      struct{}
	Quit        struct{}
	ClearScreen struct{}
)

// Notifications.
type (
	Error   struct{ Message string }
	Success struct{ Message string }
)

// Extension management.
type (
	ViewExtensionDetails struct{ ID string }
	ImportExtension      struct{}
	CreateNewExtension   struct{}
	EditExtension        struct{ ID string }
	DeleteExtension      struct{ ID string }
	RefreshExtensions    struct{}
)

// Profile management.
type (
	ViewProfileDetails struct{ ID string }
	CreateProfile      struct{}
	EditProfile        struct{ ID string }
	DeleteProfile      struct{ ID string }
	LaunchWithProfile  struct{ ID string }
	RefreshProfiles    struct{}
)

// Navigation.
type (
	NavigateToExtensions struct{}
	NavigateToProfiles   struct{}
	NavigateToSettings   struct{}
	NavigateBack         struct{}
	CycleTab             struct{}
)

// Confirmation dialog results.
type (
	ConfirmDelete struct{}
	CancelDelete  struct{}
)

// Settings.
type (
	ChangeTheme struct{ Name string }
	UpdateKeybinding struct {
		Action string
		Chords []string
	}
	ResetKeybindings struct{}
	SaveSettings     struct{}
)

func (Tick) isAction()        {}
func (Render) isAction()      {}
func (Resize) isAction()      {}
func (Suspend) isAction()     {}
func (Resume) isAction()      {}
func (Quit) isAction()        {}
func (ClearScreen) isAction() {}

func (Error) isAction()   {}
func (Success) isAction() {}

func (ViewExtensionDetails) isAction() {}
func (ImportExtension) isAction()      {}
func (CreateNewExtension) isAction()   {}
func (EditExtension) isAction()        {}
func (DeleteExtension) isAction()      {}
func (RefreshExtensions) isAction()    {}

func (ViewProfileDetails) isAction() {}
func (CreateProfile) isAction()      {}
func (EditProfile) isAction()        {}
func (DeleteProfile) isAction()      {}
func (LaunchWithProfile) isAction()  {}
func (RefreshProfiles) isAction()    {}

func (NavigateToExtensions) isAction() {}
func (NavigateToProfiles) isAction()   {}
func (NavigateToSettings) isAction()   {}
func (NavigateBack) isAction()         {}
func (CycleTab) isAction()             {}

func (ConfirmDelete) isAction() {}
func (CancelDelete) isAction()  {}

func (ChangeTheme) isAction()      {}
func (UpdateKeybinding) isAction() {}
func (ResetKeybindings) isAction() {}
func (SaveSettings) isAction()     {}
