package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/unkn0wn-root/gemman/internal/action"
	"github.com/unkn0wn-root/gemman/internal/errdef"
	"github.com/unkn0wn-root/gemman/internal/history"
	"github.com/unkn0wn-root/gemman/internal/settings"
	"github.com/unkn0wn-root/gemman/internal/storage"
	"github.com/unkn0wn-root/gemman/internal/theme"
)

// overlayTTL is how long a notification stays up before a tick clears it.
const overlayTTL = 5 * time.Second

type overlayLevel int

const (
	overlayError overlayLevel = iota
	overlaySuccess
)

type overlayState struct {
	message string
	level   overlayLevel
	until   time.Time
}

// ViewManager owns which screen is visible and how screens hand off to each
// other. Every action flows through it; views never switch themselves.
type ViewManager struct {
	store    *storage.Store
	settings *settings.Store
	catalog  theme.Catalog
	dispatch Dispatcher

	components map[ViewType]Component
	active     ViewType

	// previous is a single-slot history for screens reachable from
	// anywhere (settings, the confirm dialog).
	previous ViewType

	// cameFromDetail steers where an edit form returns to.
	cameFromDetail bool

	pendingExtensionID string
	pendingProfileID   string

	overlay overlayState
	now     func() time.Time

	width  int
	height int
}

func NewViewManager(store *storage.Store, st *settings.Store, launches *history.Store, catalog theme.Catalog) *ViewManager {
	vm := &ViewManager{
		store:      store,
		settings:   st,
		catalog:    catalog,
		components: make(map[ViewType]Component),
		active:     ViewExtensionList,
		previous:   ViewExtensionList,
		now:        time.Now,
	}
	vm.components[ViewExtensionList] = NewExtensionList(store, st)
	vm.components[ViewExtensionDetail] = NewExtensionDetail(store, st)
	vm.components[ViewProfileList] = NewProfileList(store, st)
	vm.components[ViewProfileDetail] = NewProfileDetail(store, st, launches)
	vm.components[ViewSettings] = NewSettingsView(st, catalog)
	return vm
}

func (vm *ViewManager) SetDispatcher(d Dispatcher) {
	vm.dispatch = d
	for _, c := range vm.components {
		c.SetDispatcher(d)
	}
}

func (vm *ViewManager) Init() error {
	for _, c := range vm.components {
		if err := c.Init(); err != nil {
			return err
		}
	}
	return nil
}

func (vm *ViewManager) Active() ViewType { return vm.active }

func (vm *ViewManager) activeComponent() Component { return vm.components[vm.active] }

// WantsRawInput reports whether global chords must be bypassed: form views
// capture text, the confirm dialog must not lose focus mid-decision, and
// list filters or binding capture grab the keyboard.
func (vm *ViewManager) WantsRawInput() bool {
	if vm.active.isForm() || vm.active == ViewConfirmDelete {
		return true
	}
	if ri, ok := vm.activeComponent().(rawInputter); ok {
		return ri.CapturingInput()
	}
	return false
}

// OverlayVisible reports whether a notification is currently shown.
func (vm *ViewManager) OverlayVisible() bool {
	return vm.overlay.message != "" && vm.now().Before(vm.overlay.until)
}

func (vm *ViewManager) HandleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyEsc && vm.OverlayVisible() {
		vm.overlay = overlayState{}
		return nil
	}

	component := vm.activeComponent()
	if component == nil {
		return nil
	}
	consumed, cmd := component.HandleKey(msg)
	if consumed {
		return cmd
	}

	switch {
	case vm.settings.Matches(msg, "back"):
		vm.dispatch(action.NavigateBack{})
	case vm.settings.Matches(msg, "quit"):
		vm.dispatch(action.Quit{})
	}
	return cmd
}

// HandleMsg routes widget runtime messages to the active view.
func (vm *ViewManager) HandleMsg(msg tea.Msg) tea.Cmd {
	if sink, ok := vm.activeComponent().(msgSink); ok {
		return sink.HandleMsg(msg)
	}
	return nil
}

// HandleAction applies one action to navigation state, then fans it out to
// every live component.
func (vm *ViewManager) HandleAction(act action.Action) {
	switch a := act.(type) {
	case action.Tick:
		if vm.overlay.message != "" && !vm.now().Before(vm.overlay.until) {
			vm.overlay = overlayState{}
		}

	case action.Error:
		vm.overlay = overlayState{message: a.Message, level: overlayError, until: vm.now().Add(overlayTTL)}
	case action.Success:
		vm.overlay = overlayState{message: a.Message, level: overlaySuccess, until: vm.now().Add(overlayTTL)}

	case action.Resize:
		vm.width, vm.height = a.Width, a.Height

	case action.NavigateToExtensions:
		vm.switchTo(ViewExtensionList)
	case action.NavigateToProfiles:
		vm.switchTo(ViewProfileList)
	case action.NavigateToSettings:
		if vm.active != ViewSettings {
			vm.previous = vm.active
		}
		vm.switchTo(ViewSettings)
	case action.NavigateBack:
		vm.navigateBack()
	case action.CycleTab:
		vm.cycleTab()

	case action.ViewExtensionDetails:
		vm.switchTo(ViewExtensionDetail)
	case action.CreateNewExtension:
		vm.openForm(ViewExtensionCreate, NewExtensionForm(vm.store, nil), false)
	case action.EditExtension:
		ext, err := vm.store.LoadExtension(a.ID)
		if err != nil {
			vm.dispatch(action.Error{Message: errdef.Message(err)})
			return
		}
		vm.openForm(ViewExtensionEdit, NewExtensionForm(vm.store, &ext), vm.active == ViewExtensionDetail)
	case action.DeleteExtension:
		vm.requestExtensionDelete(a.ID)
	case action.ImportExtension:
		vm.openForm(ViewImportDialog, NewImportDialog(vm.store), false)

	case action.ViewProfileDetails:
		vm.switchTo(ViewProfileDetail)
	case action.CreateProfile:
		form, err := NewProfileForm(vm.store, nil)
		if err != nil {
			vm.dispatch(action.Error{Message: errdef.Message(err)})
			return
		}
		vm.openForm(ViewProfileCreate, form, false)
	case action.EditProfile:
		profile, err := vm.store.LoadProfile(a.ID)
		if err != nil {
			vm.dispatch(action.Error{Message: errdef.Message(err)})
			return
		}
		form, err := NewProfileForm(vm.store, &profile)
		if err != nil {
			vm.dispatch(action.Error{Message: errdef.Message(err)})
			return
		}
		vm.openForm(ViewProfileEdit, form, vm.active == ViewProfileDetail)
	case action.DeleteProfile:
		vm.requestProfileDelete(a.ID)

	case action.ConfirmDelete:
		vm.confirmPendingDelete()
	case action.CancelDelete:
		vm.cancelPendingDelete()
	}

	vm.fanOut(act)
}

// fanOut hands the action to every component so views stay current even
// while hidden (list refreshes, detail reloads, resizes).
func (vm *ViewManager) fanOut(act action.Action) {
	for _, c := range vm.components {
		c.Apply(act)
	}
}

func (vm *ViewManager) switchTo(view ViewType) {
	if vm.active == view {
		return
	}
	// Leaving a form throws away its instance so the next open starts clean.
	if vm.active.isForm() || vm.active == ViewConfirmDelete {
		delete(vm.components, vm.active)
	}
	vm.active = view
}

// openForm installs a fresh form instance and focuses it.
func (vm *ViewManager) openForm(view ViewType, form Component, fromDetail bool) {
	form.SetDispatcher(vm.dispatch)
	if err := form.Init(); err != nil {
		vm.dispatch(action.Error{Message: errdef.Message(err)})
		return
	}
	form.Apply(action.Resize{Width: vm.width, Height: vm.height})
	vm.components[view] = form
	vm.cameFromDetail = fromDetail
	vm.switchTo(view)
}

func (vm *ViewManager) requestExtensionDelete(id string) {
	referencing, err := vm.store.ReferencingProfiles(id)
	if err != nil {
		vm.dispatch(action.Error{Message: errdef.Message(err)})
		return
	}
	if len(referencing) > 0 {
		names := make([]string, 0, len(referencing))
		for _, p := range referencing {
			names = append(names, p.DisplayName())
		}
		vm.dispatch(action.Error{Message: fmt.Sprintf(
			"Cannot delete: extension is used by %d profile(s): %s",
			len(referencing), strings.Join(names, ", "))})
		return
	}

	ext, err := vm.store.LoadExtension(id)
	if err != nil {
		vm.dispatch(action.Error{Message: errdef.Message(err)})
		return
	}

	vm.pendingExtensionID = id
	vm.pendingProfileID = ""
	vm.openConfirm(fmt.Sprintf("Delete extension %q?", ext.DisplayName()))
}

func (vm *ViewManager) requestProfileDelete(id string) {
	profile, err := vm.store.LoadProfile(id)
	if err != nil {
		vm.dispatch(action.Error{Message: errdef.Message(err)})
		return
	}

	vm.pendingProfileID = id
	vm.pendingExtensionID = ""
	vm.openConfirm(fmt.Sprintf("Delete profile %q?", profile.DisplayName()))
}

func (vm *ViewManager) openConfirm(prompt string) {
	dialog := NewConfirmDialog(prompt)
	dialog.SetDispatcher(vm.dispatch)
	dialog.Apply(action.Resize{Width: vm.width, Height: vm.height})
	vm.components[ViewConfirmDelete] = dialog
	vm.previous = vm.active
	vm.switchTo(ViewConfirmDelete)
}

// confirmPendingDelete performs the delete the dialog asked about. A
// profile delete wins when both ids are somehow set; with nothing pending
// the action is a no-op, so repeated confirms cannot double-delete.
func (vm *ViewManager) confirmPendingDelete() {
	switch {
	case vm.pendingProfileID != "":
		id := vm.pendingProfileID
		vm.pendingProfileID = ""
		vm.pendingExtensionID = ""
		if err := vm.store.DeleteProfile(id); err != nil {
			vm.dispatch(action.Error{Message: errdef.Message(err)})
			vm.switchTo(ViewProfileList)
			return
		}
		vm.dispatch(action.Success{Message: "Profile deleted"})
		vm.dispatch(action.RefreshProfiles{})
		vm.switchTo(ViewProfileList)

	case vm.pendingExtensionID != "":
		id := vm.pendingExtensionID
		vm.pendingExtensionID = ""
		if err := vm.store.DeleteExtension(id); err != nil {
			vm.dispatch(action.Error{Message: errdef.Message(err)})
			vm.switchTo(ViewExtensionList)
			return
		}
		vm.dispatch(action.Success{Message: "Extension deleted"})
		vm.dispatch(action.RefreshExtensions{})
		vm.switchTo(ViewExtensionList)
	}
}

func (vm *ViewManager) cancelPendingDelete() {
	vm.pendingExtensionID = ""
	vm.pendingProfileID = ""
	if vm.active == ViewConfirmDelete {
		vm.switchTo(vm.previous)
	}
}

// cycleTab moves to the next top-level tab's landing view. Forms and the
// confirm dialog capture raw input, so this only fires from list, detail
// and settings views.
func (vm *ViewManager) cycleTab() {
	switch vm.active.tab() {
	case tabExtensions:
		vm.switchTo(ViewProfileList)
	case tabProfiles:
		vm.previous = vm.active
		vm.switchTo(ViewSettings)
	case tabSettings:
		vm.switchTo(ViewExtensionList)
	}
}

func (vm *ViewManager) navigateBack() {
	switch vm.active {
	case ViewExtensionDetail:
		vm.switchTo(ViewExtensionList)
	case ViewProfileDetail:
		vm.switchTo(ViewProfileList)
	case ViewExtensionCreate:
		vm.switchTo(ViewExtensionList)
	case ViewExtensionEdit:
		target := ViewExtensionList
		if vm.cameFromDetail {
			target = ViewExtensionDetail
		}
		vm.cameFromDetail = false
		vm.switchTo(target)
	case ViewProfileCreate:
		vm.switchTo(ViewProfileList)
	case ViewProfileEdit:
		target := ViewProfileList
		if vm.cameFromDetail {
			target = ViewProfileDetail
		}
		vm.cameFromDetail = false
		vm.switchTo(target)
	case ViewImportDialog:
		vm.switchTo(ViewExtensionList)
	case ViewConfirmDelete:
		vm.cancelPendingDelete()
	case ViewSettings:
		vm.switchTo(vm.previous)
	}
}

func (vm *ViewManager) View(rc RenderContext) string {
	sections := []string{renderTabBar(rc, vm.active.tab())}

	if vm.OverlayVisible() {
		style := rc.Theme.ErrorOverlay
		prefix := "error: "
		if vm.overlay.level == overlaySuccess {
			style = rc.Theme.SuccessText
			prefix = ""
		}
		message := prefix + vm.overlay.message
		if rc.Width > 0 {
			message = truncateLine(message, rc.Width-6)
		}
		sections = append(sections, style.Render(message))
	}

	component := vm.activeComponent()
	if component != nil {
		sections = append(sections, component.View(rc))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
