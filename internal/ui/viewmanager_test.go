package ui

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/unkn0wn-root/gemman/internal/action"
	"github.com/unkn0wn-root/gemman/internal/config"
	"github.com/unkn0wn-root/gemman/internal/history"
	"github.com/unkn0wn-root/gemman/internal/model"
	"github.com/unkn0wn-root/gemman/internal/settings"
	"github.com/unkn0wn-root/gemman/internal/storage"
	"github.com/unkn0wn-root/gemman/internal/theme"
)

type harness struct {
	t     *testing.T
	vm    *ViewManager
	store *storage.Store
	queue []action.Action
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	store := storage.NewStore(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatalf("store init: %v", err)
	}

	catalog, err := theme.LoadCatalog(nil)
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}

	launches := history.NewStore(filepath.Join(t.TempDir(), "launches.json"), 50)

	h := &harness{t: t, store: store}
	h.vm = NewViewManager(store, settings.NewStore(config.DefaultSettings()), launches, catalog)
	h.vm.SetDispatcher(func(act action.Action) {
		h.queue = append(h.queue, act)
	})
	if err := h.vm.Init(); err != nil {
		t.Fatalf("vm init: %v", err)
	}
	return h
}

// send runs an action and then every follow-up the handlers dispatched, the
// same way the app loop drains its queue.
func (h *harness) send(act action.Action) {
	h.vm.HandleAction(act)
	for len(h.queue) > 0 {
		next := h.queue[0]
		h.queue = h.queue[1:]
		h.vm.HandleAction(next)
	}
}

func (h *harness) saveExtension(name string) model.Extension {
	h.t.Helper()
	ext := model.Extension{ID: "ext-" + name, Name: name}
	if err := h.store.SaveExtension(ext); err != nil {
		h.t.Fatalf("save extension: %v", err)
	}
	return ext
}

func (h *harness) saveProfile(name string, extIDs ...string) model.Profile {
	h.t.Helper()
	profile := model.Profile{ID: "prof-" + name, Name: name, ExtensionIDs: extIDs}
	if err := h.store.SaveProfile(profile); err != nil {
		h.t.Fatalf("save profile: %v", err)
	}
	return profile
}

func TestTabNavigation(t *testing.T) {
	h := newHarness(t)

	h.send(action.NavigateToProfiles{})
	if h.vm.Active() != ViewProfileList {
		t.Fatalf("active = %v, want profile list", h.vm.Active())
	}
	h.send(action.NavigateToSettings{})
	if h.vm.Active() != ViewSettings {
		t.Fatalf("active = %v, want settings", h.vm.Active())
	}
	// Settings remembers where it was opened from.
	h.send(action.NavigateBack{})
	if h.vm.Active() != ViewProfileList {
		t.Fatalf("back from settings = %v, want profile list", h.vm.Active())
	}
}

func TestEditReturnsWhereItStarted(t *testing.T) {
	h := newHarness(t)
	ext := h.saveExtension("alpha")

	// Edit straight from the list goes back to the list.
	h.send(action.EditExtension{ID: ext.ID})
	if h.vm.Active() != ViewExtensionEdit {
		t.Fatalf("active = %v, want edit form", h.vm.Active())
	}
	h.send(action.NavigateBack{})
	if h.vm.Active() != ViewExtensionList {
		t.Fatalf("back from list-edit = %v, want extension list", h.vm.Active())
	}

	// Edit from the detail view goes back to the detail view.
	h.send(action.ViewExtensionDetails{ID: ext.ID})
	h.send(action.EditExtension{ID: ext.ID})
	h.send(action.NavigateBack{})
	if h.vm.Active() != ViewExtensionDetail {
		t.Fatalf("back from detail-edit = %v, want extension detail", h.vm.Active())
	}
	if h.vm.cameFromDetail {
		t.Fatal("detail origin flag should reset once the edit closes")
	}
}

func TestProfileCreateBackReturnsToList(t *testing.T) {
	h := newHarness(t)

	h.send(action.NavigateToProfiles{})
	h.send(action.CreateProfile{})
	if h.vm.Active() != ViewProfileCreate {
		t.Fatalf("active = %v, want profile create form", h.vm.Active())
	}

	h.send(action.NavigateBack{})
	if h.vm.Active() != ViewProfileList {
		t.Fatalf("back from profile create = %v, want profile list", h.vm.Active())
	}
}

func TestDeleteBlockedByReferencingProfiles(t *testing.T) {
	h := newHarness(t)
	ext := h.saveExtension("used")
	h.saveProfile("dev", ext.ID)

	h.send(action.DeleteExtension{ID: ext.ID})

	if h.vm.Active() == ViewConfirmDelete {
		t.Fatal("confirm dialog should not open for a referenced extension")
	}
	if !h.vm.OverlayVisible() {
		t.Fatal("expected an error overlay")
	}
	if h.vm.overlay.level != overlayError {
		t.Fatal("overlay should be an error")
	}
	if !strings.Contains(h.vm.overlay.message, "dev") {
		t.Fatalf("overlay %q should name the referencing profile", h.vm.overlay.message)
	}

	if _, err := h.store.LoadExtension(ext.ID); err != nil {
		t.Fatalf("extension should still exist: %v", err)
	}
}

func TestDeleteExtensionFlow(t *testing.T) {
	h := newHarness(t)
	ext := h.saveExtension("doomed")

	h.send(action.DeleteExtension{ID: ext.ID})
	if h.vm.Active() != ViewConfirmDelete {
		t.Fatalf("active = %v, want confirm dialog", h.vm.Active())
	}

	h.send(action.ConfirmDelete{})
	if h.vm.Active() != ViewExtensionList {
		t.Fatalf("active = %v, want extension list after delete", h.vm.Active())
	}
	if _, err := h.store.LoadExtension(ext.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("load deleted extension err = %v, want ErrNotFound", err)
	}
}

func TestConfirmDeleteWithoutPendingIsNoop(t *testing.T) {
	h := newHarness(t)
	ext := h.saveExtension("survivor")

	before := h.vm.Active()
	h.send(action.ConfirmDelete{})
	h.send(action.ConfirmDelete{})

	if h.vm.Active() != before {
		t.Fatalf("view changed on stray confirm: %v", h.vm.Active())
	}
	if _, err := h.store.LoadExtension(ext.ID); err != nil {
		t.Fatalf("extension should be untouched: %v", err)
	}
}

func TestCancelDeleteReturnsToPreviousView(t *testing.T) {
	h := newHarness(t)
	profile := h.saveProfile("keep")

	h.send(action.ViewProfileDetails{ID: profile.ID})
	h.send(action.DeleteProfile{ID: profile.ID})
	if h.vm.Active() != ViewConfirmDelete {
		t.Fatalf("active = %v, want confirm dialog", h.vm.Active())
	}

	h.send(action.CancelDelete{})
	if h.vm.Active() != ViewProfileDetail {
		t.Fatalf("active = %v, want profile detail after cancel", h.vm.Active())
	}
	if _, err := h.store.LoadProfile(profile.ID); err != nil {
		t.Fatalf("profile should still exist: %v", err)
	}

	// The pending id is gone, so confirming now deletes nothing.
	h.send(action.ConfirmDelete{})
	if _, err := h.store.LoadProfile(profile.ID); err != nil {
		t.Fatalf("profile should survive confirm after cancel: %v", err)
	}
}

func TestOverlayExpiresOnTick(t *testing.T) {
	h := newHarness(t)

	now := time.Now()
	h.vm.now = func() time.Time { return now }

	h.send(action.Error{Message: "boom"})
	if !h.vm.OverlayVisible() {
		t.Fatal("overlay should be visible")
	}

	// Ticks inside the TTL leave the overlay alone.
	now = now.Add(overlayTTL / 2)
	h.send(action.Tick{})
	if !h.vm.OverlayVisible() {
		t.Fatal("overlay should survive an early tick")
	}

	now = now.Add(overlayTTL)
	h.send(action.Tick{})
	if h.vm.OverlayVisible() {
		t.Fatal("overlay should expire after its TTL")
	}
}

func TestEscClearsOverlay(t *testing.T) {
	h := newHarness(t)

	h.send(action.Error{Message: "boom"})
	h.vm.HandleKey(tea.KeyMsg{Type: tea.KeyEsc})
	if h.vm.OverlayVisible() {
		t.Fatal("Esc should clear the overlay")
	}
	// With no overlay up the same key navigates back instead.
	if h.vm.Active() != ViewExtensionList {
		t.Fatalf("active = %v, want extension list", h.vm.Active())
	}
}

func TestFormsStartFresh(t *testing.T) {
	h := newHarness(t)

	h.send(action.CreateNewExtension{})
	form := h.vm.components[ViewExtensionCreate].(*ExtensionForm)
	form.name.SetValue("half-typed")

	h.send(action.NavigateBack{})
	if h.vm.Active() != ViewExtensionList {
		t.Fatalf("active = %v, want extension list", h.vm.Active())
	}

	h.send(action.CreateNewExtension{})
	fresh := h.vm.components[ViewExtensionCreate].(*ExtensionForm)
	if fresh == form {
		t.Fatal("reopened form should be a new instance")
	}
	if fresh.name.Value() != "" {
		t.Fatalf("fresh form has stale name %q", fresh.name.Value())
	}
}

func TestFormViewsWantRawInput(t *testing.T) {
	h := newHarness(t)

	if h.vm.WantsRawInput() {
		t.Fatal("list view should not capture raw input")
	}
	h.send(action.ImportExtension{})
	if !h.vm.WantsRawInput() {
		t.Fatal("import dialog should capture raw input")
	}
	h.send(action.NavigateBack{})
	h.send(action.CreateProfile{})
	if !h.vm.WantsRawInput() {
		t.Fatal("profile form should capture raw input")
	}
}
