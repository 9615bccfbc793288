package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"

	"github.com/javiermolinar/agenda/internal/config"
	"github.com/javiermolinar/agenda/internal/editor"
	"github.com/javiermolinar/agenda/internal/schedule"
	"github.com/javiermolinar/agenda/internal/tui/commands"
)

// memRepo keeps encoded states in memory.
type memRepo struct {
	data    map[string][]byte
	saveErr error
	saves   int
}

func (r *memRepo) Load(_ context.Context, key string) (*schedule.State, error) {
	raw, ok := r.data[key]
	if !ok {
		return nil, nil
	}
	return schedule.DecodeState(raw)
}

func (r *memRepo) Save(_ context.Context, key string, state *schedule.State) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	raw, err := schedule.EncodeState(state)
	if err != nil {
		return err
	}
	r.data[key] = raw
	r.saves++
	return nil
}

func (r *memRepo) Close() error { return nil }

func (r *memRepo) stored(t *testing.T) *schedule.State {
	t.Helper()
	state, err := r.Load(context.Background(), "test")
	if err != nil || state == nil {
		t.Fatalf("no stored state: %v", err)
	}
	return state
}

// Terminal geometry used by most tests: 10 minute rows, whole day visible,
// day columns 12 cells wide starting at x=6.
const (
	testWidth  = 120
	testHeight = 150
)

func newTestModel(t *testing.T, width, height int) (Model, *memRepo) {
	t.Helper()
	repo := &memRepo{data: make(map[string][]byte)}
	n := 0
	sess, err := editor.Open(context.Background(), repo, "test", schedule.DefaultSettings(), nil,
		editor.WithStoreOptions(schedule.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("b%d", n)
		})))
	if err != nil {
		t.Fatalf("opening session: %v", err)
	}

	m := New(sess, config.Default(), nil)
	m.focusDay = schedule.Monday
	updated, _ := m.Update(tea.WindowSizeMsg{Width: width, Height: height})
	return updated.(Model), repo
}

// dayX returns a column inside the given weekday.
func dayX(m Model, w schedule.Weekday) int {
	return timeColWidth + int(w)*m.layout.ColWidth + 1
}

// rowY returns the screen row showing minute.
func rowY(m Model, minute int) int {
	return m.layout.GridTop + minute/m.layout.RowMinutes - m.scroll
}

func mouse(t *testing.T, m Model, action tea.MouseAction, x, y int) Model {
	t.Helper()
	updated, cmd := m.Update(tea.MouseMsg{X: x, Y: y, Action: action, Button: tea.MouseButtonLeft})
	return drain(t, updated.(Model), cmd)
}

func key(t *testing.T, m Model, k string) Model {
	t.Helper()
	var msg tea.KeyMsg
	switch k {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "left":
		msg = tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		msg = tea.KeyMsg{Type: tea.KeyRight}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	updated, cmd := m.Update(msg)
	return drain(t, updated.(Model), cmd)
}

// drain runs commands and feeds their messages back into the model. Commands
// that do not finish promptly (ticks) are dropped.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := runWithTimeout(c).(type) {
		case nil, commands.ClearStatusMsg, tea.QuitMsg:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			updated, next := m.Update(msg)
			m = updated.(Model)
			queue = append(queue, next)
		}
	}
	return m
}

func runWithTimeout(c tea.Cmd) tea.Msg {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- c() }()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(100 * time.Millisecond):
		return nil
	}
}

func mustAdd(t *testing.T, m Model, w schedule.Weekday, mod schedule.Modality, start, end int) schedule.Block {
	t.Helper()
	b, err := m.store.AddBlock(w, mod, start, end)
	if err != nil {
		t.Fatalf("AddBlock failed: %v", err)
	}
	return b
}

func TestDragCreatesAndSavesBlock(t *testing.T) {
	m, repo := newTestModel(t, testWidth, testHeight)
	x := dayX(m, schedule.Tuesday)

	m = mouse(t, m, tea.MouseActionPress, x, rowY(m, 540))
	if _, ok := m.controller.Operation().(editor.Creating); !ok {
		t.Fatalf("operation = %T, want Creating", m.controller.Operation())
	}
	m = mouse(t, m, tea.MouseActionMotion, x, rowY(m, 590))
	m = mouse(t, m, tea.MouseActionRelease, x, rowY(m, 590))

	blocks := m.store.Blocks()
	if len(blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(blocks))
	}
	b := blocks[0]
	if b.Weekday != schedule.Tuesday || b.StartMin != 540 || b.EndMin != 600 || b.Modality != schedule.ModalityOnline {
		t.Errorf("block = %s, want tue 09:00-10:00 online", b)
	}
	if m.panel.Selected() != b.ID {
		t.Error("created block should be selected")
	}
	if m.focusDay != schedule.Tuesday {
		t.Errorf("focusDay = %s, want tuesday", m.focusDay)
	}
	if m.Dirty() {
		t.Error("model should be clean after the save completed")
	}
	if got := repo.stored(t); len(got.Blocks) != 1 {
		t.Errorf("stored %d blocks, want 1", len(got.Blocks))
	}
}

func TestClickWithoutDragUsesDefaultLength(t *testing.T) {
	m, _ := newTestModel(t, testWidth, testHeight)
	x := dayX(m, schedule.Monday)

	m = mouse(t, m, tea.MouseActionPress, x, rowY(m, 600))
	m = mouse(t, m, tea.MouseActionRelease, x, rowY(m, 600))

	blocks := m.store.Blocks()
	if len(blocks) != 1 || blocks[0].StartMin != 600 || blocks[0].EndMin != 630 {
		t.Errorf("blocks = %v, want mon 10:00-10:30", blocks)
	}
}

func TestModalityFixedAtDragStart(t *testing.T) {
	m, _ := newTestModel(t, testWidth, testHeight)
	x := dayX(m, schedule.Monday)

	m = mouse(t, m, tea.MouseActionPress, x, rowY(m, 540))
	m = key(t, m, "m") // ignored while dragging
	m = mouse(t, m, tea.MouseActionRelease, x, rowY(m, 540))

	if got := m.store.Blocks()[0].Modality; got != schedule.ModalityOnline {
		t.Errorf("modality = %s, want online", got)
	}
	if m.modality != schedule.ModalityOnline {
		t.Errorf("active modality changed during drag to %s", m.modality)
	}

	m = key(t, m, "m")
	if m.modality != schedule.ModalityInPerson {
		t.Fatalf("active modality = %s, want in_person", m.modality)
	}
	m = mouse(t, m, tea.MouseActionPress, x, rowY(m, 720))
	m = mouse(t, m, tea.MouseActionRelease, x, rowY(m, 720))

	blocks := m.store.BlocksOn(schedule.Monday)
	if len(blocks) != 2 || blocks[1].Modality != schedule.ModalityInPerson || blocks[1].EndMin != 770 {
		t.Errorf("blocks = %v, want second block 12:00-12:50 in person", blocks)
	}
}

func TestPressOnBlockBodySelects(t *testing.T) {
	m, repo := newTestModel(t, testWidth, testHeight)
	b := mustAdd(t, m, schedule.Wednesday, schedule.ModalityInPerson, 540, 600)

	m = mouse(t, m, tea.MouseActionPress, dayX(m, schedule.Wednesday), rowY(m, 550))
	m = mouse(t, m, tea.MouseActionRelease, dayX(m, schedule.Wednesday), rowY(m, 550))

	if m.panel.Selected() != b.ID {
		t.Errorf("selected = %q, want %q", m.panel.Selected(), b.ID)
	}
	if !m.controller.IsIdle() {
		t.Error("a body press should not start a gesture")
	}
	if m.store.Len() != 1 || repo.saves != 0 {
		t.Errorf("len = %d saves = %d, want 1 and 0", m.store.Len(), repo.saves)
	}
}

func TestDragHandleResizesLive(t *testing.T) {
	m, repo := newTestModel(t, testWidth, testHeight)
	b := mustAdd(t, m, schedule.Monday, schedule.ModalityOnline, 540, 600)
	mustAdd(t, m, schedule.Monday, schedule.ModalityOnline, 620, 700)
	x := dayX(m, schedule.Monday)

	m = mouse(t, m, tea.MouseActionPress, x, rowY(m, 590)) // last row of the block
	if _, ok := m.controller.Operation().(editor.Resizing); !ok {
		t.Fatalf("operation = %T, want Resizing", m.controller.Operation())
	}

	m = mouse(t, m, tea.MouseActionMotion, x, rowY(m, 600))
	if got, _ := m.store.Block(b.ID); got.EndMin != 610 {
		t.Errorf("live end = %d, want 610", got.EndMin)
	}
	if m.panel.Draft().EndMin != 610 {
		t.Errorf("panel end = %d, want 610", m.panel.Draft().EndMin)
	}

	m = mouse(t, m, tea.MouseActionMotion, x, rowY(m, 800))
	m = mouse(t, m, tea.MouseActionRelease, x, rowY(m, 800))

	got, _ := m.store.Block(b.ID)
	if got.EndMin != 620 {
		t.Errorf("end = %d, want clamped to 620", got.EndMin)
	}
	if repo.saves != 1 {
		t.Errorf("saves = %d, want 1 per gesture", repo.saves)
	}
}

func TestResizeWithoutChangeDoesNotSave(t *testing.T) {
	m, repo := newTestModel(t, testWidth, testHeight)
	mustAdd(t, m, schedule.Monday, schedule.ModalityOnline, 540, 600)
	x := dayX(m, schedule.Monday)

	m = mouse(t, m, tea.MouseActionPress, x, rowY(m, 590))
	m = mouse(t, m, tea.MouseActionRelease, x, rowY(m, 590))

	if repo.saves != 0 {
		t.Errorf("saves = %d, want 0", repo.saves)
	}
	if !m.controller.IsIdle() {
		t.Error("controller should be idle after release")
	}
}

func TestEscCancelsCreateDrag(t *testing.T) {
	m, _ := newTestModel(t, testWidth, testHeight)
	x := dayX(m, schedule.Monday)

	m = mouse(t, m, tea.MouseActionPress, x, rowY(m, 540))
	m = mouse(t, m, tea.MouseActionMotion, x, rowY(m, 700))
	m = key(t, m, "esc")
	m = mouse(t, m, tea.MouseActionRelease, x, rowY(m, 700))

	if m.store.Len() != 0 {
		t.Errorf("len = %d, want 0 after cancel", m.store.Len())
	}
	if !m.controller.IsIdle() {
		t.Error("controller should be idle")
	}
}

func TestCreateDragClampedByNextBlock(t *testing.T) {
	m, _ := newTestModel(t, testWidth, testHeight)
	mustAdd(t, m, schedule.Monday, schedule.ModalityOnline, 600, 660)
	x := dayX(m, schedule.Monday)

	m = mouse(t, m, tea.MouseActionPress, x, rowY(m, 540))
	m = mouse(t, m, tea.MouseActionMotion, x, rowY(m, 900))
	m = mouse(t, m, tea.MouseActionRelease, x, rowY(m, 900))

	blocks := m.store.BlocksOn(schedule.Monday)
	if len(blocks) != 2 || blocks[0].StartMin != 540 || blocks[0].EndMin != 600 {
		t.Errorf("blocks = %v, want new block 09:00-10:00", blocks)
	}
}

func TestAddKeyAndPanelEdit(t *testing.T) {
	m, repo := newTestModel(t, testWidth, testHeight)

	m = key(t, m, "n")
	b, ok := m.store.Block(m.panel.Selected())
	if !ok {
		t.Fatal("added block should be selected")
	}
	if b.Weekday != schedule.Monday || b.StartMin != 540 || b.EndMin != 570 {
		t.Errorf("added = %s, want mon 09:00-09:30", b)
	}
	if m.field != editor.FieldStart {
		t.Errorf("field = %s, want Start", m.field)
	}

	m = key(t, m, "right")
	if d := m.panel.Draft(); d.StartMin != 550 || d.EndMin != 580 {
		t.Errorf("draft = %d-%d, want 550-580", d.StartMin, d.EndMin)
	}
	if got, _ := m.store.Block(b.ID); got.StartMin != 540 {
		t.Error("draft changes must not reach the store before enter")
	}

	m = key(t, m, "enter")
	if got, _ := m.store.Block(b.ID); got.StartMin != 550 || got.EndMin != 580 {
		t.Errorf("stored = %s, want 09:10-09:40", got)
	}
	if got := repo.stored(t); got.Blocks[0].StartMin != 550 {
		t.Errorf("persisted start = %d, want 550", got.Blocks[0].StartMin)
	}
}

func TestTimeInput(t *testing.T) {
	m, _ := newTestModel(t, testWidth, testHeight)
	m = key(t, m, "n")

	m = key(t, m, "e")
	if m.mode != ModeTimeInput {
		t.Fatalf("mode = %d, want time input", m.mode)
	}
	if m.timeInput.Value() != "09:00" {
		t.Errorf("input = %q, want 09:00", m.timeInput.Value())
	}

	m.timeInput.SetValue("25:00")
	m = key(t, m, "enter")
	if m.mode != ModeTimeInput || !m.statusErr {
		t.Error("an invalid time should keep the prompt open with an error")
	}

	m.timeInput.SetValue("10:00")
	m = key(t, m, "enter")
	if m.mode != ModeNormal {
		t.Errorf("mode = %d, want normal", m.mode)
	}
	if d := m.panel.Draft(); d.StartMin != 600 || d.EndMin != 630 {
		t.Errorf("draft = %d-%d, want 600-630", d.StartMin, d.EndMin)
	}

	m = key(t, m, "enter")
	if got, _ := m.store.Block(m.panel.Selected()); got.StartMin != 600 {
		t.Errorf("stored start = %d, want 600", got.StartMin)
	}
}

func TestTimeInputNeedsTimeField(t *testing.T) {
	m, _ := newTestModel(t, testWidth, testHeight)
	m = key(t, m, "n")
	m.field = editor.FieldModality

	m = key(t, m, "e")
	if m.mode != ModeNormal {
		t.Error("e on the modality field should not open the time prompt")
	}
}

func TestApplyOverlapShowsError(t *testing.T) {
	m, repo := newTestModel(t, testWidth, testHeight)
	a := mustAdd(t, m, schedule.Monday, schedule.ModalityOnline, 540, 600)
	mustAdd(t, m, schedule.Monday, schedule.ModalityOnline, 620, 700)
	m = mouse(t, m, tea.MouseActionPress, dayX(m, schedule.Monday), rowY(m, 550))

	for range 3 {
		m = key(t, m, "tab")
	}
	if m.field != editor.FieldEnd {
		t.Fatalf("field = %s, want End", m.field)
	}
	for range 3 {
		m = key(t, m, "right")
	}
	m = key(t, m, "enter")

	if m.statusMsg != schedule.MsgOverlap || !m.statusErr {
		t.Errorf("status = %q (err %t), want %q", m.statusMsg, m.statusErr, schedule.MsgOverlap)
	}
	if got, _ := m.store.Block(a.ID); got != a {
		t.Errorf("stored block changed to %s", got)
	}
	if m.panel.Draft().EndMin != 630 {
		t.Error("draft should be kept after a rejected apply")
	}
	if repo.saves != 0 {
		t.Errorf("saves = %d, want 0", repo.saves)
	}
}

func TestDeleteKey(t *testing.T) {
	m, repo := newTestModel(t, testWidth, testHeight)
	mustAdd(t, m, schedule.Monday, schedule.ModalityOnline, 540, 600)
	m = mouse(t, m, tea.MouseActionPress, dayX(m, schedule.Monday), rowY(m, 550))

	m = key(t, m, "d")

	if m.store.Len() != 0 || m.panel.HasSelection() {
		t.Errorf("len = %d selected = %t, want empty", m.store.Len(), m.panel.HasSelection())
	}
	if got := repo.stored(t); len(got.Blocks) != 0 {
		t.Errorf("stored %d blocks, want 0", len(got.Blocks))
	}
}

func TestClearRequiresConfirmation(t *testing.T) {
	m, _ := newTestModel(t, testWidth, testHeight)
	mustAdd(t, m, schedule.Monday, schedule.ModalityOnline, 540, 600)
	mustAdd(t, m, schedule.Friday, schedule.ModalityInPerson, 540, 600)

	m = key(t, m, "X")
	if m.mode != ModeConfirmClear || m.store.Len() != 2 {
		t.Fatalf("mode = %d len = %d, want confirm and 2", m.mode, m.store.Len())
	}
	m = key(t, m, "a")
	if m.mode != ModeNormal || m.store.Len() != 2 {
		t.Fatalf("any other key should cancel, len = %d", m.store.Len())
	}

	m = key(t, m, "X")
	m = key(t, m, "X")
	if m.store.Len() != 0 {
		t.Errorf("len = %d, want 0", m.store.Len())
	}
}

func TestSettingsKeys(t *testing.T) {
	m, repo := newTestModel(t, testWidth, testHeight)

	m = key(t, m, "1")
	m = key(t, m, "2")
	m = key(t, m, "3")

	want := schedule.Settings{DurationOnline: 40, DurationInPerson: 60, BufferMinutes: 5}
	if got := m.store.Settings(); got != want {
		t.Errorf("settings = %+v, want %+v", got, want)
	}
	if got := repo.stored(t).Settings; got != want {
		t.Errorf("stored settings = %+v, want %+v", got, want)
	}
}

func TestCopyKey(t *testing.T) {
	var written string
	prev := commands.WriteClipboard
	commands.WriteClipboard = func(s string) error {
		written = s
		return nil
	}
	t.Cleanup(func() { commands.WriteClipboard = prev })

	m, _ := newTestModel(t, testWidth, testHeight)
	mustAdd(t, m, schedule.Monday, schedule.ModalityOnline, 540, 600)

	m = key(t, m, "y")

	if !strings.Contains(written, "Mon: 09:00-10:00 Online") {
		t.Errorf("clipboard = %q", written)
	}
	if !strings.HasPrefix(m.statusMsg, "Summary copied") {
		t.Errorf("status = %q", m.statusMsg)
	}
}

func TestSaveErrorKeepsModelDirty(t *testing.T) {
	m, repo := newTestModel(t, testWidth, testHeight)
	repo.saveErr = errors.New("database is locked")

	m = key(t, m, "n")

	if !m.Dirty() {
		t.Error("a failed save should leave the model dirty")
	}
	if !m.statusErr || !strings.Contains(m.statusMsg, "database is locked") {
		t.Errorf("status = %q, want save error", m.statusMsg)
	}
}

func TestNavigationWithoutSelection(t *testing.T) {
	m, _ := newTestModel(t, testWidth, testHeight)

	m = key(t, m, "left")
	if m.focusDay != schedule.Sunday {
		t.Errorf("focusDay = %s, want sunday (wrap)", m.focusDay)
	}
	m = key(t, m, "right")
	m = key(t, m, "right")
	if m.focusDay != schedule.Tuesday {
		t.Errorf("focusDay = %s, want tuesday", m.focusDay)
	}
}

func TestScrollingSmallTerminal(t *testing.T) {
	m, _ := newTestModel(t, 120, 30)
	if m.layout.RowMinutes != 30 {
		t.Fatalf("RowMinutes = %d, want 30", m.layout.RowMinutes)
	}
	if m.scroll != 18 {
		t.Errorf("initial scroll = %d, want 18 (09:00)", m.scroll)
	}

	updated, _ := m.Update(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
	m = updated.(Model)
	if m.scroll != 21 {
		t.Errorf("scroll = %d, want 21", m.scroll)
	}
	m = key(t, m, "k")
	if m.scroll != 20 {
		t.Errorf("scroll = %d, want 20", m.scroll)
	}

	// Dragging with a scrolled grid maps rows through the scroll offset.
	x := dayX(m, schedule.Thursday)
	m = mouse(t, m, tea.MouseActionPress, x, rowY(m, 660))
	m = mouse(t, m, tea.MouseActionMotion, x, rowY(m, 690))
	m = mouse(t, m, tea.MouseActionRelease, x, rowY(m, 690))

	blocks := m.store.BlocksOn(schedule.Thursday)
	if len(blocks) != 1 || blocks[0].StartMin != 660 || blocks[0].EndMin != 720 {
		t.Errorf("blocks = %v, want thu 11:00-12:00", blocks)
	}
}

func TestView(t *testing.T) {
	lipgloss.SetColorProfile(termenv.TrueColor)

	m, _ := newTestModel(t, 120, 40)
	mustAdd(t, m, schedule.Monday, schedule.ModalityOnline, 540, 660)
	mustAdd(t, m, schedule.Friday, schedule.ModalityInPerson, 600, 720)
	m = mouse(t, m, tea.MouseActionPress, dayX(m, schedule.Friday), rowY(m, 600))

	out := m.View()
	lines := strings.Split(out, "\n")
	if len(lines) != 40 {
		t.Fatalf("view has %d lines, want 40", len(lines))
	}
	for i, line := range lines {
		if w := ansi.StringWidth(line); w != 120 {
			t.Errorf("line %d width = %d, want 120", i, w)
		}
	}

	plain := ansi.Strip(out)
	for _, want := range []string{"agenda", "Mon", "*Fri*", "09:00-11:00", handleMark, "Block", "In person", "Week: 4h"} {
		if !strings.Contains(plain, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestView_DraftDuringDrag(t *testing.T) {
	m, _ := newTestModel(t, testWidth, testHeight)
	x := dayX(m, schedule.Monday)
	m = mouse(t, m, tea.MouseActionPress, x, rowY(m, 540))

	if !strings.Contains(ansi.Strip(m.View()), "+09:00-09:30") {
		t.Error("view should show the draft block while dragging")
	}
	if !strings.Contains(m.helpText(), "esc: cancel") {
		t.Errorf("help = %q, want drag help", m.helpText())
	}
}

func TestView_BeforeWindowSize(t *testing.T) {
	repo := &memRepo{data: make(map[string][]byte)}
	sess, err := editor.Open(context.Background(), repo, "test", schedule.DefaultSettings(), nil)
	if err != nil {
		t.Fatalf("opening session: %v", err)
	}
	m := New(sess, config.Default(), nil)
	if got := m.View(); got != "Loading..." {
		t.Errorf("View() = %q, want Loading...", got)
	}
}

func TestCurrentWeekday(t *testing.T) {
	tests := []struct {
		date time.Time
		want schedule.Weekday
	}{
		{time.Date(2026, 10, 12, 9, 0, 0, 0, time.UTC), schedule.Monday},
		{time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC), schedule.Saturday},
		{time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC), schedule.Sunday},
	}
	for _, tt := range tests {
		if got := currentWeekday(tt.date); got != tt.want {
			t.Errorf("currentWeekday(%s) = %s, want %s", tt.date.Format("Mon"), got, tt.want)
		}
	}
}

func TestInitShowsLoadedStatus(t *testing.T) {
	m, _ := newTestModel(t, testWidth, testHeight)
	mustAdd(t, m, schedule.Monday, schedule.ModalityOnline, 540, 600)

	m = drain(t, m, m.Init())

	if m.statusMsg != "Loaded 1 blocks for test" {
		t.Errorf("status = %q", m.statusMsg)
	}
}
