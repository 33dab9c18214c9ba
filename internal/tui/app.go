// Package tui provides the interactive Bubble Tea dashboard for claimsdash.
package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/theirongolddev/claimsdash/internal/api"
	"github.com/theirongolddev/claimsdash/internal/chunks"
	"github.com/theirongolddev/claimsdash/internal/claim"
	"github.com/theirongolddev/claimsdash/internal/pipeline"
	"github.com/theirongolddev/claimsdash/internal/prefs"
	"github.com/theirongolddev/claimsdash/internal/store"
	"github.com/theirongolddev/claimsdash/internal/tui/theme"
	"github.com/theirongolddev/claimsdash/internal/virtual"
	"github.com/theirongolddev/claimsdash/internal/worker"
)

// Backend creates claims and looks up policies.
type Backend interface {
	CreateClaim(ctx context.Context, req api.CreateClaimRequest) (claim.Claim, error)
	LookupPolicy(ctx context.Context, number string) (*api.Policy, error)
}

// Options configures NewApp.
type Options struct {
	Worker  *worker.Worker
	Backend Backend
	Store   store.KV
	Logger  *zap.Logger
	Now     func() time.Time
	// Timeout bounds each create or policy lookup request.
	Timeout time.Duration
}

type viewMode int

const (
	viewTable viewMode = iota
	viewCards
)

type screen int

const (
	screenDashboard screen = iota
	screenForm
)

type claimCreatedMsg struct {
	claim claim.Claim
	err   error
}

type policyLookupMsg struct {
	number string
	policy *api.Policy
	err    error
}

type toastExpiredMsg struct{ seq int }

const (
	toastDuration = 3 * time.Second

	minTerminalWidth = 60
	maxContentWidth  = 200
	minListHeight    = 3

	// Lines of chrome around the list: header, toolbar, perf footer, status bar.
	chromeLines = 4

	wheelLines = 3
)

// App is the root Bubble Tea model.
type App struct {
	worker  *worker.Worker
	backend Backend
	kv      store.KV
	log     *zap.Logger
	now     func() time.Time
	timeout time.Duration

	// Data
	loader  *chunks.Loader
	prefs   prefs.Prefs
	view    pipeline.View
	results []claim.FormattedClaim

	// List position
	mode     viewMode
	selected int // -1 until the first arrow press
	scroll   int // first visible line of the list
	resize   virtual.ResizeNotifier

	// Search
	searchInput textinput.Model
	searching   bool
	debounce    pipeline.Debouncer

	// UI state
	width    int
	height   int
	spinner  spinner.Model
	help     help.Model
	showHelp bool
	detail   *claim.FormattedClaim

	columnPick bool

	// huh dialogs; values live behind pointers since App is copied on
	// every Update.
	filterForm    *huh.Form
	filterPick    *[]string
	confirm       *huh.Form
	confirmResult *bool

	screen screen
	form   *formScreen

	toast    string
	toastErr bool
	toastSeq int
}

// NewApp creates the dashboard model.
func NewApp(opts Options) App {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent)

	si := textinput.New()
	si.Prompt = "/ "
	si.Placeholder = "Search claims..."
	si.CharLimit = 128

	p := prefs.Load(opts.Store)

	return App{
		worker:      opts.Worker,
		backend:     opts.Backend,
		kv:          opts.Store,
		log:         opts.Logger,
		now:         opts.Now,
		timeout:     opts.Timeout,
		loader:      chunks.NewLoader(nil, opts.Logger),
		prefs:       p,
		view:        pipeline.View{Sort: pipeline.DefaultSort, TableSort: p.Sort},
		selected:    -1,
		searchInput: si,
		debounce:    pipeline.NewDebouncer(),
		spinner:     sp,
		help:        help.New(),
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		a.request(a.loader.BeginInitial()),
		a.spinner.Tick,
	)
}

func (a App) request(req worker.Request) tea.Cmd {
	if a.worker == nil {
		return nil
	}
	return a.worker.Cmd(req)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		if a.resize.Update(msg.Width) && a.mode == viewCards {
			a.revealSelected()
		}
		if a.filterForm != nil {
			a.filterForm = a.filterForm.WithWidth(min(msg.Width, 60))
		}
		if a.form != nil {
			a.form.setWidth(a.contentWidth())
		}
		a.clampScroll()
		return a, nil

	case worker.Response:
		return a.applyResponse(msg)

	case pipeline.DebouncedMsg:
		if a.debounce.Apply(msg) {
			a.view.Query = a.debounce.Value()
			a.recompute(true)
		}
		return a, nil

	case policyLookupMsg:
		return a.applyPolicyLookup(msg), nil

	case claimCreatedMsg:
		return a.applyCreated(msg)

	case toastExpiredMsg:
		if msg.seq == a.toastSeq {
			a.toast = ""
		}
		return a, nil

	case spinner.TickMsg:
		if !a.busy() {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case tea.MouseMsg:
		return a.updateMouse(msg), nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a.updateKey(msg)
	}

	return a.forward(msg)
}

// forward hands messages nobody else claimed (cursor blinks, dialog
// internals) to the active dialog or input.
func (a App) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch {
	case a.confirm != nil:
		return a.updateConfirm(msg)
	case a.filterForm != nil:
		return a.updateFilter(msg)
	case a.screen == screenForm && a.form != nil:
		return a, a.form.update(msg)
	case a.searching:
		var cmd tea.Cmd
		a.searchInput, cmd = a.searchInput.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case a.confirm != nil:
		if msg.String() == "esc" {
			a.confirm = nil
			return a, nil
		}
		return a.updateConfirm(msg)
	case a.filterForm != nil:
		if msg.String() == "esc" {
			a.filterForm = nil
			return a, nil
		}
		return a.updateFilter(msg)
	case a.screen == screenForm:
		return a.updateForm(msg)
	case a.showHelp:
		a.showHelp = false
		return a, nil
	case a.detail != nil:
		switch msg.String() {
		case "esc", "enter", "q":
			a.detail = nil
		}
		return a, nil
	case a.searching:
		return a.updateSearch(msg)
	case a.columnPick:
		a.columnPick = false
		if i, ok := digitKey(msg); ok {
			a.toggleColumn(i)
		}
		return a, nil
	}

	if !a.loader.HasData() {
		switch {
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Refresh) && a.loader.State() == chunks.Error:
			return a, tea.Batch(a.request(a.loader.BeginInitial()), a.spinner.Tick)
		}
		return a, nil
	}

	return a.updateDashboard(msg)
}

func (a App) updateDashboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if i, ok := digitKey(msg); ok {
		a.cycleColumnSort(i)
		return a, nil
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return a, tea.Quit
	case key.Matches(msg, keys.Help):
		a.showHelp = true
	case key.Matches(msg, keys.Up):
		a.moveSelection(-a.rowStep())
	case key.Matches(msg, keys.Down):
		a.moveSelection(a.rowStep())
	case key.Matches(msg, keys.Left):
		if a.mode == viewCards {
			a.moveSelection(-1)
		}
	case key.Matches(msg, keys.Right):
		if a.mode == viewCards {
			a.moveSelection(1)
		}
	case key.Matches(msg, keys.Top):
		a.selectIndex(0)
	case key.Matches(msg, keys.Bottom):
		a.selectIndex(len(a.results) - 1)
	case key.Matches(msg, keys.HalfDown):
		a.scrollBy(max(1, a.listHeight()/2))
	case key.Matches(msg, keys.HalfUp):
		a.scrollBy(-max(1, a.listHeight()/2))
	case key.Matches(msg, keys.Open):
		if a.selected >= 0 && a.selected < len(a.results) {
			c := a.results[a.selected]
			a.detail = &c
		}
	case key.Matches(msg, keys.ToggleView):
		a.setMode(1 - a.mode)
	case key.Matches(msg, keys.Search):
		a.searching = true
		return a, a.searchInput.Focus()
	case key.Matches(msg, keys.Filter):
		return a.openFilter()
	case key.Matches(msg, keys.ClearFilter):
		a.clearFilters()
	case key.Matches(msg, keys.Sort):
		a.nextSort()
	case key.Matches(msg, keys.Columns):
		a.columnPick = true
	case key.Matches(msg, keys.LoadOlder):
		return a.loadOlder()
	case key.Matches(msg, keys.LoadMore):
		return a.loadMore()
	case key.Matches(msg, keys.Refresh):
		return a.refresh()
	case key.Matches(msg, keys.New):
		return a.openForm()
	}
	return a, nil
}

func (a App) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.searching = false
		a.searchInput.Blur()
		return a, nil
	case "esc":
		a.searching = false
		a.searchInput.Blur()
		a.searchInput.SetValue("")
		a.debounce.Reset()
		if a.view.Query != "" {
			a.view.Query = ""
			a.recompute(true)
		}
		return a, nil
	}

	before := a.searchInput.Value()
	var cmd tea.Cmd
	a.searchInput, cmd = a.searchInput.Update(msg)
	if v := a.searchInput.Value(); v != before {
		cmd = tea.Batch(cmd, a.debounce.Set(v), a.spinner.Tick)
	}
	return a, cmd
}

func (a App) updateMouse(msg tea.MouseMsg) App {
	if a.screen != screenDashboard || a.detail != nil || a.filterForm != nil || !a.loader.HasData() {
		return a
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		a.scrollBy(-wheelLines)
	case tea.MouseButtonWheelDown:
		a.scrollBy(wheelLines)
	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress || msg.Y != 0 {
			break
		}
		left := (a.width - a.contentWidth()) / 2
		if tab := a.tabAtX(msg.X - left - titleWidth()); tab >= 0 {
			a.setMode(viewMode(tab))
		}
	}
	return a
}

func (a App) applyResponse(resp worker.Response) (tea.Model, tea.Cmd) {
	switch a.loader.Apply(resp) {
	case chunks.Applied:
		a.selected = -1
		a.scroll = 0
		a.recompute(false)
	case chunks.ChunkFailed:
		return a.showToast(failureText(resp), true)
	case chunks.LoadFailed:
		if a.loader.HasData() {
			return a.showToast(failureText(resp), true)
		}
	}
	return a, nil
}

func failureText(resp worker.Response) string {
	if f, ok := resp.(worker.Failed); ok && f.Message != "" {
		return f.Message
	}
	return "Request failed"
}

// recompute derives the displayed list from the loaded page and the view.
// A criteria change also resets the list position.
func (a *App) recompute(criteriaChanged bool) {
	a.results = pipeline.Apply(a.loader.Claims(), a.view)
	if criteriaChanged {
		a.selected = -1
		a.scroll = 0
	}
	if a.selected >= len(a.results) {
		a.selected = len(a.results) - 1
	}
	a.clampScroll()
}

func (a *App) setMode(m viewMode) {
	if m == a.mode {
		return
	}
	a.mode = m
	a.scroll = 0
	a.revealSelected()
}

func (a *App) nextSort() {
	cur := a.view.Sort
	if cur == "" {
		cur = pipeline.DefaultSort
	}
	a.view.Sort = pipeline.NextLegacySort(cur)
	if a.prefs.Sort.Active() {
		a.prefs.Sort = pipeline.TableSort{}
		a.view.TableSort = a.prefs.Sort
		a.savePrefs()
	}
	a.recompute(true)
}

func (a *App) cycleColumnSort(i int) {
	if i >= len(pipeline.Columns) {
		return
	}
	a.prefs.Sort = pipeline.CycleColumnSort(pipeline.Columns[i].Key, a.prefs.Sort)
	a.view.TableSort = a.prefs.Sort
	a.savePrefs()
	a.recompute(true)
}

func (a *App) toggleColumn(i int) {
	if i >= len(pipeline.Columns) {
		return
	}
	a.prefs.Toggle(pipeline.Columns[i].Key)
	a.savePrefs()
}

func (a *App) clearFilters() {
	a.view.Statuses = nil
	a.view.Query = ""
	a.debounce.Reset()
	a.searchInput.SetValue("")
	a.recompute(true)
}

func (a *App) savePrefs() {
	if a.kv == nil {
		return
	}
	if err := prefs.Save(a.kv, a.prefs); err != nil {
		a.log.Warn("saving preferences", zap.Error(err))
	}
}

func (a App) loadOlder() (tea.Model, tea.Cmd) {
	if a.loader.Busy() || !a.loader.CanLoadOlder() || !a.atTop() {
		return a, nil
	}
	req, fetch := a.loader.BeginOlder()
	if !fetch {
		a.recompute(true)
		return a, nil
	}
	return a, tea.Batch(a.request(req), a.spinner.Tick)
}

func (a App) loadMore() (tea.Model, tea.Cmd) {
	if a.loader.Busy() || !a.loader.CanLoadMore() || !a.atBottom() {
		return a, nil
	}
	req, fetch := a.loader.BeginMore()
	if !fetch {
		a.recompute(true)
		return a, nil
	}
	return a, tea.Batch(a.request(req), a.spinner.Tick)
}

func (a App) refresh() (tea.Model, tea.Cmd) {
	if a.loader.State() == chunks.Loading {
		return a, nil
	}
	return a, tea.Batch(a.request(a.loader.BeginRefresh()), a.spinner.Tick)
}

func (a App) showToast(msg string, isErr bool) (App, tea.Cmd) {
	a.toast = msg
	a.toastErr = isErr
	a.toastSeq++
	seq := a.toastSeq
	return a, tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{seq: seq}
	})
}

func (a App) busy() bool {
	if a.loader.Busy() || a.debounce.Searching() {
		return true
	}
	return a.form != nil && (a.form.draft.Submitting() || a.form.draft.LookupPending() != "")
}

// ─── Status filter ──────────────────────────────────────────────

func (a App) openFilter() (tea.Model, tea.Cmd) {
	statuses := pipeline.AvailableStatuses(a.loader.Claims())
	if len(statuses) == 0 {
		return a.showToast("No statuses to filter by", false)
	}

	pick := append([]string(nil), a.view.Statuses...)
	a.filterPick = &pick
	a.filterForm = huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Filter by status").
				Description("space to toggle, enter to apply, esc to cancel").
				Options(huh.NewOptions(statuses...)...).
				Value(a.filterPick),
		),
	).WithShowHelp(false).WithWidth(min(max(a.width, 30), 60))
	return a, a.filterForm.Init()
}

func (a App) updateFilter(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.filterForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.filterForm = f
	}

	switch a.filterForm.State {
	case huh.StateCompleted:
		a.view.Statuses = append([]string(nil), (*a.filterPick)...)
		a.filterForm = nil
		a.recompute(true)
		return a, nil
	case huh.StateAborted:
		a.filterForm = nil
		return a, nil
	}
	return a, cmd
}

// ─── Create form ────────────────────────────────────────────────

func (a App) openForm() (tea.Model, tea.Cmd) {
	a.screen = screenForm
	a.form = newFormScreen(a.now, a.contentWidth())
	return a, a.form.focusCurrent()
}

func (a App) closeForm() App {
	a.screen = screenDashboard
	a.form = nil
	a.confirm = nil
	return a
}

func (a App) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	fs := a.form
	switch {
	case key.Matches(msg, formKeys.Back):
		if fs.draft.Dirty() {
			return a.openDiscardConfirm()
		}
		return a.closeForm(), nil
	case key.Matches(msg, formKeys.Submit):
		req, ok := fs.draft.BeginSubmit()
		fs.sync()
		if !ok {
			return a, nil
		}
		return a, tea.Batch(a.createCmd(req), a.spinner.Tick)
	}

	if fs.draft.Submitting() {
		return a, nil
	}

	var lookup string
	var cmd tea.Cmd
	switch {
	case key.Matches(msg, formKeys.Next):
		lookup, cmd = fs.move(true)
	case key.Matches(msg, formKeys.Prev):
		lookup, cmd = fs.move(false)
	default:
		return a, fs.update(msg)
	}
	if lookup != "" {
		cmd = tea.Batch(cmd, a.lookupCmd(lookup), a.spinner.Tick)
	}
	return a, cmd
}

func (a App) openDiscardConfirm() (tea.Model, tea.Cmd) {
	discard := false
	a.confirmResult = &discard
	a.confirm = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Discard this claim?").
				Description("Your changes will be lost.").
				Affirmative("Discard").
				Negative("Keep editing").
				Value(a.confirmResult),
		),
	).WithShowHelp(false).WithWidth(min(max(a.width, 30), 50))
	return a, a.confirm.Init()
}

func (a App) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.confirm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.confirm = f
	}

	switch a.confirm.State {
	case huh.StateCompleted:
		if *a.confirmResult {
			return a.closeForm(), nil
		}
		a.confirm = nil
		return a, nil
	case huh.StateAborted:
		a.confirm = nil
		return a, nil
	}
	return a, cmd
}

func (a App) lookupCmd(number string) tea.Cmd {
	backend, timeout := a.backend, a.timeout
	if backend == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		p, err := backend.LookupPolicy(ctx, number)
		return policyLookupMsg{number: number, policy: p, err: err}
	}
}

func (a App) createCmd(req api.CreateClaimRequest) tea.Cmd {
	backend, timeout := a.backend, a.timeout
	if backend == nil {
		return func() tea.Msg {
			return claimCreatedMsg{err: errors.New("no claims API configured")}
		}
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		c, err := backend.CreateClaim(ctx, req)
		return claimCreatedMsg{claim: c, err: err}
	}
}

func (a App) applyPolicyLookup(msg policyLookupMsg) App {
	if a.form == nil {
		return a
	}
	p := msg.policy
	if msg.err != nil {
		a.log.Warn("policy lookup failed", zap.String("policy", msg.number), zap.Error(msg.err))
		p = nil
	}
	a.form.draft.ApplyPolicy(msg.number, p)
	a.form.sync()
	return a
}

func (a App) applyCreated(msg claimCreatedMsg) (tea.Model, tea.Cmd) {
	if a.form == nil {
		return a, nil
	}
	if msg.err != nil {
		a.log.Warn("create claim failed", zap.Error(msg.err))
		a.form.draft.EndSubmit(errors.New(describeError(msg.err)))
		return a, nil
	}

	a.form.draft.EndSubmit(nil)
	a.log.Info("claim created", zap.String("number", msg.claim.Number))
	a = a.closeForm()

	text := "Claim created successfully"
	if msg.claim.Number != "" {
		text = fmt.Sprintf("Claim %s created successfully", msg.claim.Number)
	}
	a, toast := a.showToast(text, false)
	return a, tea.Batch(toast, a.request(a.loader.BeginRefresh()), a.spinner.Tick)
}

// describeError turns a request error into text for the user.
func describeError(err error) string {
	if kind := api.Classify(err); kind != api.KindGeneric {
		return kind.Message()
	}
	return err.Error()
}

// ─── Mouse Support ──────────────────────────────────────────────

// tabAtX returns the view tab at the given X coordinate within the tab bar,
// or -1 if none. Hitboxes follow RenderTabBar's widths.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range tabs() {
		w := tabWidth(tab)
		if x >= pos && x < pos+w {
			return i
		}
		pos += w + 1 // separator
	}
	return -1
}

func digitKey(msg tea.KeyMsg) (int, bool) {
	if msg.Type != tea.KeyRunes || len(msg.Runes) != 1 {
		return 0, false
	}
	r := msg.Runes[0]
	if r < '1' || r > '9' {
		return 0, false
	}
	return int(r - '1'), true
}
