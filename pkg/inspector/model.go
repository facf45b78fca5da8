package inspector

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"heapbase/pkg/catalog"
	"heapbase/pkg/concurrency/lock"
	"heapbase/pkg/memory"
	"heapbase/pkg/primitives"
	"heapbase/pkg/storage/heap"
	"heapbase/pkg/tuple"
	"heapbase/pkg/types"
)

// view is which panel the model is currently rendering.
type view int

const (
	viewCache view = iota
	viewLocks
	viewPage
)

func (v view) label() string {
	switch v {
	case viewCache:
		return "page cache"
	case viewLocks:
		return "locks"
	case viewPage:
		return "page tuples"
	default:
		return "?"
	}
}

// refreshInterval is how often the model re-snapshots the buffer pool
// and lock manager. Bubbletea's own tick command drives the loop;
// nothing here blocks page traffic for longer than a Snapshot/AllHeld
// call takes.
const refreshInterval = 500 * time.Millisecond

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Model is the bubbletea model for the inspector. Construct with New
// and hand it to tea.NewProgram.
type Model struct {
	bp  *memory.BufferPool
	cat *catalog.Catalog

	current view
	cursor  int
	width   int
	height  int
	err     error

	cache     []memory.CacheEntry
	lockRows  []lockRow
	pageRows  []string
	pageTitle string
}

type lockRow struct {
	tid primitives.TransactionID
	pid primitives.PageID
	lt  lock.LockType
}

// New builds an inspector Model attached to a live BufferPool and its
// Catalog — the same two collaborators every transaction in the
// process shares.
func New(bp *memory.BufferPool, cat *catalog.Catalog) Model {
	return Model{bp: bp, cat: cat}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.refresh()
		return m, tick()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, commonKeys.Quit):
			return m, tea.Quit
		case key.Matches(msg, commonKeys.Tab):
			m.current = (m.current + 1) % 3
			m.cursor = 0
		case key.Matches(msg, commonKeys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, commonKeys.Down):
			m.cursor++
		case key.Matches(msg, commonKeys.Enter):
			if m.current == viewCache {
				m.loadPage()
			}
		}
		return m, nil
	}
	return m, nil
}

// refresh re-snapshots the buffer pool's cache and lock manager. It
// does not touch the page-tuple panel — that is loaded on demand by
// loadPage so scrolling through a large page doesn't refetch on every
// tick.
func (m *Model) refresh() {
	m.cache = m.bp.Snapshot()

	var rows []lockRow
	for tid, pages := range m.bp.Locks().AllHeld() {
		for pid, lt := range pages {
			rows = append(rows, lockRow{tid: tid, pid: pid, lt: lt})
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].tid.Raw() != rows[j].tid.Raw() {
			return rows[i].tid.Raw() < rows[j].tid.Raw()
		}
		return rows[i].pid.PageNumber < rows[j].pid.PageNumber
	})
	m.lockRows = rows

	if m.current == viewCache && m.cursor >= len(m.cache) && len(m.cache) > 0 {
		m.cursor = len(m.cache) - 1
	}
	if m.current == viewLocks && m.cursor >= len(m.lockRows) && len(m.lockRows) > 0 {
		m.cursor = len(m.lockRows) - 1
	}
}

// loadPage reads the currently selected cache entry's page fresh
// through the catalog (not through GetPage, so browsing doesn't itself
// acquire a lock a real transaction might be waiting on) and renders
// its tuples as text rows.
func (m *Model) loadPage() {
	if m.cursor < 0 || m.cursor >= len(m.cache) {
		return
	}
	entry := m.cache[m.cursor]

	file, err := m.cat.GetDbFile(entry.PageID.TableID)
	if err != nil {
		m.err = err
		return
	}
	p, err := file.ReadPage(entry.PageID)
	if err != nil {
		m.err = err
		return
	}
	hp, ok := p.(*heap.HeapPage)
	if !ok {
		m.err = fmt.Errorf("inspector: %s is not a heap page", entry.PageID)
		return
	}

	name, _ := m.cat.GetTableName(entry.PageID.TableID)
	m.pageTitle = fmt.Sprintf("%s — %s", name, entry.PageID)

	rows := make([]string, 0, hp.NumSlots())
	for _, t := range hp.Tuples() {
		rows = append(rows, formatTuple(t))
	}
	m.pageRows = rows
	m.current = viewPage
	m.cursor = 0
}

func formatTuple(t *tuple.Tuple) string {
	n := t.TupleDesc.NumFields()
	parts := make([]string, n)
	for i := 0; i < n; i++ {
		f, err := t.Field(i)
		if err != nil || f == nil {
			parts[i] = "NULL"
			continue
		}
		parts[i] = formatField(f)
	}
	return strings.Join(parts, "  |  ")
}

func formatField(f types.Field) string {
	switch v := f.(type) {
	case *types.IntField:
		return fmt.Sprintf("%d", v.Value)
	case *types.StringField:
		return strings.TrimRight(v.Value, "\x00")
	default:
		return f.String()
	}
}

func (m Model) View() string {
	if m.err != nil {
		return errorStyle.Render("error: "+m.err.Error()) + "\n\n" + helpStyle.Render("press q to quit")
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("heapbase inspector"))
	b.WriteString("\n")
	b.WriteString(renderTabs(m.current))
	b.WriteString("\n\n")

	switch m.current {
	case viewCache:
		b.WriteString(m.viewCachePanel())
	case viewLocks:
		b.WriteString(m.viewLocksPanel())
	case viewPage:
		b.WriteString(m.viewPagePanel())
	}

	b.WriteString("\n")
	b.WriteString(statusBarStyle.Render(fmt.Sprintf(
		"capacity %d/%d cached  •  %d locks held  •  tab: switch  ↑/↓: move  enter: open page  q: quit",
		len(m.cache), m.bp.Capacity(), len(m.lockRows),
	)))
	return b.String()
}

func renderTabs(current view) string {
	labels := []view{viewCache, viewLocks, viewPage}
	parts := make([]string, len(labels))
	for i, v := range labels {
		if v == current {
			parts[i] = activeTabStyle.Render(v.label())
		} else {
			parts[i] = tabStyle.Render(v.label())
		}
	}
	return strings.Join(parts, " ")
}

func (m Model) viewCachePanel() string {
	if len(m.cache) == 0 {
		return headerStyle.Render(" page cache is empty ")
	}
	headers := []string{"page", "dirty", "dirtied by"}
	widths := []int{40, 5, 12}
	rows := make([][]string, len(m.cache))
	for i, e := range m.cache {
		dirty := "no"
		dirtyBy := ""
		if e.Dirty {
			dirty = "yes"
			dirtyBy = e.DirtyBy.String()
		}
		rows[i] = []string{e.PageID.String(), dirty, dirtyBy}
	}
	dirtyCount := 0
	for _, e := range m.cache {
		if e.Dirty {
			dirtyCount++
		}
	}
	legend := fmt.Sprintf("%s dirty, %s clean",
		dirtyCellStyle.Render(fmt.Sprintf("%d", dirtyCount)),
		cleanCellStyle.Render(fmt.Sprintf("%d", len(m.cache)-dirtyCount)))

	return headerStyle.Render(fmt.Sprintf(" page cache (%d) ", len(m.cache))) + "\n" +
		renderTable(headers, rows, widths, m.cursor) + "\n" +
		helpStyle.Render("enter: view this page's tuples") + "  " + legend
}

func (m Model) viewLocksPanel() string {
	if len(m.lockRows) == 0 {
		return headerStyle.Render(" no locks currently held ")
	}
	headers := []string{"transaction", "page", "mode"}
	widths := []int{14, 40, 10}
	rows := make([][]string, len(m.lockRows))
	for i, r := range m.lockRows {
		rows[i] = []string{r.tid.String(), r.pid.String(), r.lt.String()}
	}
	return headerStyle.Render(fmt.Sprintf(" held locks (%d) ", len(m.lockRows))) + "\n" +
		renderTable(headers, rows, widths, m.cursor)
}

func (m Model) viewPagePanel() string {
	if m.pageTitle == "" {
		return headerStyle.Render(" select a page from the cache view and press enter ")
	}
	var b strings.Builder
	b.WriteString(headerStyle.Render(" " + m.pageTitle + " "))
	b.WriteString("\n")
	if len(m.pageRows) == 0 {
		b.WriteString(helpStyle.Render("(no used slots)"))
		return b.String()
	}
	for i, row := range m.pageRows {
		style := cellStyle
		if i == m.cursor {
			style = selectedRowStyle
		}
		b.WriteString(style.Render(row))
		b.WriteString("\n")
	}
	return b.String()
}
