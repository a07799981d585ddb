package tui

import (
	"strings"

	"taskdeck/internal/model"

	"github.com/charmbracelet/bubbles/list"
)

type taskItem struct {
	task model.Task
}

func (i taskItem) FilterValue() string { return i.task.Title }

func (i taskItem) Title() string {
	var b strings.Builder
	if i.task.Completed {
		b.WriteString(glyphDone())
	} else {
		b.WriteString(glyphTodo())
	}
	b.WriteString(" ")
	b.WriteString(i.task.Title)

	meta := []string{string(i.task.Category), string(i.task.Priority)}
	if i.task.DueDate != nil {
		meta = append(meta, "due "+formatDueDate(*i.task.DueDate))
	}
	b.WriteString("  ")
	b.WriteString(styleMuted().Render("[" + strings.Join(meta, " · ") + "]"))
	return b.String()
}

func (i taskItem) Description() string { return i.task.ID }

func newTaskList() list.Model {
	l := list.New([]list.Item{}, newTaskDelegate(), 0, 0)
	l.Title = "Your Tasks"
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	// Server-side filtering owns scoping; the list's own fuzzy filter would
	// desync the collection from (filter, page).
	l.SetFilteringEnabled(false)
	l.SetShowFilter(false)
	return l
}

func (m *appModel) refreshTaskList() {
	curID := ""
	if it, ok := m.taskList.SelectedItem().(taskItem); ok {
		curID = it.task.ID
	}
	items := make([]list.Item, 0, len(m.tasks))
	for _, t := range m.tasks {
		items = append(items, taskItem{task: t})
	}
	m.taskList.SetItems(items)
	if curID != "" {
		selectTaskByID(&m.taskList, curID)
	}
}

func selectTaskByID(l *list.Model, id string) {
	for i := 0; i < len(l.Items()); i++ {
		if it, ok := l.Items()[i].(taskItem); ok && it.task.ID == id {
			l.Select(i)
			return
		}
	}
}
