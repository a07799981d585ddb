package model

import (
	"strings"
	"time"
)

type Category string

const (
	CategoryPersonal Category = "personal"
	CategoryWork     Category = "work"
	CategoryShopping Category = "shopping"
	CategoryHealth   Category = "health"
)

func Categories() []Category {
	return []Category{CategoryPersonal, CategoryWork, CategoryShopping, CategoryHealth}
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh}
}

// Task is the canonical server record. The id is server-assigned; the client
// never generates one and always adopts the server's response verbatim.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Category    Category   `json:"category"`
	Priority    Priority   `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	Completed   bool       `json:"completed"`
}

// TaskFields is the mutable subset sent on create/update (everything minus id).
type TaskFields struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    Category   `json:"category"`
	Priority    Priority   `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	Completed   bool       `json:"completed"`
}

// Fields returns the task's mutable fields, e.g. for a full-record update.
func (t Task) Fields() TaskFields {
	return TaskFields{
		Title:       t.Title,
		Description: t.Description,
		Category:    t.Category,
		Priority:    t.Priority,
		DueDate:     t.DueDate,
		Completed:   t.Completed,
	}
}

// Filter holds the dashboard's filter criteria. An empty field means "no
// constraint" and is omitted from outgoing queries. Completed is a tri-state
// string ("", "true", "false") to match the wire contract.
type Filter struct {
	Category  string
	Priority  string
	Completed string
	DueDate   string // YYYY-MM-DD
}

func (f Filter) IsZero() bool {
	return f.Category == "" && f.Priority == "" && f.Completed == "" && f.DueDate == ""
}

// Key is a stable identity for a filter state, used as a cache key.
func (f Filter) Key() string {
	return strings.Join([]string{f.Category, f.Priority, f.Completed, f.DueDate}, "|")
}

// Page is the pagination cursor. Total is authoritative from the last
// successful server response.
type Page struct {
	Page  int
	Limit int
	Total int
}

func (p Page) HasPrev() bool { return p.Page > 1 }
func (p Page) HasNext() bool { return p.Page*p.Limit < p.Total }

func ValidCategory(s string) bool {
	switch Category(s) {
	case CategoryPersonal, CategoryWork, CategoryShopping, CategoryHealth:
		return true
	}
	return false
}

func ValidPriority(s string) bool {
	switch Priority(s) {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}
