// Package catalog is the in-memory repository of activities and activity
// events served by the HTTP API and filled by sheet imports.
package catalog

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"golang.org/x/text/cases"
)

var (
	// ErrEmptyName is returned when an activity name is blank after trimming.
	ErrEmptyName = errors.New("activity name is required")
	// ErrNotFound is returned when a referenced activity or event does not exist.
	ErrNotFound = errors.New("not found")
)

// Activity is a named activity, optionally nested under a parent activity.
type Activity struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	ParentID *int   `json:"parent_id"`
}

// Event is one occurrence of an activity, optionally nested under a parent event.
type Event struct {
	ID         int    `json:"id"`
	ActivityID int    `json:"activity_id"`
	ParentID   *int   `json:"parent_id"`
	Notes      string `json:"notes"`
}

// Catalog holds activities and events. All methods are safe for concurrent use.
type Catalog struct {
	mu         sync.RWMutex
	activities []Activity
	events     []Event
	nextID     int
	nextEvent  int
}

// New creates an empty Catalog.
func New() *Catalog {
	c := &Catalog{}
	c.reset()
	return c
}

// Activities returns every activity in creation order.
func (c *Catalog) Activities() []Activity {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.activities)
}

// Events returns every event in creation order.
func (c *Catalog) Events() []Event {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.events)
}

// Create adds a new activity named name (trimmed) under parentID.
func (c *Catalog) Create(name string, parentID *int) (Activity, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Activity{}, ErrEmptyName
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.create(name, parentID)
}

// FindOrCreate returns the activity under parentID whose name matches name
// ignoring surrounding whitespace and case, creating it if none exists.
func (c *Catalog) FindOrCreate(name string, parentID *int) (Activity, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Activity{}, ErrEmptyName
	}
	key := fold(name)

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, a := range c.activities {
		if sameParent(a.ParentID, parentID) && fold(a.Name) == key {
			return a, nil
		}
	}
	return c.create(name, parentID)
}

// CreateEvent records an occurrence of activityID with notes under parentID.
func (c *Catalog) CreateEvent(activityID int, notes string, parentID *int) (Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !slices.ContainsFunc(c.activities, func(a Activity) bool { return a.ID == activityID }) {
		return Event{}, fmt.Errorf("activity %d: %w", activityID, ErrNotFound)
	}
	if parentID != nil && !slices.ContainsFunc(c.events, func(e Event) bool { return e.ID == *parentID }) {
		return Event{}, fmt.Errorf("parent event %d: %w", *parentID, ErrNotFound)
	}

	c.nextEvent++
	e := Event{
		ID:         c.nextEvent,
		ActivityID: activityID,
		ParentID:   copyID(parentID),
		Notes:      notes,
	}
	c.events = append(c.events, e)
	return e, nil
}

// Reset removes all activities and events and restarts id numbering.
func (c *Catalog) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reset()
}

// Counts returns the number of activities and events.
func (c *Catalog) Counts() (activities, events int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.activities), len(c.events)
}

func (c *Catalog) reset() {
	c.activities = make([]Activity, 0)
	c.events = make([]Event, 0)
	c.nextID = 0
	c.nextEvent = 0
}

// create must be called with c.mu held.
func (c *Catalog) create(name string, parentID *int) (Activity, error) {
	if parentID != nil && !slices.ContainsFunc(c.activities, func(a Activity) bool { return a.ID == *parentID }) {
		return Activity{}, fmt.Errorf("parent activity %d: %w", *parentID, ErrNotFound)
	}

	c.nextID++
	a := Activity{ID: c.nextID, Name: name, ParentID: copyID(parentID)}
	c.activities = append(c.activities, a)
	return a, nil
}

func fold(s string) string {
	return cases.Fold().String(s)
}

func sameParent(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func copyID(id *int) *int {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
