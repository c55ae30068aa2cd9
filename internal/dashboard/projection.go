package dashboard

import (
	"time"

	"tourism-portal/events-portal-backend/internal/events"
	"tourism-portal/events-portal-backend/internal/status"
	"tourism-portal/events-portal-backend/pkg/workflows"
)

// Tab names a role-scoped queue on the staff dashboard.
type Tab string

const (
	TabRequiresAction Tab = "requires-action"
	TabPending        Tab = "pending"
	TabPublished      Tab = "published"
	TabHistoric       Tab = "historic"
)

// tabPriority is the order used when picking a default tab.
var tabPriority = []Tab{TabRequiresAction, TabPending, TabPublished, TabHistoric}

// Counters holds the per-queue event counts for one role's view.
type Counters struct {
	RequiresAction int `json:"requires_action"`
	Pending        int `json:"pending"`
	Published      int `json:"published"`
	Historic       int `json:"historic"`
}

// ParseTab validates a wire-level tab name.
func ParseTab(s string) (Tab, bool) {
	switch t := Tab(s); t {
	case TabRequiresAction, TabPending, TabPublished, TabHistoric:
		return t, true
	default:
		return "", false
	}
}

func requiresAction(code status.Code) bool {
	return code == status.PendingInternalApproval ||
		code == status.PendingPublicApproval ||
		code == status.RequiresChanges
}

func pending(code status.Code) bool {
	return code == status.ApprovedInternal || code == status.Draft
}

func historic(e *events.Event, now time.Time) bool {
	code := e.Status()
	return code == status.Rejected || code == status.Cancelled || e.Ended(now)
}

// InTab reports tab membership for one event. Ended events are historic
// regardless of status, so the historic tab overlaps requires-action and
// pending for ended-but-not-terminal events; the published tab excludes
// ended events.
func InTab(e *events.Event, tab Tab, now time.Time) bool {
	switch tab {
	case TabRequiresAction:
		return requiresAction(e.Status())
	case TabPending:
		return pending(e.Status())
	case TabPublished:
		return e.Status() == status.Published && !e.Ended(now)
	case TabHistoric:
		return historic(e, now)
	default:
		return false
	}
}

// CountersFor computes the dashboard counters over a snapshot. Each event is
// counted exactly once, with historic taking precedence over its status
// queue, so the counters sum to the snapshot size. Non-privileged roles only
// see the published count.
func CountersFor(role workflows.Role, evts []events.Event, now time.Time) Counters {
	var c Counters
	if !workflows.CanManageWorkflow(role) {
		for i := range evts {
			if InTab(&evts[i], TabPublished, now) {
				c.Published++
			}
		}
		return c
	}

	for i := range evts {
		e := &evts[i]
		switch {
		case historic(e, now):
			c.Historic++
		case requiresAction(e.Status()):
			c.RequiresAction++
		case pending(e.Status()):
			c.Pending++
		case e.Status() == status.Published:
			c.Published++
		}
	}
	return c
}

// FilterByTab returns the snapshot slice for a tab. Non-privileged roles get
// the published view whatever tab they ask for.
func FilterByTab(tab Tab, role workflows.Role, evts []events.Event, now time.Time) []events.Event {
	if !workflows.CanManageWorkflow(role) {
		tab = TabPublished
	}
	var out []events.Event
	for i := range evts {
		if InTab(&evts[i], tab, now) {
			out = append(out, evts[i])
		}
	}
	return out
}

// DefaultTab picks the first non-empty tab in priority order, falling back
// to historic when everything is empty.
func DefaultTab(role workflows.Role, evts []events.Event, now time.Time) Tab {
	if !workflows.CanManageWorkflow(role) {
		return TabPublished
	}
	for _, tab := range tabPriority {
		for i := range evts {
			if InTab(&evts[i], tab, now) {
				return tab
			}
		}
	}
	return TabHistoric
}
