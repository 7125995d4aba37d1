package adminkit

import (
	"context"
	"sort"
	"time"
)

// QueuePriority ranks moderation queue items.
type QueuePriority string

const (
	QueuePriorityHigh   QueuePriority = "high"
	QueuePriorityMedium QueuePriority = "medium"
)

// QueueItem is one entry of the moderation queue: an event awaiting admin
// attention, with the reason it is there.
type QueueItem struct {
	EventID   string        `json:"eventId"`
	Title     string        `json:"title"`
	Priority  QueuePriority `json:"priority"`
	Reason    string        `json:"reason"`
	EnteredAt time.Time     `json:"enteredAt"`
}

// ModerationQueue returns the events currently requiring attention: pending
// approval or flagged. The queue is a projection over entity state computed
// on read; it is never maintained as separate mutable state, so it cannot
// diverge from the entities.
//
// Flagged events rank high, pending-only events medium. Within a priority,
// older items come first.
func (s *Service) ModerationQueue(ctx context.Context) ([]QueueItem, error) {
	events, err := s.repo.ListEvents(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]QueueItem, 0, len(events))
	for i := range events {
		e := &events[i]
		if !e.NeedsModeration() {
			continue
		}
		item := QueueItem{
			EventID:   e.ID,
			Title:     e.Title,
			Priority:  QueuePriorityMedium,
			Reason:    "awaiting approval",
			EnteredAt: e.CreatedAt,
		}
		if e.IsFlagged {
			item.Priority = QueuePriorityHigh
			item.Reason = e.FlagReason
			if e.FlaggedAt != nil {
				item.EnteredAt = *e.FlaggedAt
			}
		}
		items = append(items, item)
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Priority != items[j].Priority {
			return items[i].Priority == QueuePriorityHigh
		}
		return items[i].EnteredAt.Before(items[j].EnteredAt)
	})
	return items, nil
}

// DashboardCounts aggregates entity states for admin dashboards. All counts
// are pure projections computed from the repository on read.
type DashboardCounts struct {
	UsersByStatus        map[UserStatus]int     `json:"usersByStatus"`
	PendingVerifications int                    `json:"pendingVerifications"`
	EventsByApproval     map[ApprovalStatus]int `json:"eventsByApproval"`
	FlaggedEvents        int                    `json:"flaggedEvents"`
	QueueDepth           int                    `json:"queueDepth"`
	PayoutsByStatus      map[PayoutStatus]int   `json:"payoutsByStatus"`
}

// DashboardCounts computes the dashboard aggregation.
func (s *Service) DashboardCounts(ctx context.Context) (*DashboardCounts, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	events, err := s.repo.ListEvents(ctx)
	if err != nil {
		return nil, err
	}
	payouts, err := s.repo.ListPayouts(ctx)
	if err != nil {
		return nil, err
	}

	counts := &DashboardCounts{
		UsersByStatus:    make(map[UserStatus]int),
		EventsByApproval: make(map[ApprovalStatus]int),
		PayoutsByStatus:  make(map[PayoutStatus]int),
	}
	for i := range users {
		counts.UsersByStatus[users[i].Status]++
		if users[i].VerificationStatus == VerificationPending {
			counts.PendingVerifications++
		}
	}
	for i := range events {
		counts.EventsByApproval[events[i].ApprovalStatus]++
		if events[i].IsFlagged {
			counts.FlaggedEvents++
		}
		if events[i].NeedsModeration() {
			counts.QueueDepth++
		}
	}
	for i := range payouts {
		counts.PayoutsByStatus[payouts[i].Status]++
	}
	return counts, nil
}
