package tasks

import (
	"context"
	"time"

	"leaseline/internal/domain"
)

// sendRenewalReminder follows up on a renewal quote that got no response.
// The due reminder is signalled by the upstream scheduler as an event; the
// engine itself keeps no timers.
type sendRenewalReminder struct {
	base
}

func NewSendRenewalReminder(deps Deps) Definition {
	return sendRenewalReminder{base{deps: deps, name: domain.TaskSendRenewalReminder, category: domain.CategoryQuote}}
}

var renewalReminderCompleteEvents = []domain.EventName{
	domain.EventCommunicationReceived,
	domain.EventLeaseRenewalCreated,
	domain.EventQuotePromotionUpdated,
}

var renewalReminderCancelEvents = []domain.EventName{
	domain.EventLeaseCreated,
	domain.EventPartyMovingOut,
	domain.EventPartyClosed,
	domain.EventPartyArchived,
}

func (d sendRenewalReminder) CreateTasks(ctx context.Context, p *domain.Party) ([]domain.Task, error) {
	if !d.applicable(p) || p.UserID == "" {
		return nil, nil
	}
	if !HasAnyEvent(p, domain.EventRenewalReminderDue) || len(ActiveTasks(p, d.name)) > 0 {
		return nil, nil
	}
	t := d.newTask(p, []string{p.UserID}, 24*time.Hour, domain.TaskMetadata{Unique: true})
	return []domain.Task{t}, nil
}

func (d sendRenewalReminder) CompleteTasks(ctx context.Context, p *domain.Party) ([]domain.Task, error) {
	if !d.applicable(p) || HasAnyEvent(p, renewalReminderCancelEvents...) {
		return nil, nil
	}
	active := ActiveTasks(p, d.name)
	if len(active) == 0 || !HasAnyEvent(p, renewalReminderCompleteEvents...) {
		return nil, nil
	}
	return MarkTasksComplete(ctx, d.deps.now(), active), nil
}

func (d sendRenewalReminder) CancelTasks(ctx context.Context, p *domain.Party) ([]domain.Task, error) {
	if !d.onTrack(p) {
		return nil, nil
	}
	active := ActiveTasks(p, d.name)
	if len(active) == 0 || !HasAnyEvent(p, renewalReminderCancelEvents...) {
		return nil, nil
	}
	return CancelTasks(active), nil
}
