package tasks

import (
	"context"
	"time"

	"leaseline/internal/domain"
)

// sendRenewalQuote asks the party owner to get a renewal quote in front of
// every active resident. A cancel-move-out retrigger does not recreate the
// task when it was already completed once for this party; that matches the
// long-standing production behavior.
type sendRenewalQuote struct {
	base
}

func NewSendRenewalQuote(deps Deps) Definition {
	return sendRenewalQuote{base{deps: deps, name: domain.TaskSendRenewalQuote, category: domain.CategoryQuote}}
}

var renewalQuoteCreateEvents = []domain.EventName{
	domain.EventLeaseRenewalCreated,
	domain.EventQuotePublished,
	domain.EventCancelMoveOut,
}

var renewalQuoteCancelEvents = []domain.EventName{
	domain.EventLeaseCreated,
	domain.EventPartyMovingOut,
	domain.EventPartyClosed,
	domain.EventPartyArchived,
}

func (d sendRenewalQuote) CreateTasks(ctx context.Context, p *domain.Party) ([]domain.Task, error) {
	if !d.applicable(p) || p.UserID == "" {
		return nil, nil
	}
	triggers := FindEvents(p, renewalQuoteCreateEvents...)
	if len(triggers) == 0 || len(ActiveTasks(p, d.name)) > 0 {
		return nil, nil
	}
	if onlyCancelMoveOut(triggers) && len(CompletedTasks(p, d.name)) > 0 {
		return nil, nil
	}
	t := d.newTask(p, []string{p.UserID}, 48*time.Hour, domain.TaskMetadata{Unique: true})
	return []domain.Task{t}, nil
}

func (d sendRenewalQuote) CompleteTasks(ctx context.Context, p *domain.Party) ([]domain.Task, error) {
	if !d.applicable(p) || HasAnyEvent(p, renewalQuoteCancelEvents...) {
		return nil, nil
	}
	active := ActiveTasks(p, d.name)
	if len(active) == 0 || !HasAnyEvent(p, domain.EventCommunicationSent, domain.EventQuotePrinted) {
		return nil, nil
	}
	if !HasAnyEvent(p, domain.EventQuotePrinted) && !quoteReachedAllResidents(p) {
		return nil, nil
	}
	return MarkTasksComplete(ctx, d.deps.now(), active), nil
}

func (d sendRenewalQuote) CancelTasks(ctx context.Context, p *domain.Party) ([]domain.Task, error) {
	if !d.onTrack(p) {
		return nil, nil
	}
	active := ActiveTasks(p, d.name)
	if len(active) == 0 || !HasAnyEvent(p, renewalQuoteCancelEvents...) {
		return nil, nil
	}
	return CancelTasks(active), nil
}

func onlyCancelMoveOut(events []domain.PartyEvent) bool {
	for _, ev := range events {
		if ev.Event != domain.EventCancelMoveOut {
			return false
		}
	}
	return len(events) > 0
}

// quoteReachedAllResidents compares the recipients of outbound quote
// communications against the party's active residents.
func quoteReachedAllResidents(p *domain.Party) bool {
	reached := map[string]bool{}
	for _, c := range p.Comms {
		if c.Direction != domain.CommOut || c.Category != domain.CommCategoryQuote {
			continue
		}
		for _, pid := range c.PersonIDs {
			reached[pid] = true
		}
	}
	residents := p.ActiveResidents()
	if len(residents) == 0 {
		return false
	}
	for _, m := range residents {
		if !reached[m.Person.ID] {
			return false
		}
	}
	return true
}
