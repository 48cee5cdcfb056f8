package tasks

import (
	"context"
	"time"

	"leaseline/internal/domain"
)

// contactPartyDeclinedDecision asks the party owner to deliver a declined
// screening decision to the applicants.
type contactPartyDeclinedDecision struct {
	base
}

func NewContactPartyDeclinedDecision(deps Deps) Definition {
	return contactPartyDeclinedDecision{base{deps: deps, name: domain.TaskContactPartyDeclinedDecision, category: domain.CategoryApplication}}
}

func (d contactPartyDeclinedDecision) CreateTasks(ctx context.Context, p *domain.Party) ([]domain.Task, error) {
	if !d.applicable(p) || p.UserID == "" {
		return nil, nil
	}
	declined := false
	for _, ev := range FindEvents(p, domain.EventApplicationStatusUpdated) {
		if ev.Metadata.ApplicationStatus == string(domain.ApplicationDeclined) {
			declined = true
			break
		}
	}
	if !declined || len(ActiveTasks(p, d.name)) > 0 {
		return nil, nil
	}
	t := d.newTask(p, []string{p.UserID}, 24*time.Hour, domain.TaskMetadata{Unique: true})
	return []domain.Task{t}, nil
}

func (d contactPartyDeclinedDecision) CompleteTasks(ctx context.Context, p *domain.Party) ([]domain.Task, error) {
	if !d.applicable(p) || HasAnyEvent(p, partyEndedEvents...) {
		return nil, nil
	}
	active := ActiveTasks(p, d.name)
	if len(active) == 0 || !HasAnyEvent(p, domain.EventCommunicationSent) {
		return nil, nil
	}
	return MarkTasksComplete(ctx, d.deps.now(), active), nil
}

func (d contactPartyDeclinedDecision) CancelTasks(ctx context.Context, p *domain.Party) ([]domain.Task, error) {
	if !d.onTrack(p) {
		return nil, nil
	}
	active := ActiveTasks(p, d.name)
	if len(active) == 0 || !HasAnyEvent(p, partyEndedEvents...) {
		return nil, nil
	}
	return CancelTasks(active), nil
}
