package tasks

import (
	"context"
	"time"

	"leaseline/internal/domain"
)

// introduceYourself asks the party owner to reach out after the inbound
// communication that created the party. One active task per party; only the
// first contact ever creates it.
type introduceYourself struct {
	base
}

func NewIntroduceYourself(deps Deps) Definition {
	return introduceYourself{base{deps: deps, name: domain.TaskIntroduceYourself, category: domain.CategoryParty}}
}

var introduceCreateEvents = []domain.EventName{
	domain.EventCommunicationReceived,
	domain.EventCommunicationMissedCall,
}

var introduceCompleteEvents = []domain.EventName{
	domain.EventCommunicationSent,
	domain.EventCommunicationAnsweredCall,
	domain.EventContactInfoAdded,
}

func (d introduceYourself) CreateTasks(ctx context.Context, p *domain.Party) ([]domain.Task, error) {
	if !d.applicable(p) || p.UserID == "" {
		return nil, nil
	}
	leadCreated := false
	for _, ev := range FindEvents(p, introduceCreateEvents...) {
		if ev.Metadata.IsLeadCreated {
			leadCreated = true
			break
		}
	}
	if !leadCreated {
		return nil, nil
	}
	if len(ActiveTasks(p, d.name)) > 0 || len(CompletedTasks(p, d.name)) > 0 {
		return nil, nil
	}
	t := d.newTask(p, []string{p.UserID}, 2*time.Hour, domain.TaskMetadata{Unique: true})
	return []domain.Task{t}, nil
}

func (d introduceYourself) CompleteTasks(ctx context.Context, p *domain.Party) ([]domain.Task, error) {
	// Cancellation supersedes completion within one cycle.
	if !d.applicable(p) || HasAnyEvent(p, partyEndedEvents...) {
		return nil, nil
	}
	active := ActiveTasks(p, d.name)
	if len(active) == 0 || !HasAnyEvent(p, introduceCompleteEvents...) {
		return nil, nil
	}
	return MarkTasksComplete(ctx, d.deps.now(), active), nil
}

func (d introduceYourself) CancelTasks(ctx context.Context, p *domain.Party) ([]domain.Task, error) {
	if !d.onTrack(p) {
		return nil, nil
	}
	active := ActiveTasks(p, d.name)
	if len(active) == 0 || !HasAnyEvent(p, partyEndedEvents...) {
		return nil, nil
	}
	return CancelTasks(active), nil
}
