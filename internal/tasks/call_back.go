package tasks

import (
	"context"
	"time"

	"leaseline/internal/domain"
)

// callBack asks the party owner to return a missed call on an already
// existing party. Missed calls that created the party belong to
// introduceYourself instead.
type callBack struct {
	base
}

func NewCallBack(deps Deps) Definition {
	return callBack{base{deps: deps, name: domain.TaskCallBack, category: domain.CategoryParty}}
}

var callBackCompleteEvents = []domain.EventName{
	domain.EventCommunicationSent,
	domain.EventCommunicationAnsweredCall,
}

func (d callBack) CreateTasks(ctx context.Context, p *domain.Party) ([]domain.Task, error) {
	if !d.applicable(p) || p.UserID == "" {
		return nil, nil
	}
	missed := false
	for _, ev := range FindEvents(p, domain.EventCommunicationMissedCall) {
		if !ev.Metadata.IsLeadCreated {
			missed = true
			break
		}
	}
	if !missed || len(ActiveTasks(p, d.name)) > 0 {
		return nil, nil
	}
	t := d.newTask(p, []string{p.UserID}, 2*time.Hour, domain.TaskMetadata{Unique: true})
	return []domain.Task{t}, nil
}

func (d callBack) CompleteTasks(ctx context.Context, p *domain.Party) ([]domain.Task, error) {
	if !d.applicable(p) || HasAnyEvent(p, partyEndedEvents...) {
		return nil, nil
	}
	active := ActiveTasks(p, d.name)
	if len(active) == 0 || !HasAnyEvent(p, callBackCompleteEvents...) {
		return nil, nil
	}
	return MarkTasksComplete(ctx, d.deps.now(), active), nil
}

func (d callBack) CancelTasks(ctx context.Context, p *domain.Party) ([]domain.Task, error) {
	if !d.onTrack(p) {
		return nil, nil
	}
	active := ActiveTasks(p, d.name)
	if len(active) == 0 || !HasAnyEvent(p, partyEndedEvents...) {
		return nil, nil
	}
	return CancelTasks(active), nil
}
