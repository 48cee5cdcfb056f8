package tasks

import (
	"context"
	"time"

	"leaseline/internal/domain"
)

// completeContactInfo tracks one task per active party member that has
// neither an email nor a phone on file, keyed by metadata.personId.
type completeContactInfo struct {
	base
}

func NewCompleteContactInfo(deps Deps) Definition {
	return completeContactInfo{base{deps: deps, name: domain.TaskCompleteContactInfo, category: domain.CategoryContactInfo}}
}

var contactInfoCreateEvents = []domain.EventName{
	domain.EventPartyCreated,
	domain.EventPartyMemberAdded,
	domain.EventContactInfoRemoved,
}

var contactInfoCompleteEvents = []domain.EventName{
	domain.EventContactInfoAdded,
}

func (d completeContactInfo) CreateTasks(ctx context.Context, p *domain.Party) ([]domain.Task, error) {
	if !d.applicable(p) || p.UserID == "" {
		return nil, nil
	}
	if !HasAnyEvent(p, contactInfoCreateEvents...) {
		return nil, nil
	}
	var out []domain.Task
	for _, m := range p.ActiveMembers() {
		if HasContactInfo(m) {
			continue
		}
		if _, ok := ActiveTaskForPerson(p, d.name, m.Person.ID); ok {
			continue
		}
		out = append(out, d.newTask(p, []string{p.UserID}, 24*time.Hour, domain.TaskMetadata{
			Unique:   true,
			PersonID: m.Person.ID,
		}))
	}
	return out, nil
}

func (d completeContactInfo) CompleteTasks(ctx context.Context, p *domain.Party) ([]domain.Task, error) {
	if !d.applicable(p) || HasAnyEvent(p, partyEndedEvents...) || !HasAnyEvent(p, contactInfoCompleteEvents...) {
		return nil, nil
	}
	var done []domain.Task
	for _, t := range ActiveTasks(p, d.name) {
		m, ok := p.MemberByPersonID(t.Metadata.PersonID)
		if ok && m.Active() && HasContactInfo(m) {
			done = append(done, t)
		}
	}
	return MarkTasksComplete(ctx, d.deps.now(), done), nil
}

func (d completeContactInfo) CancelTasks(ctx context.Context, p *domain.Party) ([]domain.Task, error) {
	if !d.onTrack(p) {
		return nil, nil
	}
	active := ActiveTasks(p, d.name)
	if len(active) == 0 {
		return nil, nil
	}
	if HasAnyEvent(p, partyEndedEvents...) {
		return CancelTasks(active), nil
	}
	if !HasAnyEvent(p, domain.EventPartyMemberRemoved) {
		return nil, nil
	}
	var gone []domain.Task
	for _, t := range active {
		m, ok := p.MemberByPersonID(t.Metadata.PersonID)
		if !ok || !m.Active() {
			gone = append(gone, t)
		}
	}
	return CancelTasks(gone), nil
}
