package tasks

import (
	"context"
	"time"

	"leaseline/internal/domain"
)

// removeAnonymousEmail tracks one task per active member whose default email
// is an ILS-generated mask, keyed by metadata.personId. Agents are expected
// to replace the mask with a real address.
type removeAnonymousEmail struct {
	base
}

func NewRemoveAnonymousEmail(deps Deps) Definition {
	return removeAnonymousEmail{base{deps: deps, name: domain.TaskRemoveAnonymousEmail, category: domain.CategoryContactInfo}}
}

var anonymousEmailCreateEvents = []domain.EventName{
	domain.EventCommunicationReceived,
	domain.EventPartyMemberAdded,
}

func (d removeAnonymousEmail) CreateTasks(ctx context.Context, p *domain.Party) ([]domain.Task, error) {
	if !d.applicable(p) || p.UserID == "" {
		return nil, nil
	}
	if !HasAnyEvent(p, anonymousEmailCreateEvents...) {
		return nil, nil
	}
	var out []domain.Task
	for _, m := range p.ActiveMembers() {
		if !IsAnonymousEmail(m.ContactInfo.DefaultEmail) {
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

func (d removeAnonymousEmail) CompleteTasks(ctx context.Context, p *domain.Party) ([]domain.Task, error) {
	if !d.applicable(p) || HasAnyEvent(p, partyEndedEvents...) || !HasAnyEvent(p, domain.EventContactInfoAdded, domain.EventContactInfoRemoved) {
		return nil, nil
	}
	var done []domain.Task
	for _, t := range ActiveTasks(p, d.name) {
		m, ok := p.MemberByPersonID(t.Metadata.PersonID)
		if ok && m.Active() && !IsAnonymousEmail(m.ContactInfo.DefaultEmail) {
			done = append(done, t)
		}
	}
	return MarkTasksComplete(ctx, d.deps.now(), done), nil
}

func (d removeAnonymousEmail) CancelTasks(ctx context.Context, p *domain.Party) ([]domain.Task, error) {
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
