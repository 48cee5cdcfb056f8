package tasks

import (
	"context"
	"time"

	"leaseline/internal/domain"
)

// collectEmergencyContact asks for an emergency contact once residents move
// in. One task per party; it completes when every active resident has an
// emergency phone on file.
type collectEmergencyContact struct {
	base
}

func NewCollectEmergencyContact(deps Deps) Definition {
	return collectEmergencyContact{base{deps: deps, name: domain.TaskCollectEmergencyContact, category: domain.CategoryContactInfo}}
}

var emergencyContactCreateEvents = []domain.EventName{
	domain.EventLeaseExecuted,
	domain.EventPartyMemberAdded,
}

func (d collectEmergencyContact) CreateTasks(ctx context.Context, p *domain.Party) ([]domain.Task, error) {
	if !d.applicable(p) || p.UserID == "" {
		return nil, nil
	}
	if !HasAnyEvent(p, emergencyContactCreateEvents...) {
		return nil, nil
	}
	if !missingEmergencyContact(p) || len(ActiveTasks(p, d.name)) > 0 {
		return nil, nil
	}
	t := d.newTask(p, []string{p.UserID}, 7*24*time.Hour, domain.TaskMetadata{Unique: true})
	return []domain.Task{t}, nil
}

func (d collectEmergencyContact) CompleteTasks(ctx context.Context, p *domain.Party) ([]domain.Task, error) {
	if !d.applicable(p) || HasAnyEvent(p, partyEndedEvents...) || !HasAnyEvent(p, domain.EventContactInfoAdded) {
		return nil, nil
	}
	active := ActiveTasks(p, d.name)
	if len(active) == 0 || missingEmergencyContact(p) {
		return nil, nil
	}
	return MarkTasksComplete(ctx, d.deps.now(), active), nil
}

func (d collectEmergencyContact) CancelTasks(ctx context.Context, p *domain.Party) ([]domain.Task, error) {
	if !d.onTrack(p) {
		return nil, nil
	}
	active := ActiveTasks(p, d.name)
	if len(active) == 0 || !HasAnyEvent(p, partyEndedEvents...) {
		return nil, nil
	}
	return CancelTasks(active), nil
}

func missingEmergencyContact(p *domain.Party) bool {
	residents := p.ActiveResidents()
	if len(residents) == 0 {
		return false
	}
	for _, m := range residents {
		if m.ContactInfo.EmergencyPhone == "" {
			return true
		}
	}
	return false
}
