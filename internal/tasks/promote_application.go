package tasks

import (
	"context"
	"time"

	"leaseline/internal/domain"
)

// promoteApplication asks the party owner to promote a quote once every
// active member's application is complete and fully screened. Disallowed on
// corporate parties, which skip screening entirely.
type promoteApplication struct {
	base
}

func NewPromoteApplication(deps Deps) Definition {
	return promoteApplication{base{deps: deps, name: domain.TaskPromoteApplication, category: domain.CategoryApplication}}
}

var promoteCreateEvents = []domain.EventName{
	domain.EventApplicationStatusUpdated,
	domain.EventScreeningResponseProcessed,
	domain.EventPartyMemberRemoved,
}

var promoteCancelEvents = []domain.EventName{
	domain.EventPartyMemberAdded,
	domain.EventPartyClosed,
	domain.EventPartyArchived,
}

func (d promoteApplication) CreateTasks(ctx context.Context, p *domain.Party) ([]domain.Task, error) {
	if !d.applicable(p) || p.UserID == "" {
		return nil, nil
	}
	if !HasAnyEvent(p, promoteCreateEvents...) {
		return nil, nil
	}
	if !allApplicationsScreened(p) || hasPendingPromotion(p) {
		return nil, nil
	}
	if len(ActiveTasks(p, d.name)) > 0 {
		return nil, nil
	}
	t := d.newTask(p, []string{p.UserID}, 24*time.Hour, domain.TaskMetadata{Unique: true})
	return []domain.Task{t}, nil
}

func (d promoteApplication) CompleteTasks(ctx context.Context, p *domain.Party) ([]domain.Task, error) {
	if !d.applicable(p) || HasAnyEvent(p, promoteCancelEvents...) {
		return nil, nil
	}
	active := ActiveTasks(p, d.name)
	if len(active) == 0 || !HasAnyEvent(p, domain.EventQuotePromotionUpdated) {
		return nil, nil
	}
	return MarkTasksComplete(ctx, d.deps.now(), active), nil
}

func (d promoteApplication) CancelTasks(ctx context.Context, p *domain.Party) ([]domain.Task, error) {
	if !d.onTrack(p) {
		return nil, nil
	}
	active := ActiveTasks(p, d.name)
	if len(active) == 0 {
		return nil, nil
	}
	if HasAnyEvent(p, promoteCancelEvents...) {
		return CancelTasks(active), nil
	}
	// Merge and void flows cancel only when they explicitly ask for it.
	for _, ev := range FindEvents(p, domain.EventPartyMerged, domain.EventLeaseVoided) {
		if ev.Metadata.HandlePromoteApplicationTask {
			return CancelTasks(active), nil
		}
	}
	return nil, nil
}

// allApplicationsScreened reports whether every active resident and
// guarantor has a completed application whose screening requests all reached
// a terminal status. Members without an application block promotion.
func allApplicationsScreened(p *domain.Party) bool {
	byPerson := make(map[string]domain.Application, len(p.Applications))
	for _, a := range p.Applications {
		byPerson[a.PersonID] = a
	}
	checked := 0
	for _, m := range p.ActiveMembers() {
		if m.PartyMember.Type == domain.MemberOccupant {
			continue
		}
		a, ok := byPerson[m.Person.ID]
		if !ok || a.Status != domain.ApplicationCompleted {
			return false
		}
		for _, s := range a.Screening {
			if !s.Terminal() {
				return false
			}
		}
		checked++
	}
	return checked > 0
}

func hasPendingPromotion(p *domain.Party) bool {
	for _, pr := range p.Promotions {
		if pr.Pending() {
			return true
		}
	}
	return false
}
