package tasks

import (
	"context"
	"time"

	"leaseline/internal/domain"
)

// reviewApplication is created for the application-approver role holders when
// a quote promotion lands in pending approval, and completed once the
// promotion is decided either way.
type reviewApplication struct {
	base
}

func NewReviewApplication(deps Deps) Definition {
	return reviewApplication{base{deps: deps, name: domain.TaskReviewApplication, category: domain.CategoryApplication}}
}

func (d reviewApplication) CreateTasks(ctx context.Context, p *domain.Party) ([]domain.Task, error) {
	if !d.applicable(p) {
		return nil, nil
	}
	var quoteIDs []string
	for _, ev := range FindEvents(p, domain.EventQuotePromotionUpdated) {
		if ev.Metadata.PromotionStatus == string(domain.PromotionPendingApproval) {
			quoteIDs = append(quoteIDs, ev.Metadata.QuoteID)
		}
	}
	if len(quoteIDs) == 0 || len(ActiveTasks(p, d.name)) > 0 {
		return nil, nil
	}
	users, err := d.deps.Roles.UsersForRole(ctx, p.ID, d.deps.Config.Roles.ApplicationApprover)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, nil
	}
	t := d.newTask(p, users, 24*time.Hour, domain.TaskMetadata{
		Unique:   true,
		QuoteIDs: quoteIDs,
	})
	return []domain.Task{t}, nil
}

func (d reviewApplication) CompleteTasks(ctx context.Context, p *domain.Party) ([]domain.Task, error) {
	if !d.applicable(p) || HasAnyEvent(p, partyEndedEvents...) {
		return nil, nil
	}
	active := ActiveTasks(p, d.name)
	if len(active) == 0 {
		return nil, nil
	}
	decided := false
	for _, ev := range FindEvents(p, domain.EventQuotePromotionUpdated) {
		switch ev.Metadata.PromotionStatus {
		case string(domain.PromotionApproved), string(domain.PromotionRequiresWork), string(domain.PromotionCanceled):
			decided = true
		}
	}
	if !decided {
		return nil, nil
	}
	return MarkTasksComplete(ctx, d.deps.now(), active), nil
}

func (d reviewApplication) CancelTasks(ctx context.Context, p *domain.Party) ([]domain.Task, error) {
	if !d.onTrack(p) {
		return nil, nil
	}
	active := ActiveTasks(p, d.name)
	if len(active) == 0 || !HasAnyEvent(p, partyEndedEvents...) {
		return nil, nil
	}
	return CancelTasks(active), nil
}
