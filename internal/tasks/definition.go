package tasks

import (
	"context"
	"time"

	"leaseline/internal/config"
	"leaseline/internal/domain"
)

// Definition is one task rule: a small state machine deciding when tasks of
// its name are created, completed, or canceled for a party. Implementations
// are pure over the snapshot except where noted (role lookup); they never
// mutate it and never fail for business-rule non-applicability — "nothing to
// do" is an empty result.
type Definition interface {
	Name() domain.TaskName
	Category() domain.TaskCategory
	CreateTasks(ctx context.Context, party *domain.Party) ([]domain.Task, error)
	CompleteTasks(ctx context.Context, party *domain.Party) ([]domain.Task, error)
	CancelTasks(ctx context.Context, party *domain.Party) ([]domain.Task, error)
}

// RoleLookup resolves the users holding a functional role for a party. The
// countersign and review-application rules use it to assign their tasks.
type RoleLookup interface {
	UsersForRole(ctx context.Context, partyID, role string) ([]string, error)
}

// Deps are shared collaborators injected into every definition.
type Deps struct {
	Config *config.Config
	Roles  RoleLookup
	Now    func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// base carries the identity and gate checks common to all definitions.
type base struct {
	deps     Deps
	name     domain.TaskName
	category domain.TaskCategory
}

func (b base) Name() domain.TaskName         { return b.name }
func (b base) Category() domain.TaskCategory { return b.category }

// applicable is the gate for creating or completing tasks: workflow track,
// workflow state, and the corporate-party allow list must all admit the task.
func (b base) applicable(p *domain.Party) bool {
	if !b.onTrack(p) {
		return false
	}
	if b.deps.Config.StateBlocked(b.name, p.WorkflowState) {
		return false
	}
	return true
}

// onTrack checks only workflow-track and corporate applicability; it still
// holds in terminal workflow states so cancellations can go through.
func (b base) onTrack(p *domain.Party) bool {
	if p.Corporate() && !b.deps.Config.AllowedOnCorporate(b.name) {
		return false
	}
	return b.deps.Config.ShouldProcessOnWorkflow(b.name, p.WorkflowName)
}

func (b base) dueIn(d time.Duration) time.Time {
	return b.deps.now().UTC().Add(d)
}

// newTask builds an unsaved Active task; the task store assigns the id.
func (b base) newTask(p *domain.Party, users []string, due time.Duration, md domain.TaskMetadata) domain.Task {
	md.CreatedByType = "system"
	return domain.Task{
		Name:     b.name,
		Category: b.category,
		PartyID:  p.ID,
		UserIDs:  users,
		State:    domain.TaskActive,
		DueDate:  b.dueIn(due),
		Metadata: md,
	}
}

// Registry returns all definitions in their fixed evaluation order.
func Registry(deps Deps) []Definition {
	return []Definition{
		NewIntroduceYourself(deps),
		NewCallBack(deps),
		NewCompleteContactInfo(deps),
		NewCountersignLease(deps),
		NewPromoteApplication(deps),
		NewReviewApplication(deps),
		NewRemoveAnonymousEmail(deps),
		NewCollectServiceAnimalDoc(deps),
		NewCollectEmergencyContact(deps),
		NewContactPartyDeclinedDecision(deps),
		NewSendRenewalQuote(deps),
		NewSendRenewalReminder(deps),
	}
}

// ByName indexes a registry by task name.
func ByName(defs []Definition) map[domain.TaskName]Definition {
	out := make(map[domain.TaskName]Definition, len(defs))
	for _, d := range defs {
		out[d.Name()] = d
	}
	return out
}
