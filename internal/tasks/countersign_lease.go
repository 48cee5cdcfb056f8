package tasks

import (
	"context"
	"slices"
	"time"

	"leaseline/internal/domain"
)

// countersignLease tracks one counter-signature task per set of leases
// needing signature. It is created when residents finish signing an envelope,
// records partially completed leases in metadata.completedLeases for
// corporate multi-lease parties, and completes only when every active lease's
// every envelope carries both resident and counter-signer signatures.
type countersignLease struct {
	base
}

func NewCountersignLease(deps Deps) Definition {
	return countersignLease{base{deps: deps, name: domain.TaskCountersignLease, category: domain.CategoryLease}}
}

var countersignCompleteEvents = []domain.EventName{
	domain.EventLeaseCountersigned,
	domain.EventLeaseExecuted,
}

var countersignCancelEvents = []domain.EventName{
	domain.EventLeaseVersionCreated,
	domain.EventLeaseVoided,
	domain.EventPartyArchived,
}

func (d countersignLease) CreateTasks(ctx context.Context, p *domain.Party) ([]domain.Task, error) {
	if !d.applicable(p) {
		return nil, nil
	}
	if !HasAnyEvent(p, domain.EventLeaseSigned) {
		return nil, nil
	}
	if !anyLeaseCountersignReady(p) || len(ActiveTasks(p, d.name)) > 0 {
		return nil, nil
	}
	users, err := d.deps.Roles.UsersForRole(ctx, p.ID, d.deps.Config.Roles.CounterSigner)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, nil
	}
	t := d.newTask(p, users, 48*time.Hour, domain.TaskMetadata{Unique: true})
	return []domain.Task{t}, nil
}

func (d countersignLease) CompleteTasks(ctx context.Context, p *domain.Party) ([]domain.Task, error) {
	if !d.applicable(p) || HasAnyEvent(p, domain.EventPartyArchived) || !HasAnyEvent(p, countersignCompleteEvents...) {
		return nil, nil
	}
	active := ActiveTasks(p, d.name)
	if len(active) == 0 {
		return nil, nil
	}
	signed, pending := signedAndPendingLeases(p)
	if len(signed) == 0 {
		return nil, nil
	}
	completedBy := completingUser(ctx)
	now := d.deps.now().UTC()
	var out []domain.Task
	for _, t := range active {
		if len(pending) == 0 {
			out = append(out, domain.Task{
				ID:             t.ID,
				Name:           t.Name,
				State:          domain.TaskCompleted,
				CompletionDate: &now,
				Metadata: domain.TaskMetadata{
					CompletedBy:     completedBy,
					CompletedLeases: signed,
				},
			})
			continue
		}
		// Partial progress on a multi-lease party: record the leases that
		// are done without completing the task.
		if !slices.Equal(t.Metadata.CompletedLeases, signed) {
			out = append(out, domain.Task{
				ID:       t.ID,
				Name:     t.Name,
				Metadata: domain.TaskMetadata{Unique: true, CompletedLeases: signed},
			})
		}
	}
	return out, nil
}

func (d countersignLease) CancelTasks(ctx context.Context, p *domain.Party) ([]domain.Task, error) {
	if !d.onTrack(p) {
		return nil, nil
	}
	active := ActiveTasks(p, d.name)
	if len(active) == 0 || !HasAnyEvent(p, countersignCancelEvents...) {
		return nil, nil
	}
	if HasAnyEvent(p, domain.EventPartyArchived) {
		return CancelTasks(active), nil
	}
	// A fully signed lease set is a completion, not a cancellation.
	if signed, pending := signedAndPendingLeases(p); len(signed) > 0 && len(pending) == 0 {
		return nil, nil
	}
	if !anyLeaseCountersignReady(p) {
		return CancelTasks(active), nil
	}
	return nil, nil
}

func anyLeaseCountersignReady(p *domain.Party) bool {
	for _, l := range p.Leases {
		if !l.Active() {
			continue
		}
		for _, env := range l.Envelopes {
			if EnvelopeCountersignReady(env) {
				return true
			}
		}
	}
	return false
}

// signedAndPendingLeases splits the party's active leases into fully signed
// ones and ones still missing signatures, in snapshot order.
func signedAndPendingLeases(p *domain.Party) (signed, pending []string) {
	for _, l := range p.Leases {
		if !l.Active() {
			continue
		}
		if LeaseFullySigned(l) {
			signed = append(signed, l.ID)
		} else {
			pending = append(pending, l.ID)
		}
	}
	return signed, pending
}
