package tasks

import (
	"context"
	"slices"
	"strings"
	"time"

	"leaseline/internal/app"
	"leaseline/internal/domain"
)

// partyEndedEvents cancel most task types outright.
var partyEndedEvents = []domain.EventName{
	domain.EventPartyClosed,
	domain.EventPartyArchived,
}

// FindEvent returns the first event with the given name.
func FindEvent(p *domain.Party, name domain.EventName) (domain.PartyEvent, bool) {
	for _, ev := range p.Events {
		if ev.Event == name {
			return ev, true
		}
	}
	return domain.PartyEvent{}, false
}

// FindEvents returns all events matching any of the names, in snapshot order.
func FindEvents(p *domain.Party, names ...domain.EventName) []domain.PartyEvent {
	var out []domain.PartyEvent
	for _, ev := range p.Events {
		if slices.Contains(names, ev.Event) {
			out = append(out, ev)
		}
	}
	return out
}

// HasAnyEvent reports whether any of the named events is present.
func HasAnyEvent(p *domain.Party, names ...domain.EventName) bool {
	for _, ev := range p.Events {
		if slices.Contains(names, ev.Event) {
			return true
		}
	}
	return false
}

// ActiveTasks returns the party's Active tasks of the given name.
func ActiveTasks(p *domain.Party, name domain.TaskName) []domain.Task {
	var out []domain.Task
	for _, t := range p.Tasks {
		if t.Name == name && t.State == domain.TaskActive {
			out = append(out, t)
		}
	}
	return out
}

// CompletedTasks returns the party's Completed tasks of the given name.
func CompletedTasks(p *domain.Party, name domain.TaskName) []domain.Task {
	var out []domain.Task
	for _, t := range p.Tasks {
		if t.Name == name && t.State == domain.TaskCompleted {
			out = append(out, t)
		}
	}
	return out
}

// ActiveTaskForPerson returns the Active task of the given name scoped to one
// party member, for per-member task types.
func ActiveTaskForPerson(p *domain.Party, name domain.TaskName, personID string) (domain.Task, bool) {
	for _, t := range ActiveTasks(p, name) {
		if t.Metadata.PersonID == personID {
			return t, true
		}
	}
	return domain.Task{}, false
}

// MarkTasksComplete returns completion patches for the given tasks. The
// acting user from the context is recorded as completedBy, SYSTEM otherwise.
func MarkTasksComplete(ctx context.Context, now time.Time, tasks []domain.Task) []domain.Task {
	completedBy := completingUser(ctx)
	var out []domain.Task
	for _, t := range tasks {
		done := now.UTC()
		out = append(out, domain.Task{
			ID:             t.ID,
			Name:           t.Name,
			State:          domain.TaskCompleted,
			CompletionDate: &done,
			Metadata:       domain.TaskMetadata{CompletedBy: completedBy},
		})
	}
	return out
}

// completingUser resolves who a completion is attributed to.
func completingUser(ctx context.Context) string {
	if uid := app.UserID(ctx); uid != "" {
		return uid
	}
	return domain.SystemUser
}

// CancelTasks returns cancellation patches for the given tasks.
func CancelTasks(tasks []domain.Task) []domain.Task {
	var out []domain.Task
	for _, t := range tasks {
		out = append(out, domain.Task{
			ID:    t.ID,
			Name:  t.Name,
			State: domain.TaskCanceled,
		})
	}
	return out
}

// anonymousEmailSuffix marks ILS-masked reply addresses that are not real
// resident emails.
const anonymousEmailSuffix = "@anonymous.invalid"

// IsAnonymousEmail reports whether the address is an ILS-generated mask.
func IsAnonymousEmail(email string) bool {
	return email != "" && strings.HasSuffix(strings.ToLower(email), anonymousEmailSuffix)
}

// HasContactInfo reports whether the member has any reachable contact point.
func HasContactInfo(m domain.Member) bool {
	return m.ContactInfo.DefaultEmail != "" || m.ContactInfo.DefaultPhone != ""
}

// EnvelopeFullySigned reports whether every signature in the envelope is
// provided, counter-signers included.
func EnvelopeFullySigned(env domain.Envelope) bool {
	if len(env.Signatures) == 0 {
		return false
	}
	for _, s := range env.Signatures {
		if !s.Status.Complete() {
			return false
		}
	}
	return true
}

// EnvelopeVoided reports whether the envelope has been voided.
func EnvelopeVoided(env domain.Envelope) bool {
	for _, s := range env.Signatures {
		if s.Status != domain.SignatureVoided {
			return false
		}
	}
	return len(env.Signatures) > 0
}

// EnvelopeCountersignReady reports whether all resident and guarantor
// signatures are in but at least one counter-signer signature is missing.
func EnvelopeCountersignReady(env domain.Envelope) bool {
	if EnvelopeVoided(env) {
		return false
	}
	sawCounter, counterMissing := false, false
	for _, s := range env.Signatures {
		if s.SignerType == domain.SignerCounterSigner {
			sawCounter = true
			if !s.Status.Complete() {
				counterMissing = true
			}
			continue
		}
		if !s.Status.Complete() {
			return false
		}
	}
	return sawCounter && counterMissing
}

// LeaseFullySigned reports whether every non-voided envelope of the lease is
// fully signed by both residents and counter-signers.
func LeaseFullySigned(l domain.Lease) bool {
	signed := 0
	for _, env := range l.Envelopes {
		if EnvelopeVoided(env) {
			continue
		}
		if !EnvelopeFullySigned(env) {
			return false
		}
		signed++
	}
	return signed > 0
}
