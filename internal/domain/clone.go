package domain

import "time"

// Clone deep-copies the party snapshot. The dispatcher clones at its boundary
// so rule modules can never reach back into caller-owned state, which keeps
// concurrent dispatches for different parties independent.
func (p *Party) Clone() *Party {
	if p == nil {
		return nil
	}
	out := *p
	out.EndDate = cloneTime(p.EndDate)
	out.Members = cloneMembers(p.Members)
	out.Leases = cloneLeases(p.Leases)
	out.Tasks = cloneTasks(p.Tasks)
	out.Comms = cloneComms(p.Comms)
	out.Promotions = append([]QuotePromotion(nil), p.Promotions...)
	out.Applications = cloneApplications(p.Applications)
	out.Pets = append([]Pet(nil), p.Pets...)
	out.ActiveLeaseData = cloneActiveLeases(p.ActiveLeaseData)
	out.Events = cloneEvents(p.Events)
	return &out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneMembers(in []Member) []Member {
	if in == nil {
		return nil
	}
	out := make([]Member, len(in))
	for i, m := range in {
		m.PartyMember.EndDate = cloneTime(m.PartyMember.EndDate)
		out[i] = m
	}
	return out
}

func cloneLeases(in []Lease) []Lease {
	if in == nil {
		return nil
	}
	out := make([]Lease, len(in))
	for i, l := range in {
		envs := make([]Envelope, len(l.Envelopes))
		for j, e := range l.Envelopes {
			e.Signatures = append([]Signature(nil), e.Signatures...)
			envs[j] = e
		}
		l.Envelopes = envs
		out[i] = l
	}
	return out
}

func cloneTasks(in []Task) []Task {
	if in == nil {
		return nil
	}
	out := make([]Task, len(in))
	for i, t := range in {
		t.UserIDs = append([]string(nil), t.UserIDs...)
		t.CompletionDate = cloneTime(t.CompletionDate)
		t.Metadata.CompletedLeases = append([]string(nil), t.Metadata.CompletedLeases...)
		t.Metadata.QuoteIDs = append([]string(nil), t.Metadata.QuoteIDs...)
		out[i] = t
	}
	return out
}

func cloneComms(in []Comm) []Comm {
	if in == nil {
		return nil
	}
	out := make([]Comm, len(in))
	for i, c := range in {
		c.PersonIDs = append([]string(nil), c.PersonIDs...)
		out[i] = c
	}
	return out
}

func cloneApplications(in []Application) []Application {
	if in == nil {
		return nil
	}
	out := make([]Application, len(in))
	for i, a := range in {
		a.Screening = append([]ScreeningStatus(nil), a.Screening...)
		out[i] = a
	}
	return out
}

func cloneActiveLeases(in []ActiveLease) []ActiveLease {
	if in == nil {
		return nil
	}
	out := make([]ActiveLease, len(in))
	for i, al := range in {
		al.EndDate = cloneTime(al.EndDate)
		out[i] = al
	}
	return out
}

func cloneEvents(in []PartyEvent) []PartyEvent {
	if in == nil {
		return nil
	}
	out := make([]PartyEvent, len(in))
	for i, ev := range in {
		ev.Metadata.PersonIDs = append([]string(nil), ev.Metadata.PersonIDs...)
		out[i] = ev
	}
	return out
}
