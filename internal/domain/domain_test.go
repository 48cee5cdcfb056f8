package domain

import (
	"testing"
	"time"
)

func TestCloneIsDeep(t *testing.T) {
	end := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	p := &Party{
		ID:            "party-1",
		WorkflowName:  WorkflowNewLease,
		WorkflowState: WorkflowStateActive,
		Members: []Member{{
			Person:      Person{ID: "person-1"},
			PartyMember: PartyMembership{ID: "pm-1", PersonID: "person-1", EndDate: &end},
		}},
		Leases: []Lease{{
			ID:     "lease-1",
			Status: LeaseSubmitted,
			Envelopes: []Envelope{{
				ID:         "env-1",
				Signatures: []Signature{{EnvelopeID: "env-1", SignerType: SignerResident, Status: SignatureSent}},
			}},
		}},
		Tasks: []Task{{
			ID:       "t-1",
			Name:     TaskCountersignLease,
			UserIDs:  []string{"u-1"},
			Metadata: TaskMetadata{CompletedLeases: []string{"lease-0"}},
		}},
		Events: []PartyEvent{{Event: EventLeaseSigned, Metadata: EventMetadata{PersonIDs: []string{"person-1"}}}},
	}

	c := p.Clone()
	c.Members[0].PartyMember.EndDate = nil
	c.Leases[0].Envelopes[0].Signatures[0].Status = SignatureSigned
	c.Tasks[0].UserIDs[0] = "changed"
	c.Tasks[0].Metadata.CompletedLeases[0] = "changed"
	c.Events[0].Metadata.PersonIDs[0] = "changed"

	if p.Members[0].PartyMember.EndDate == nil {
		t.Fatal("member end date shared")
	}
	if p.Leases[0].Envelopes[0].Signatures[0].Status != SignatureSent {
		t.Fatal("signature shared")
	}
	if p.Tasks[0].UserIDs[0] != "u-1" || p.Tasks[0].Metadata.CompletedLeases[0] != "lease-0" {
		t.Fatal("task slices shared")
	}
	if p.Events[0].Metadata.PersonIDs[0] != "person-1" {
		t.Fatal("event metadata shared")
	}
}

func TestCloneNil(t *testing.T) {
	var p *Party
	if p.Clone() != nil {
		t.Fatal("nil clone must stay nil")
	}
}

func TestPartyAccessors(t *testing.T) {
	end := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	p := &Party{
		LeaseType: LeaseTypeCorporate,
		Members: []Member{
			{Person: Person{ID: "person-1"}, PartyMember: PartyMembership{PersonID: "person-1", Type: MemberResident}},
			{Person: Person{ID: "person-2"}, PartyMember: PartyMembership{PersonID: "person-2", Type: MemberOccupant}},
			{Person: Person{ID: "person-3"}, PartyMember: PartyMembership{PersonID: "person-3", Type: MemberResident, EndDate: &end}},
		},
	}
	if !p.Corporate() || p.Ended() {
		t.Fatalf("wrong flags: corporate=%v ended=%v", p.Corporate(), p.Ended())
	}
	if got := p.ActiveMembers(); len(got) != 2 {
		t.Fatalf("expected 2 active members, got %d", len(got))
	}
	if got := p.ActiveResidents(); len(got) != 1 || got[0].Person.ID != "person-1" {
		t.Fatalf("wrong active residents: %v", got)
	}
	if _, ok := p.MemberByPersonID("person-3"); !ok {
		t.Fatal("removed members must stay addressable")
	}
	if _, ok := p.MemberByPersonID("nobody"); ok {
		t.Fatal("unknown person must not resolve")
	}
}

func TestSignatureStatusComplete(t *testing.T) {
	complete := []SignatureStatus{SignatureSigned, SignatureWetSigned}
	for _, s := range complete {
		if !s.Complete() {
			t.Fatalf("%s must count as complete", s)
		}
	}
	for _, s := range []SignatureStatus{SignatureNotSent, SignatureSent, SignatureVoided} {
		if s.Complete() {
			t.Fatalf("%s must not count as complete", s)
		}
	}
}
