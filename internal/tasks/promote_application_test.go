package tasks

import (
	"context"
	"testing"

	"leaseline/internal/domain"
)

func screenedParty() *domain.Party {
	p := newParty()
	p.Members = []domain.Member{
		member("person-1", domain.MemberResident, domain.ContactInfo{}),
		member("person-2", domain.MemberGuarantor, domain.ContactInfo{}),
	}
	p.Applications = []domain.Application{
		{ID: "app-1", PersonID: "person-1", Status: domain.ApplicationCompleted, Screening: []domain.ScreeningStatus{domain.ScreeningApproved}},
		{ID: "app-2", PersonID: "person-2", Status: domain.ApplicationCompleted, Screening: []domain.ScreeningStatus{domain.ScreeningApproved}},
	}
	return p
}

func TestPromoteApplicationCreate(t *testing.T) {
	def := NewPromoteApplication(testDeps())
	p := withEvents(screenedParty(), domain.PartyEvent{Event: domain.EventScreeningResponseProcessed})

	created, err := def.CreateTasks(context.Background(), p)
	if err != nil || len(created) != 1 {
		t.Fatalf("create: %v %v", created, err)
	}
	if created[0].Name != domain.TaskPromoteApplication || created[0].Category != domain.CategoryApplication {
		t.Fatalf("wrong task: %+v", created[0])
	}
}

func TestPromoteApplicationBlockedByUnscreenedMember(t *testing.T) {
	def := NewPromoteApplication(testDeps())
	p := withEvents(screenedParty(), domain.PartyEvent{Event: domain.EventScreeningResponseProcessed})
	p.Applications[1].Screening = []domain.ScreeningStatus{domain.ScreeningPending}
	created, err := def.CreateTasks(context.Background(), p)
	if err != nil || len(created) != 0 {
		t.Fatalf("expected nothing while screening pending, got %v %v", created, err)
	}
}

func TestPromoteApplicationIgnoresOccupants(t *testing.T) {
	// Occupants do not apply; a missing application from one must not block.
	def := NewPromoteApplication(testDeps())
	p := withEvents(screenedParty(), domain.PartyEvent{Event: domain.EventScreeningResponseProcessed})
	p.Members = append(p.Members, member("person-3", domain.MemberOccupant, domain.ContactInfo{}))
	created, err := def.CreateTasks(context.Background(), p)
	if err != nil || len(created) != 1 {
		t.Fatalf("create: %v %v", created, err)
	}
}

func TestPromoteApplicationBlockedByPendingPromotion(t *testing.T) {
	def := NewPromoteApplication(testDeps())
	p := withEvents(screenedParty(), domain.PartyEvent{Event: domain.EventScreeningResponseProcessed})
	p.Promotions = []domain.QuotePromotion{{ID: "pr-1", Status: domain.PromotionPendingApproval}}
	created, err := def.CreateTasks(context.Background(), p)
	if err != nil || len(created) != 0 {
		t.Fatalf("expected nothing with pending promotion, got %v %v", created, err)
	}
}

func TestPromoteApplicationDisallowedOnCorporate(t *testing.T) {
	def := NewPromoteApplication(testDeps())
	p := withEvents(screenedParty(), domain.PartyEvent{Event: domain.EventScreeningResponseProcessed})
	p.LeaseType = domain.LeaseTypeCorporate
	p.Tasks = []domain.Task{activeTask(domain.TaskPromoteApplication, "t-1")}

	created, err := def.CreateTasks(context.Background(), p)
	if err != nil || len(created) != 0 {
		t.Fatalf("corporate create: %v %v", created, err)
	}
	canceled, err := def.CancelTasks(context.Background(), p)
	if err != nil || len(canceled) != 0 {
		t.Fatalf("corporate cancel: %v %v", canceled, err)
	}
}

func TestPromoteApplicationComplete(t *testing.T) {
	def := NewPromoteApplication(testDeps())
	p := withEvents(newParty(), domain.PartyEvent{
		Event:    domain.EventQuotePromotionUpdated,
		Metadata: domain.EventMetadata{PromotionStatus: string(domain.PromotionApproved)},
	})
	p.Tasks = []domain.Task{activeTask(domain.TaskPromoteApplication, "t-1")}

	completed, err := def.CompleteTasks(context.Background(), p)
	if err != nil || len(completed) != 1 {
		t.Fatalf("complete: %v %v", completed, err)
	}
	if completed[0].ID != "t-1" || completed[0].State != domain.TaskCompleted {
		t.Fatalf("wrong patch: %+v", completed[0])
	}
}

func TestPromoteApplicationCancelOnMemberAdded(t *testing.T) {
	// A new member resets screening; the promotion prompt no longer holds.
	def := NewPromoteApplication(testDeps())
	p := withEvents(newParty(), domain.PartyEvent{Event: domain.EventPartyMemberAdded})
	p.Tasks = []domain.Task{activeTask(domain.TaskPromoteApplication, "t-1")}

	canceled, err := def.CancelTasks(context.Background(), p)
	if err != nil || len(canceled) != 1 {
		t.Fatalf("cancel: %v %v", canceled, err)
	}
}

func TestPromoteApplicationMergeCancelsOnlyWhenFlagged(t *testing.T) {
	def := NewPromoteApplication(testDeps())
	p := withEvents(newParty(), domain.PartyEvent{Event: domain.EventPartyMerged})
	p.Tasks = []domain.Task{activeTask(domain.TaskPromoteApplication, "t-1")}

	canceled, err := def.CancelTasks(context.Background(), p)
	if err != nil || len(canceled) != 0 {
		t.Fatalf("unflagged merge must not cancel, got %v %v", canceled, err)
	}

	p.Events[0].Metadata.HandlePromoteApplicationTask = true
	canceled, err = def.CancelTasks(context.Background(), p)
	if err != nil || len(canceled) != 1 {
		t.Fatalf("flagged merge must cancel, got %v %v", canceled, err)
	}
}
