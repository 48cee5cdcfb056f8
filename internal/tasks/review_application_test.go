package tasks

import (
	"context"
	"testing"

	"leaseline/internal/domain"
)

func TestReviewApplicationCreate(t *testing.T) {
	deps := testDeps()
	deps.Roles = stubRoles{users: []string{"approver-1"}}
	def := NewReviewApplication(deps)
	p := withEvents(newParty(), domain.PartyEvent{
		Event:    domain.EventQuotePromotionUpdated,
		Metadata: domain.EventMetadata{PromotionStatus: string(domain.PromotionPendingApproval), QuoteID: "quote-1"},
	})

	created, err := def.CreateTasks(context.Background(), p)
	if err != nil || len(created) != 1 {
		t.Fatalf("create: %v %v", created, err)
	}
	task := created[0]
	if task.UserIDs[0] != "approver-1" {
		t.Fatalf("expected approver assignment, got %v", task.UserIDs)
	}
	if len(task.Metadata.QuoteIDs) != 1 || task.Metadata.QuoteIDs[0] != "quote-1" {
		t.Fatalf("expected quote reference, got %v", task.Metadata.QuoteIDs)
	}
}

func TestReviewApplicationNoApproversNoTask(t *testing.T) {
	deps := testDeps()
	deps.Roles = stubRoles{}
	def := NewReviewApplication(deps)
	p := withEvents(newParty(), domain.PartyEvent{
		Event:    domain.EventQuotePromotionUpdated,
		Metadata: domain.EventMetadata{PromotionStatus: string(domain.PromotionPendingApproval)},
	})
	created, err := def.CreateTasks(context.Background(), p)
	if err != nil || len(created) != 0 {
		t.Fatalf("expected nothing without approvers, got %v %v", created, err)
	}
}

func TestReviewApplicationCompleteOnDecision(t *testing.T) {
	def := NewReviewApplication(testDeps())
	for _, status := range []domain.PromotionStatus{
		domain.PromotionApproved,
		domain.PromotionRequiresWork,
		domain.PromotionCanceled,
	} {
		p := withEvents(newParty(), domain.PartyEvent{
			Event:    domain.EventQuotePromotionUpdated,
			Metadata: domain.EventMetadata{PromotionStatus: string(status)},
		})
		p.Tasks = []domain.Task{activeTask(domain.TaskReviewApplication, "t-1")}
		completed, err := def.CompleteTasks(context.Background(), p)
		if err != nil || len(completed) != 1 {
			t.Fatalf("%s: complete: %v %v", status, completed, err)
		}
	}
}

func TestReviewApplicationPendingIsNotADecision(t *testing.T) {
	def := NewReviewApplication(testDeps())
	p := withEvents(newParty(), domain.PartyEvent{
		Event:    domain.EventQuotePromotionUpdated,
		Metadata: domain.EventMetadata{PromotionStatus: string(domain.PromotionPendingApproval)},
	})
	p.Tasks = []domain.Task{activeTask(domain.TaskReviewApplication, "t-1")}
	completed, err := def.CompleteTasks(context.Background(), p)
	if err != nil || len(completed) != 0 {
		t.Fatalf("pending promotion must not complete, got %v %v", completed, err)
	}
}
