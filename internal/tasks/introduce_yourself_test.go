package tasks

import (
	"context"
	"testing"
	"time"

	"leaseline/internal/app"
	"leaseline/internal/domain"
)

func TestIntroduceYourselfCreate(t *testing.T) {
	def := NewIntroduceYourself(testDeps())
	p := withEvents(newParty(), domain.PartyEvent{
		Event:    domain.EventCommunicationReceived,
		Metadata: domain.EventMetadata{IsLeadCreated: true},
	})

	created, err := def.CreateTasks(context.Background(), p)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("expected 1 task, got %d", len(created))
	}
	task := created[0]
	if task.ID != "" {
		t.Fatalf("new task must not carry an id, got %q", task.ID)
	}
	if task.Name != domain.TaskIntroduceYourself || task.Category != domain.CategoryParty {
		t.Fatalf("wrong identity: %s %s", task.Name, task.Category)
	}
	if task.State != domain.TaskActive || task.PartyID != "party-1" {
		t.Fatalf("wrong state or party: %s %s", task.State, task.PartyID)
	}
	if len(task.UserIDs) != 1 || task.UserIDs[0] != "owner-1" {
		t.Fatalf("expected assignment to party owner, got %v", task.UserIDs)
	}
	if !task.Metadata.Unique || task.Metadata.CreatedByType != "system" {
		t.Fatalf("wrong metadata: %+v", task.Metadata)
	}
	if got, want := task.DueDate, testNow.Add(2*time.Hour); !got.Equal(want) {
		t.Fatalf("due date %v, want %v", got, want)
	}
}

func TestIntroduceYourselfNotALead(t *testing.T) {
	def := NewIntroduceYourself(testDeps())
	p := withEvents(newParty(), domain.PartyEvent{Event: domain.EventCommunicationReceived})
	created, err := def.CreateTasks(context.Background(), p)
	if err != nil || len(created) != 0 {
		t.Fatalf("non-lead communication must not create, got %v %v", created, err)
	}
}

func TestIntroduceYourselfNoOwner(t *testing.T) {
	def := NewIntroduceYourself(testDeps())
	p := withEvents(newParty(), domain.PartyEvent{
		Event:    domain.EventCommunicationReceived,
		Metadata: domain.EventMetadata{IsLeadCreated: true},
	})
	p.UserID = ""
	created, err := def.CreateTasks(context.Background(), p)
	if err != nil || len(created) != 0 {
		t.Fatalf("unassigned party must not create, got %v %v", created, err)
	}
}

func TestIntroduceYourselfNeverRecreatedAfterCompletion(t *testing.T) {
	def := NewIntroduceYourself(testDeps())
	p := withEvents(newParty(), domain.PartyEvent{
		Event:    domain.EventCommunicationReceived,
		Metadata: domain.EventMetadata{IsLeadCreated: true},
	})
	done := testNow
	p.Tasks = []domain.Task{{
		ID:             "t-1",
		Name:           domain.TaskIntroduceYourself,
		State:          domain.TaskCompleted,
		CompletionDate: &done,
	}}
	created, err := def.CreateTasks(context.Background(), p)
	if err != nil || len(created) != 0 {
		t.Fatalf("first contact happens once, got %v %v", created, err)
	}
}

func TestIntroduceYourselfComplete(t *testing.T) {
	def := NewIntroduceYourself(testDeps())
	p := withEvents(newParty(), domain.PartyEvent{Event: domain.EventCommunicationSent})
	p.Tasks = []domain.Task{activeTask(domain.TaskIntroduceYourself, "t-1")}

	completed, err := def.CompleteTasks(context.Background(), p)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if len(completed) != 1 {
		t.Fatalf("expected 1 patch, got %d", len(completed))
	}
	patch := completed[0]
	if patch.ID != "t-1" || patch.State != domain.TaskCompleted {
		t.Fatalf("wrong patch: %+v", patch)
	}
	if patch.CompletionDate == nil || !patch.CompletionDate.Equal(testNow) {
		t.Fatalf("wrong completion date: %v", patch.CompletionDate)
	}
	if patch.Metadata.CompletedBy != domain.SystemUser {
		t.Fatalf("expected SYSTEM completion, got %q", patch.Metadata.CompletedBy)
	}
}

func TestIntroduceYourselfCompletedByRequestUser(t *testing.T) {
	def := NewIntroduceYourself(testDeps())
	p := withEvents(newParty(), domain.PartyEvent{Event: domain.EventContactInfoAdded})
	p.Tasks = []domain.Task{activeTask(domain.TaskIntroduceYourself, "t-1")}

	ctx := app.WithRequest(context.Background(), app.Request{UserID: "agent-7"})
	completed, err := def.CompleteTasks(ctx, p)
	if err != nil || len(completed) != 1 {
		t.Fatalf("complete: %v %v", completed, err)
	}
	if completed[0].Metadata.CompletedBy != "agent-7" {
		t.Fatalf("expected completion by request user, got %q", completed[0].Metadata.CompletedBy)
	}
}

func TestIntroduceYourselfCancelOnClosedParty(t *testing.T) {
	def := NewIntroduceYourself(testDeps())
	p := withEvents(newParty(), domain.PartyEvent{Event: domain.EventPartyClosed})
	p.WorkflowState = domain.WorkflowStateClosed
	p.Tasks = []domain.Task{activeTask(domain.TaskIntroduceYourself, "t-1")}

	canceled, err := def.CancelTasks(context.Background(), p)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if len(canceled) != 1 || canceled[0].ID != "t-1" || canceled[0].State != domain.TaskCanceled {
		t.Fatalf("expected 1 cancel patch for t-1, got %v", canceled)
	}
}
