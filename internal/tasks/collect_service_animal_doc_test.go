package tasks

import (
	"context"
	"testing"

	"leaseline/internal/domain"
)

func TestCollectServiceAnimalDocCreate(t *testing.T) {
	def := NewCollectServiceAnimalDoc(testDeps())
	p := withEvents(newParty(), domain.PartyEvent{Event: domain.EventPetAdded})
	p.Pets = []domain.Pet{{ID: "pet-1", IsServiceAnimal: true}}

	created, err := def.CreateTasks(context.Background(), p)
	if err != nil || len(created) != 1 {
		t.Fatalf("create: %v %v", created, err)
	}
	if created[0].Category != domain.CategoryDocuments {
		t.Fatalf("wrong category: %+v", created[0])
	}
}

func TestCollectServiceAnimalDocOrdinaryPet(t *testing.T) {
	def := NewCollectServiceAnimalDoc(testDeps())
	p := withEvents(newParty(), domain.PartyEvent{Event: domain.EventPetAdded})
	p.Pets = []domain.Pet{{ID: "pet-1"}}
	created, err := def.CreateTasks(context.Background(), p)
	if err != nil || len(created) != 0 {
		t.Fatalf("expected nothing for a regular pet, got %v %v", created, err)
	}
}

func TestCollectServiceAnimalDocCompleteOnDocument(t *testing.T) {
	def := NewCollectServiceAnimalDoc(testDeps())
	p := withEvents(newParty(), domain.PartyEvent{
		Event:    domain.EventDocumentAdded,
		Metadata: domain.EventMetadata{DocumentType: domain.DocumentTypeServiceAnimal},
	})
	p.Tasks = []domain.Task{activeTask(domain.TaskCollectServiceAnimalDoc, "t-1")}

	completed, err := def.CompleteTasks(context.Background(), p)
	if err != nil || len(completed) != 1 {
		t.Fatalf("complete: %v %v", completed, err)
	}
}

func TestCollectServiceAnimalDocOtherDocumentIgnored(t *testing.T) {
	def := NewCollectServiceAnimalDoc(testDeps())
	p := withEvents(newParty(), domain.PartyEvent{
		Event:    domain.EventDocumentAdded,
		Metadata: domain.EventMetadata{DocumentType: "leaseAddendum"},
	})
	p.Tasks = []domain.Task{activeTask(domain.TaskCollectServiceAnimalDoc, "t-1")}
	completed, err := def.CompleteTasks(context.Background(), p)
	if err != nil || len(completed) != 0 {
		t.Fatalf("expected nothing, got %v %v", completed, err)
	}
}

func TestCollectServiceAnimalDocCancelWhenAnimalLeaves(t *testing.T) {
	def := NewCollectServiceAnimalDoc(testDeps())
	p := withEvents(newParty(), domain.PartyEvent{Event: domain.EventPetRemoved})
	p.Tasks = []domain.Task{activeTask(domain.TaskCollectServiceAnimalDoc, "t-1")}

	canceled, err := def.CancelTasks(context.Background(), p)
	if err != nil || len(canceled) != 1 {
		t.Fatalf("cancel: %v %v", canceled, err)
	}

	// A second service animal still on the party keeps the task alive.
	p.Pets = []domain.Pet{{ID: "pet-2", IsServiceAnimal: true}}
	canceled, err = def.CancelTasks(context.Background(), p)
	if err != nil || len(canceled) != 0 {
		t.Fatalf("expected no cancel, got %v %v", canceled, err)
	}
}
