package tasks

import (
	"context"
	"time"

	"leaseline/internal/domain"
)

// collectServiceAnimalDoc asks the party owner to collect certification
// paperwork once a service animal is registered on the party.
type collectServiceAnimalDoc struct {
	base
}

func NewCollectServiceAnimalDoc(deps Deps) Definition {
	return collectServiceAnimalDoc{base{deps: deps, name: domain.TaskCollectServiceAnimalDoc, category: domain.CategoryDocuments}}
}

func (d collectServiceAnimalDoc) CreateTasks(ctx context.Context, p *domain.Party) ([]domain.Task, error) {
	if !d.applicable(p) || p.UserID == "" {
		return nil, nil
	}
	if !HasAnyEvent(p, domain.EventPetAdded) || !hasServiceAnimal(p) {
		return nil, nil
	}
	if len(ActiveTasks(p, d.name)) > 0 {
		return nil, nil
	}
	t := d.newTask(p, []string{p.UserID}, 72*time.Hour, domain.TaskMetadata{Unique: true})
	return []domain.Task{t}, nil
}

func (d collectServiceAnimalDoc) CompleteTasks(ctx context.Context, p *domain.Party) ([]domain.Task, error) {
	if !d.applicable(p) || HasAnyEvent(p, partyEndedEvents...) {
		return nil, nil
	}
	active := ActiveTasks(p, d.name)
	if len(active) == 0 {
		return nil, nil
	}
	received := false
	for _, ev := range FindEvents(p, domain.EventDocumentAdded) {
		if ev.Metadata.DocumentType == domain.DocumentTypeServiceAnimal {
			received = true
			break
		}
	}
	if !received {
		return nil, nil
	}
	return MarkTasksComplete(ctx, d.deps.now(), active), nil
}

func (d collectServiceAnimalDoc) CancelTasks(ctx context.Context, p *domain.Party) ([]domain.Task, error) {
	if !d.onTrack(p) {
		return nil, nil
	}
	active := ActiveTasks(p, d.name)
	if len(active) == 0 {
		return nil, nil
	}
	if HasAnyEvent(p, partyEndedEvents...) {
		return CancelTasks(active), nil
	}
	if HasAnyEvent(p, domain.EventPetRemoved) && !hasServiceAnimal(p) {
		return CancelTasks(active), nil
	}
	return nil, nil
}

func hasServiceAnimal(p *domain.Party) bool {
	for _, pet := range p.Pets {
		if pet.IsServiceAnimal {
			return true
		}
	}
	return false
}
