package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log"

	"leaseline/internal/domain"
	"leaseline/internal/tasks"
)

// Store is the external task store the engine emits mutations to.
type Store interface {
	CreateTask(ctx context.Context, partyID string, t domain.Task) error
	PatchTask(ctx context.Context, partyID string, t domain.Task) error
}

// Recorder observes every mutation the dispatcher successfully issued.
type Recorder interface {
	Record(ctx context.Context, partyID string, name domain.TaskName, action string, t domain.Task) error
}

// Mutation actions recorded against the audit log.
const (
	ActionCreate   = "create"
	ActionComplete = "complete"
	ActionCancel   = "cancel"
)

// Dispatcher runs one task definition against a party snapshot and turns the
// resulting mutations into task-store requests. Requests for a single party
// are issued strictly in sequence — create phase, then complete, then cancel,
// preserving rule order within each phase — so no two mutations for the same
// party race against the store. Dispatches for different parties are
// independent and may run concurrently.
type Dispatcher struct {
	Store Store
	Audit Recorder
}

// Process evaluates def against the party and issues the resulting HTTP
// effects. The snapshot is cloned before evaluation; the caller's copy is
// never touched. Transport failures are collected and returned joined, never
// retried here.
func (d Dispatcher) Process(ctx context.Context, party *domain.Party, def tasks.Definition) error {
	if party == nil || party.ID == "" {
		return errors.New("party snapshot required")
	}
	party = party.Clone()

	var errs []error

	var created []domain.Task
	if !party.Ended() {
		// No new tasks on an ended party; completion and cancellation
		// still run.
		var err error
		created, err = def.CreateTasks(ctx, party)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: create phase: %w", def.Name(), err))
		}
	}
	completed, err := def.CompleteTasks(ctx, party)
	if err != nil {
		errs = append(errs, fmt.Errorf("%s: complete phase: %w", def.Name(), err))
	}
	canceled, err := def.CancelTasks(ctx, party)
	if err != nil {
		errs = append(errs, fmt.Errorf("%s: cancel phase: %w", def.Name(), err))
	}

	errs = append(errs, d.send(ctx, party.ID, def.Name(), ActionCreate, created)...)
	errs = append(errs, d.send(ctx, party.ID, def.Name(), ActionComplete, completed)...)
	errs = append(errs, d.send(ctx, party.ID, def.Name(), ActionCancel, canceled)...)
	return errors.Join(errs...)
}

// ProcessAll runs every definition in order and returns one result per
// definition.
func (d Dispatcher) ProcessAll(ctx context.Context, party *domain.Party, defs []tasks.Definition) []Result {
	out := make([]Result, 0, len(defs))
	for _, def := range defs {
		out = append(out, Result{Name: def.Name(), Err: d.Process(ctx, party, def)})
	}
	return out
}

// Result is the outcome of one definition's dispatch.
type Result struct {
	Name domain.TaskName
	Err  error
}

func (d Dispatcher) send(ctx context.Context, partyID string, name domain.TaskName, action string, muts []domain.Task) []error {
	var errs []error
	for _, t := range muts {
		var err error
		if t.ID == "" {
			err = d.Store.CreateTask(ctx, partyID, t)
		} else {
			err = d.Store.PatchTask(ctx, partyID, t)
		}
		if err != nil {
			log.Printf("dispatch: %s %s for party %s failed: %v", action, name, partyID, err)
			errs = append(errs, fmt.Errorf("%s %s: %w", action, name, err))
			continue
		}
		if d.Audit != nil {
			if err := d.Audit.Record(ctx, partyID, name, action, t); err != nil {
				log.Printf("dispatch: audit %s %s for party %s failed: %v", action, name, partyID, err)
			}
		}
	}
	return errs
}
