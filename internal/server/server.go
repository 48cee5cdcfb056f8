package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	humachi "github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"

	"leaseline/internal/audit"
	"leaseline/internal/dispatch"
	"leaseline/internal/domain"
	"leaseline/internal/tasks"
)

// Config for the HTTP API handler.
type Config struct {
	Dispatcher  dispatch.Dispatcher
	Definitions []tasks.Definition
	Audit       *audit.Log
	BasePath    string
	Auth        AuthConfig
}

type apiErrorBody struct {
	Code    string         `json:"code" example:"unknown_task_name"`
	Message string         `json:"message" example:"no definition named FOO"`
	Details map[string]any `json:"details,omitempty" jsonschema:"type=object,additionalProperties=true"`
}

// apiError models the error envelope.
type apiError struct {
	status int
	Body   apiErrorBody `json:"error"`
}

func (e *apiError) GetStatus() int { return e.status }
func (e *apiError) Error() string  { return e.Body.Message }

func newAPIError(status int, code, message string, details map[string]any) huma.StatusError {
	if code == "" {
		code = defaultCodeForStatus(status)
	}
	return &apiError{
		status: status,
		Body: apiErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}

func defaultCodeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusUnprocessableEntity:
		return "unprocessable"
	default:
		return "internal_error"
	}
}

// New returns an HTTP handler exposing the decision API.
func New(cfg Config) (http.Handler, error) {
	basePath := cfg.BasePath
	if basePath == "" {
		basePath = "/v0"
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	huma.NewError = func(status int, msg string, errs ...error) huma.StatusError {
		return newAPIError(status, "", msg, nil)
	}

	router := chi.NewRouter()
	router.Use(newAuthMiddleware(basePath, cfg.Auth))
	hcfg := huma.DefaultConfig("Leaseline Decision API", "0.1.0")
	hcfg.OpenAPIPath = "/openapi"
	api := humachi.New(router, hcfg)
	group := huma.NewGroup(api, basePath)

	registerHealth(group)
	registerProcess(group, cfg)
	registerDecisions(group, cfg)

	return router, nil
}

type healthOutput struct {
	Body struct {
		Status string `json:"status" example:"ok"`
	}
}

func registerHealth(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
	}, func(ctx context.Context, _ *struct{}) (*healthOutput, error) {
		out := &healthOutput{}
		out.Body.Status = "ok"
		return out, nil
	})
}

type processInput struct {
	PartyID string `path:"partyID"`
	Body    struct {
		Party     domain.Party      `json:"party"`
		TaskNames []domain.TaskName `json:"taskNames,omitempty"`
	}
}

type processResult struct {
	TaskName domain.TaskName `json:"taskName"`
	Errors   []string        `json:"errors,omitempty"`
}

type processOutput struct {
	Body struct {
		Results []processResult `json:"results"`
	}
}

// registerProcess wires the dispatch endpoint: evaluate the selected task
// definitions (all of them by default) against the posted party snapshot and
// emit the resulting mutations to the task store.
func registerProcess(api huma.API, cfg Config) {
	byName := tasks.ByName(cfg.Definitions)
	huma.Register(api, huma.Operation{
		OperationID: "process-party-tasks",
		Method:      http.MethodPost,
		Path:        "/party/{partyID}/tasks/process",
		Summary:     "Run task definitions against a party snapshot",
	}, func(ctx context.Context, in *processInput) (*processOutput, error) {
		party := in.Body.Party
		if party.ID == "" {
			party.ID = in.PartyID
		}
		if party.ID != in.PartyID {
			return nil, newAPIError(http.StatusBadRequest, "party_mismatch", "snapshot party id does not match path", nil)
		}
		defs := cfg.Definitions
		if len(in.Body.TaskNames) > 0 {
			defs = defs[:0:0]
			for _, name := range in.Body.TaskNames {
				def, ok := byName[name]
				if !ok {
					return nil, newAPIError(http.StatusBadRequest, "unknown_task_name", "no definition named "+string(name), nil)
				}
				defs = append(defs, def)
			}
		}
		results := cfg.Dispatcher.ProcessAll(ctx, &party, defs)
		out := &processOutput{}
		for _, r := range results {
			pr := processResult{TaskName: r.Name}
			if r.Err != nil {
				for _, line := range strings.Split(r.Err.Error(), "\n") {
					pr.Errors = append(pr.Errors, line)
				}
			}
			out.Body.Results = append(out.Body.Results, pr)
		}
		return out, nil
	})
}

type decisionsInput struct {
	PartyID string `path:"partyID"`
	Limit   int    `query:"limit" default:"50" minimum:"1" maximum:"500"`
}

type decisionsOutput struct {
	Body struct {
		Items []audit.Entry `json:"items"`
	}
}

func registerDecisions(api huma.API, cfg Config) {
	huma.Register(api, huma.Operation{
		OperationID: "list-party-decisions",
		Method:      http.MethodGet,
		Path:        "/party/{partyID}/decisions",
		Summary:     "List recorded task mutations for a party",
	}, func(ctx context.Context, in *decisionsInput) (*decisionsOutput, error) {
		out := &decisionsOutput{}
		if cfg.Audit == nil {
			return out, nil
		}
		items, err := cfg.Audit.ListByParty(ctx, in.PartyID, in.Limit)
		if err != nil {
			return nil, err
		}
		out.Body.Items = items
		return out, nil
	})
}
