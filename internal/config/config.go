package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"leaseline/internal/domain"
)

// Config models leaseline.yml: external endpoints, functional-role names
// used for task assignment, and the per-task workflow applicability matrix.
type Config struct {
	Endpoints struct {
		TaskStoreBaseURL string `yaml:"task_store_base_url"`
		UsersBaseURL     string `yaml:"users_base_url"`
	} `yaml:"endpoints"`
	Roles struct {
		CounterSigner       string `yaml:"counter_signer"`
		ApplicationApprover string `yaml:"application_approver"`
	} `yaml:"roles"`
	Tasks struct {
		Rules map[string]TaskRule `yaml:"rules"`
	} `yaml:"tasks"`
}

// TaskRule gates one task name. Workflows lists the workflow names the task
// applies to and is checked for every operation; BlockedStates lists the
// workflow states in which no new tasks are created or completed (existing
// tasks can still be canceled there). Corporate defaults to allowed.
type TaskRule struct {
	Workflows     []string `yaml:"workflows"`
	BlockedStates []string `yaml:"blocked_states"`
	OnCorporate   *bool    `yaml:"on_corporate"`
}

var knownWorkflows = map[string]bool{
	string(domain.WorkflowNewLease):    true,
	string(domain.WorkflowRenewal):     true,
	string(domain.WorkflowActiveLease): true,
}

var knownStates = map[string]bool{
	string(domain.WorkflowStateActive):    true,
	string(domain.WorkflowStateMovingOut): true,
	string(domain.WorkflowStateClosed):    true,
	string(domain.WorkflowStateArchived):  true,
}

// Validate ensures the config meets required structure.
func (c *Config) Validate() error {
	if c.Tasks.Rules == nil {
		return fmt.Errorf("config.tasks.rules is required")
	}
	for name, rule := range c.Tasks.Rules {
		if name == "" {
			return fmt.Errorf("config.tasks.rules contains empty task name")
		}
		if len(rule.Workflows) == 0 {
			return fmt.Errorf("rule %s lists no workflows", name)
		}
		for _, wf := range rule.Workflows {
			if !knownWorkflows[wf] {
				return fmt.Errorf("rule %s references unknown workflow %s", name, wf)
			}
		}
		for _, st := range rule.BlockedStates {
			if !knownStates[st] {
				return fmt.Errorf("rule %s references unknown workflow state %s", name, st)
			}
		}
	}
	return nil
}

// ShouldProcessOnWorkflow reports whether a task name applies to the party's
// workflow track at all. Unknown task names default to applicable.
func (c *Config) ShouldProcessOnWorkflow(name domain.TaskName, wf domain.WorkflowName) bool {
	rule, ok := c.Tasks.Rules[string(name)]
	if !ok {
		return true
	}
	for _, w := range rule.Workflows {
		if w == string(wf) {
			return true
		}
	}
	return false
}

// StateBlocked reports whether the party's workflow state blocks task
// creation and completion for the given task name.
func (c *Config) StateBlocked(name domain.TaskName, state domain.WorkflowState) bool {
	rule, ok := c.Tasks.Rules[string(name)]
	if !ok {
		return false
	}
	for _, s := range rule.BlockedStates {
		if s == string(state) {
			return true
		}
	}
	return false
}

// AllowedOnCorporate reports whether the task may exist on corporate parties.
func (c *Config) AllowedOnCorporate(name domain.TaskName) bool {
	rule, ok := c.Tasks.Rules[string(name)]
	if !ok || rule.OnCorporate == nil {
		return true
	}
	return *rule.OnCorporate
}

// Default returns the built-in rule matrix.
func Default() *Config {
	cfg, err := FromYAML([]byte(defaultTemplate))
	if err != nil {
		panic(fmt.Sprintf("default config invalid: %v", err))
	}
	return cfg
}

// FromYAML parses and validates config from raw YAML bytes.
func FromYAML(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FromFile reads YAML config from the given path.
func FromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return FromYAML(data)
}

// LoadOptional returns the default config when path is empty or the file
// does not exist.
func LoadOptional(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}
	return FromYAML(data)
}

const defaultTemplate = `endpoints:
  task_store_base_url: http://localhost:3030/api
  users_base_url: http://localhost:3040/api

roles:
  counter_signer: LCA
  application_approver: LAA

tasks:
  rules:
    INTRODUCE_YOURSELF:
      workflows: [newLease]
      blocked_states: [archived, closed]

    CALL_BACK:
      workflows: [newLease, renewal]
      blocked_states: [archived, closed]

    COMPLETE_CONTACT_INFO:
      workflows: [newLease, renewal]
      blocked_states: [archived, closed]

    COUNTERSIGN_LEASE:
      workflows: [newLease, renewal]
      blocked_states: [archived]

    PROMOTE_APPLICATION:
      workflows: [newLease]
      blocked_states: [archived, closed]
      on_corporate: false

    REVIEW_APPLICATION:
      workflows: [newLease]
      blocked_states: [archived, closed]
      on_corporate: false

    REMOVE_ANONYMOUS_EMAIL:
      workflows: [newLease, renewal]
      blocked_states: [archived, closed]

    COLLECT_SERVICE_ANIMAL_DOC:
      workflows: [newLease, renewal, activeLease]
      blocked_states: [archived, closed]

    COLLECT_EMERGENCY_CONTACT:
      workflows: [activeLease, renewal]
      blocked_states: [archived, closed]

    CONTACT_PARTY_DECLINED_DECISION:
      workflows: [newLease]
      blocked_states: [archived, closed]

    SEND_RENEWAL_QUOTE:
      workflows: [renewal]
      blocked_states: [archived, closed, movingOut]

    SEND_RENEWAL_REMINDER:
      workflows: [renewal]
      blocked_states: [archived, closed, movingOut]
`
