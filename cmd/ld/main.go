package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"leaseline/internal/app"
	"leaseline/internal/audit"
	"leaseline/internal/config"
	"leaseline/internal/dispatch"
	"leaseline/internal/domain"
	"leaseline/internal/roles"
	"leaseline/internal/server"
	"leaseline/internal/tasks"
	"leaseline/internal/taskstore"
)

var rootCmd = &cobra.Command{
	Use:   "ld",
	Short: "Leaseline decision engine CLI",
	Long: `Leaseline evaluates party task rules: given a party snapshot and its
pending events, it decides which workplan tasks to create, complete, or
cancel, and emits those mutations to the external task store.`,
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("LEASELINE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().StringP("workspace", "w", ".", "workspace directory")
	rootCmd.PersistentFlags().String("config", "", "rules config file (leaseline.yml)")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	rootCmd.PersistentFlags().String("tenant-id", "", "tenant identifier")
	rootCmd.PersistentFlags().String("user-id", "", "acting user identifier")
	rootCmd.PersistentFlags().String("token", "", "bearer token for downstream calls")
	_ = viper.BindPFlag("workspace", rootCmd.PersistentFlags().Lookup("workspace"))
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	_ = viper.BindPFlag("tenant-id", rootCmd.PersistentFlags().Lookup("tenant-id"))
	_ = viper.BindPFlag("user-id", rootCmd.PersistentFlags().Lookup("user-id"))
	_ = viper.BindPFlag("token", rootCmd.PersistentFlags().Lookup("token"))
}

func registerCommands() {
	rootCmd.AddCommand(decideCmd())
	rootCmd.AddCommand(defsCmd())
	rootCmd.AddCommand(logCmd())
	rootCmd.AddCommand(serveCmd())
}

func loadRules() (*config.Config, error) {
	return config.LoadOptional(viper.GetString("config"))
}

func dispatchContext() context.Context {
	return app.WithRequest(context.Background(), app.Request{
		TenantID:  viper.GetString("tenant-id"),
		UserID:    viper.GetString("user-id"),
		Token:     viper.GetString("token"),
		RequestID: uuid.New().String(),
	})
}

func buildDeps(cfg *config.Config) tasks.Deps {
	return tasks.Deps{
		Config: cfg,
		Roles:  roles.New(cfg.Endpoints.UsersBaseURL),
	}
}

// registryFor returns the full registry, or the subset matching names; nil
// when a name is unknown.
func registryFor(deps tasks.Deps, names []string) []tasks.Definition {
	registry := tasks.Registry(deps)
	if len(names) == 0 {
		return registry
	}
	byName := tasks.ByName(registry)
	var out []tasks.Definition
	for _, n := range names {
		def, ok := byName[domain.TaskName(n)]
		if !ok {
			return nil
		}
		out = append(out, def)
	}
	return out
}

// captureStore records mutations instead of sending them; used by dry runs.
type captureStore struct {
	mutations []capturedMutation
}

type capturedMutation struct {
	Method string      `json:"method"`
	Task   domain.Task `json:"task"`
}

func (s *captureStore) CreateTask(_ context.Context, _ string, t domain.Task) error {
	s.mutations = append(s.mutations, capturedMutation{Method: "POST", Task: t})
	return nil
}

func (s *captureStore) PatchTask(_ context.Context, _ string, t domain.Task) error {
	s.mutations = append(s.mutations, capturedMutation{Method: "PATCH", Task: t})
	return nil
}

func decideCmd() *cobra.Command {
	var file string
	var taskNames []string
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "decide",
		Short: "Run task definitions against a party snapshot file",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(file)
			if err != nil {
				return err
			}
			var party domain.Party
			if err := json.Unmarshal(data, &party); err != nil {
				return fmt.Errorf("parse snapshot: %w", err)
			}
			cfg, err := loadRules()
			if err != nil {
				return err
			}
			deps := buildDeps(cfg)
			defs := registryFor(deps, taskNames)
			if defs == nil {
				return fmt.Errorf("unknown task name in %v", taskNames)
			}

			d := dispatch.Dispatcher{}
			capture := &captureStore{}
			if dryRun {
				d.Store = capture
			} else {
				d.Store = taskstore.New(cfg.Endpoints.TaskStoreBaseURL)
				alog, cleanup, err := openAudit()
				if err != nil {
					return err
				}
				defer cleanup()
				d.Audit = alog
			}

			results := d.ProcessAll(dispatchContext(), &party, defs)
			failed := false
			for _, r := range results {
				if r.Err != nil {
					failed = true
					fmt.Fprintf(os.Stderr, "%s: %v\n", r.Name, r.Err)
				}
			}
			if dryRun {
				if err := printMutations(capture.mutations); err != nil {
					return err
				}
			}
			if failed {
				return fmt.Errorf("one or more dispatches failed")
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "party snapshot JSON file")
	cmd.Flags().StringSliceVar(&taskNames, "task", nil, "task names to evaluate (default all)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", true, "print decided mutations instead of sending them")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func printMutations(muts []capturedMutation) error {
	if viper.GetBool("json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(muts)
	}
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"METHOD", "TASK", "STATE", "PERSON", "USERS"})
	for _, m := range muts {
		t.AppendRow(table.Row{
			m.Method,
			m.Task.Name,
			m.Task.State,
			m.Task.Metadata.PersonID,
			strings.Join(m.Task.UserIDs, ","),
		})
	}
	t.Render()
	return nil
}

func defsCmd() *cobra.Command {
	defs := &cobra.Command{Use: "defs", Short: "Inspect task definitions"}
	defs.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List registered task definitions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadRules()
			if err != nil {
				return err
			}
			registry := registryFor(buildDeps(cfg), nil)
			if viper.GetBool("json") {
				type row struct {
					Name     domain.TaskName     `json:"name"`
					Category domain.TaskCategory `json:"category"`
				}
				var rows []row
				for _, d := range registry {
					rows = append(rows, row{d.Name(), d.Category()})
				}
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			}
			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.AppendHeader(table.Row{"NAME", "CATEGORY"})
			for _, d := range registry {
				t.AppendRow(table.Row{d.Name(), d.Category()})
			}
			t.Render()
			return nil
		},
	})
	return defs
}

func logCmd() *cobra.Command {
	logRoot := &cobra.Command{Use: "log", Short: "Inspect the decision audit log"}
	var partyID string
	var limit int
	tail := &cobra.Command{
		Use:   "tail",
		Short: "Show recent recorded task mutations",
		RunE: func(cmd *cobra.Command, args []string) error {
			l, cleanup, err := openAudit()
			if err != nil {
				return err
			}
			defer cleanup()
			var items []audit.Entry
			if partyID != "" {
				items, err = l.ListByParty(cmd.Context(), partyID, limit)
			} else {
				items, err = l.Tail(cmd.Context(), limit)
			}
			if err != nil {
				return err
			}
			if viper.GetBool("json") {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(items)
			}
			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.AppendHeader(table.Row{"TS", "PARTY", "TASK", "ACTION", "REQUEST"})
			for _, e := range items {
				t.AppendRow(table.Row{e.TS, e.PartyID, e.TaskName, e.Action, e.RequestID})
			}
			t.Render()
			return nil
		},
	}
	tail.Flags().StringVar(&partyID, "party", "", "filter by party id")
	tail.Flags().IntVar(&limit, "limit", 50, "max entries")
	logRoot.AddCommand(tail)
	return logRoot
}

func serveCmd() *cobra.Command {
	var addr string
	var jwtSecret string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the decision HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadRules()
			if err != nil {
				return err
			}
			l, cleanup, err := openAudit()
			if err != nil {
				return err
			}
			defer cleanup()
			deps := buildDeps(cfg)
			handler, err := server.New(server.Config{
				Dispatcher: dispatch.Dispatcher{
					Store: taskstore.New(cfg.Endpoints.TaskStoreBaseURL),
					Audit: l,
				},
				Definitions: registryFor(deps, nil),
				Audit:       l,
				Auth:        server.AuthConfig{JWTSecret: viper.GetString("jwt-secret")},
			})
			if err != nil {
				return err
			}
			fmt.Printf("listening on %s\n", addr)
			return http.ListenAndServe(addr, handler)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&jwtSecret, "jwt-secret", "", "HS256 secret for API auth")
	_ = viper.BindPFlag("jwt-secret", cmd.Flags().Lookup("jwt-secret"))
	return cmd
}

func openAudit() (*audit.Log, func(), error) {
	conn, err := audit.Open(viper.GetString("workspace"))
	if err != nil {
		return nil, nil, err
	}
	return &audit.Log{DB: conn}, func() { conn.Close() }, nil
}
