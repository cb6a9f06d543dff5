// cmd/tools/registry-updater/main.go
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/pterm/pterm"

	apperrors "jobmarket-workers/internal/common/errors"
	"jobmarket-workers/internal/common/validation"
	"jobmarket-workers/pkg/registry"
)

var validStatuses = map[string]bool{
	registry.StatusImplemented: true,
	registry.StatusPlanned:     true,
}

// checkRegistry reports every problem found; an empty slice means the
// registry is usable by the worker manager.
func checkRegistry(reg *registry.ActivityRegistry) []string {
	var problems []string
	ids := make(map[string]bool)

	for _, a := range reg.Activities {
		if a.ID == "" {
			problems = append(problems, fmt.Sprintf("activity with taskType %s has no id", a.TaskType))
		} else if ids[a.ID] {
			problems = append(problems, fmt.Sprintf("duplicate activity id %s", a.ID))
		}
		ids[a.ID] = true

		if !validStatuses[a.ImplementationStatus] {
			problems = append(problems, fmt.Sprintf("%s: unknown implementationStatus %q", a.TaskType, a.ImplementationStatus))
		}
		if a.Timeout != "" {
			if _, err := time.ParseDuration(a.Timeout); err != nil {
				problems = append(problems, fmt.Sprintf("%s: bad timeout %q", a.TaskType, a.Timeout))
			}
		}
		if _, err := validation.NewValidator(a.InputSchema); err != nil {
			problems = append(problems, fmt.Sprintf("%s: input schema: %v", a.TaskType, err))
		}
		for _, code := range a.ErrorCodes {
			if _, ok := apperrors.BPMNErrorMapping[apperrors.ErrorCode(code)]; !ok {
				problems = append(problems, fmt.Sprintf("%s: unknown error code %s", a.TaskType, code))
			}
		}
	}
	return problems
}

func setStatus(reg *registry.ActivityRegistry, taskType, status string, now time.Time) error {
	if !validStatuses[status] {
		return fmt.Errorf("unknown status %q", status)
	}
	a, ok := reg.Find(taskType)
	if !ok {
		return fmt.Errorf("no activity with taskType %s", taskType)
	}
	a.ImplementationStatus = status
	reg.LastUpdated = now.Format("2006-01-02")
	return nil
}

func saveRegistry(reg *registry.ActivityRegistry, path string) error {
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func listActivities(reg *registry.ActivityRegistry) error {
	data := pterm.TableData{{"Task type", "Status", "Timeout", "Retries", "Error codes"}}
	for _, a := range reg.Activities {
		data = append(data, []string{a.TaskType, a.ImplementationStatus, a.Timeout, fmt.Sprint(a.Retries), fmt.Sprint(len(a.ErrorCodes))})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func fail(err error) {
	pterm.Error.Println(err)
	os.Exit(1)
}

func main() {
	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	cmd := flag.NewFlagSet(os.Args[1], flag.ExitOnError)
	path := cmd.String("path", "configs/activity-registry.json", "Path to registry file")
	taskType := cmd.String("task", "", "Task type (status command)")
	status := cmd.String("set", "", "New implementation status (status command)")
	cmd.Parse(os.Args[2:])

	reg, err := registry.LoadRegistry(*path)
	if err != nil {
		fail(err)
	}

	switch os.Args[1] {
	case "list":
		if err := listActivities(reg); err != nil {
			fail(err)
		}

	case "validate":
		problems := checkRegistry(reg)
		for _, p := range problems {
			pterm.Warning.Println(p)
		}
		if len(problems) > 0 {
			os.Exit(1)
		}
		pterm.Success.Printfln("Registry validation passed. Found %d activities.", len(reg.Activities))

	case "status":
		if err := setStatus(reg, *taskType, *status, time.Now()); err != nil {
			fail(err)
		}
		if err := saveRegistry(reg, *path); err != nil {
			fail(err)
		}
		pterm.Success.Printfln("%s is now %s", *taskType, *status)

	default:
		help()
	}
}

func help() {
	fmt.Println(`
Usage: registry-updater <command> [flags]

Commands:
  list      Print the registered activities
  validate  Check ids, statuses, timeouts, input schemas and error codes
  status    Change an activity's implementation status

Examples:
  registry-updater validate -path configs/activity-registry.json
  registry-updater status -task publish-market-digest -set implemented`)
}
