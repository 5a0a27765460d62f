package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gemforge/gemforge/internal/domain"
	"github.com/gemforge/gemforge/internal/ports"
)

// DoctorService runs environment diagnostics.
type DoctorService struct {
	ConfigProvider ports.ConfigProvider
	Policy         ports.PolicyService
	History        ports.HistoryRepository
	Cache          ports.CacheRepository
}

// Run executes checks and returns a report.
func (s *DoctorService) Run(ctx context.Context) (domain.HealthReport, error) {
	var checks []domain.HealthCheck

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		checks = append(checks, fail("Config file", fmt.Sprintf("load failed: %v", err)))
		return domain.HealthReport{Checks: checks}, err
	}
	checks = append(checks, ok("Config file", fmt.Sprintf("format version %s", cfg.ConfigFormatVersion)))

	if model, err := cfg.GetDefaultModel(); err != nil {
		checks = append(checks, fail("Default model", err.Error()))
	} else {
		checks = append(checks, ok("Default model", fmt.Sprintf("%s (%s)", model.Name, model.ModelID)))
		checks = append(checks, apiKeyCheck(model))
	}

	checks = append(checks, sandboxCheck(cfg.GetSandboxRoot()))

	if s.Policy != nil {
		probe := domain.Action{Kind: domain.ActionExecuteCommand, CommandLine: "ls"}
		if _, err := s.Policy.Evaluate(probe); err != nil {
			checks = append(checks, fail("Execution policy", err.Error()))
		} else {
			checks = append(checks, ok("Execution policy", "rules loaded"))
		}
	} else if cfg.IsSecurityEnabled() {
		checks = append(checks, warn("Execution policy", "policy service not initialized"))
	}

	if s.History != nil {
		checks = append(checks, ok("History store", s.History.Path()))
	}
	if s.Cache != nil {
		checks = append(checks, ok("Response cache", s.Cache.Dir()))
	}

	return domain.HealthReport{Checks: checks}, nil
}

func apiKeyCheck(model domain.ModelDefinition) domain.HealthCheck {
	envVar := model.AuthEnvVar
	if envVar == "" {
		envVar = "GEMINI_API_KEY"
	}
	if os.Getenv(envVar) == "" {
		return warn("API key", fmt.Sprintf("%s not set, replies use the offline mock", envVar))
	}
	return ok("API key", fmt.Sprintf("%s present", envVar))
}

func sandboxCheck(root string) domain.HealthCheck {
	info, err := os.Stat(root)
	if err != nil {
		return fail("Sandbox root", fmt.Sprintf("%s: %v", root, err))
	}
	if !info.IsDir() {
		return fail("Sandbox root", fmt.Sprintf("%s is not a directory", root))
	}
	probe, err := os.CreateTemp(root, ".gemforge-doctor-*")
	if err != nil {
		return fail("Sandbox root", fmt.Sprintf("%s not writable: %v", root, err))
	}
	name := probe.Name()
	probe.Close()
	_ = os.Remove(name)
	abs, _ := filepath.Abs(root)
	return ok("Sandbox root", abs)
}

func ok(name, detail string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.CheckOK, Detail: detail}
}

func warn(name, detail string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.CheckWarn, Detail: detail}
}

func fail(name, detail string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.CheckFail, Detail: detail}
}
