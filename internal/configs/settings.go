package configs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/PolarWolf314/envseal/internal/utils"
)

type ProjectSettings struct {
	ProjectName  string
	ProjectPath  string
	ConfigPath   string
	AuditLogPath string
}

// ProjectEnvsealSettings describes the current project. It is empty until
// InitProjectSettings runs, and stays empty outside a project.
var ProjectEnvsealSettings = &ProjectSettings{}

// InitProjectSettings locates the enclosing project, if any, and fills in
// ProjectEnvsealSettings.
func InitProjectSettings() error {
	projectPath, err := utils.FindProjectRoot()
	if err != nil {
		return fmt.Errorf("error getting project root: %w", err)
	}

	ProjectEnvsealSettings = SettingsFor(projectPath)
	return nil
}

// SettingsFor returns the settings of the project rooted at projectPath. An
// empty path gives empty settings.
func SettingsFor(projectPath string) *ProjectSettings {
	if projectPath == "" {
		return &ProjectSettings{}
	}
	dir := filepath.Join(projectPath, utils.ProjectDirName)
	return &ProjectSettings{
		ProjectName:  filepath.Base(projectPath),
		ProjectPath:  projectPath,
		ConfigPath:   filepath.Join(dir, ConfigFileName),
		AuditLogPath: filepath.Join(dir, "audit.jsonl"),
	}
}

// Initialized reports whether a project was found.
func (s *ProjectSettings) Initialized() bool {
	return s != nil && s.ProjectPath != ""
}

// WorkingRoot returns the project path, or the working directory outside a
// project.
func (s *ProjectSettings) WorkingRoot() (string, error) {
	if s.Initialized() {
		return s.ProjectPath, nil
	}
	return os.Getwd()
}
