package preflight

import (
	"os/exec"
	"path/filepath"
	"strings"

	"vidscribe/internal/clipboard"
	"vidscribe/internal/config"
	"vidscribe/internal/services/pyannote"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the filesystem and credential checks for cfg.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	if dir := strings.TrimSpace(cfg.Defaults.OutputDir); dir != "" {
		results = append(results, CheckCreatableDirectory("Output directory", dir))
	}
	if cfg.Cache.Enabled {
		results = append(results, CheckCreatableDirectory("Cache directory", filepath.Dir(cfg.Cache.Path)))
	}
	results = append(results, CheckDiarizationToken(cfg.Diarization.HFToken))
	return results
}

// CheckDiarizationToken reports whether a Hugging Face token is available.
// A missing token is informational: only --diarize needs it.
func CheckDiarizationToken(configured string) Result {
	const name = "Diarization token"
	if _, err := pyannote.ResolveToken("", configured); err != nil {
		return Result{Name: name, Passed: true, Detail: "not configured (needed only for --diarize)"}
	}
	return Result{Name: name, Passed: true, Detail: "found"}
}

func clipboardCommand() string {
	for _, tool := range clipboard.Tools {
		if _, err := exec.LookPath(tool.Name); err == nil {
			return tool.Name
		}
	}
	return clipboard.Tools[0].Name
}
