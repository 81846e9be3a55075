package preflight

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"vidscribe/internal/config"
	"vidscribe/internal/deps"
)

// CheckDirectoryAccess passes when path is an existing directory the current
// user can read, write, and traverse.
func CheckDirectoryAccess(name, path string) Result {
	if err := usableDir(path); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: path + " (read/write ok)"}
}

// CheckCreatableDirectory also passes when path does not exist yet but its
// nearest existing ancestor is usable, since vidscribe creates it on demand.
func CheckCreatableDirectory(name, path string) Result {
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		return CheckDirectoryAccess(name, path)
	}
	ancestor := nearestExisting(path)
	if err := usableDir(ancestor); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: cannot create under %s: %v)", path, ancestor, err)}
	}
	return Result{Name: name, Passed: true, Detail: path + " (will be created)"}
}

func usableDir(path string) error {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return errors.New("does not exist")
	case err != nil:
		return fmt.Errorf("stat: %w", err)
	case !info.IsDir():
		return errors.New("is not a directory")
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return fmt.Errorf("insufficient permissions: %w", err)
	}
	return nil
}

func nearestExisting(path string) string {
	dir := filepath.Dir(path)
	for {
		if _, err := os.Stat(dir); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}

// Requirements lists the external programs for cfg. uvx is required for
// transcription and diarization; yt-dlp only for URL inputs.
func Requirements(cfg *config.Config) []deps.Requirement {
	return []deps.Requirement{
		{
			Name:        "yt-dlp",
			Command:     cfg.YTDLPBinary(),
			Description: "Required for URL downloads and native captions",
		},
		{
			Name:        "FFmpeg",
			Command:     cfg.FFmpegBinary(),
			Description: "Required for audio extraction",
		},
		{
			Name:        "FFprobe",
			Command:     cfg.FFprobeBinary(),
			Description: "Required for media duration",
		},
		{
			Name:        "uvx",
			Command:     cfg.UVXBinary(),
			Description: "Required for WhisperX transcription and diarization",
		},
		{
			Name:        "Clipboard",
			Command:     clipboardCommand(),
			Description: "Needed only for --clipboard",
			Optional:    true,
		},
	}
}

// CheckSystemDeps evaluates Requirements for cfg.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	return deps.CheckBinaries(Requirements(cfg))
}
