package pyannote

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// ErrTokenMissing is returned when no Hugging Face token can be found.
var ErrTokenMissing = errors.New(`HuggingFace token required for speaker diarization.
1. Create a token at https://huggingface.co/settings/tokens
2. Accept the model license at https://huggingface.co/pyannote/speaker-diarization-3.1
3. Set HF_TOKEN environment variable or run: huggingface-cli login`)

// ResolveToken returns the first non-empty token from explicit, configured,
// HF_TOKEN, HUGGING_FACE_HUB_TOKEN, and the huggingface-cli token file.
func ResolveToken(explicit, configured string) (string, error) {
	for _, candidate := range []string{
		explicit,
		configured,
		os.Getenv("HF_TOKEN"),
		os.Getenv("HUGGING_FACE_HUB_TOKEN"),
	} {
		if token := strings.TrimSpace(candidate); token != "" {
			return token, nil
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		data, err := os.ReadFile(filepath.Join(home, ".cache", "huggingface", "token"))
		if err == nil {
			if token := strings.TrimSpace(string(data)); token != "" {
				return token, nil
			}
		}
	}
	return "", ErrTokenMissing
}
