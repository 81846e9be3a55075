package whisperx

import "os"

// DefaultModel is used when Config.Model is blank.
const DefaultModel = "base"

// Voice activity detection backends accepted by Config.VADMethod.
const (
	VADSilero   = "silero"
	VADPyannote = "pyannote"
)

const (
	defaultUVX    = "uvx"
	defaultFFmpeg = "ffmpeg"

	pypiIndexURL   = "https://pypi.org/simple"
	cudaIndexURL   = "https://download.pytorch.org/whl/cu128"
	cpuComputeType = "int8"

	// torchEnv restores pre-2.6 torch.load behaviour, which WhisperX and
	// pyannote checkpoints still depend on.
	torchEnv = "TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD=1"
)

// decodeArgs are fixed across runs: sentence segments, greedy temperature,
// a beam of 5, and JSON output that loadPayload understands.
var decodeArgs = []string{
	"--batch_size", "4",
	"--output_format", "json",
	"--segment_resolution", "sentence",
	"--chunk_size", "15",
	"--beam_size", "5",
	"--temperature", "0.0",
}

// Config captures runtime settings for WhisperX.
type Config struct {
	// Model is the Whisper model name (e.g. "base", "large-v3").
	Model string
	// CUDAEnabled selects the CUDA wheel index and device.
	CUDAEnabled bool
	// VADMethod is VADSilero (default) or VADPyannote.
	VADMethod string
	// HFToken is exported as HF_TOKEN only when the pyannote VAD is selected.
	HFToken string
	// WorkDir is the parent of the engine's scratch directory. Empty uses os.TempDir.
	WorkDir string
}

func (c Config) vad() string {
	if c.VADMethod == VADPyannote {
		return VADPyannote
	}
	return VADSilero
}

// env lists variables added to the uvx environment. The token never goes on
// the command line.
func (c Config) env() []string {
	var env []string
	if os.Getenv("TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD") == "" {
		env = append(env, torchEnv)
	}
	if c.vad() == VADPyannote && c.HFToken != "" {
		env = append(env, "HF_TOKEN="+c.HFToken)
	}
	return env
}

// indexArgs selects the wheel index uvx resolves torch from.
func (c Config) indexArgs() []string {
	if c.CUDAEnabled {
		return []string{"--index-url", cudaIndexURL, "--extra-index-url", pypiIndexURL}
	}
	return []string{"--index-url", pypiIndexURL}
}

func (c Config) deviceArgs() []string {
	if c.CUDAEnabled {
		return []string{"--device", "cuda"}
	}
	return []string{"--device", "cpu", "--compute_type", cpuComputeType}
}
