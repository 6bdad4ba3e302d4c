package whisperx

// Config captures runtime settings for WhisperX operations.
type Config struct {
	// Model is the WhisperX model to use (e.g., "base", "large-v3").
	Model string
	// CUDAEnabled enables GPU acceleration.
	CUDAEnabled bool
	// ModelDir caches downloaded model weights.
	ModelDir string
}

// WhisperX configuration constants.
const (
	DefaultModel   = "base"
	CUDAIndexURL   = "https://download.pytorch.org/whl/cu128"
	PypiIndexURL   = "https://pypi.org/simple"
	BatchSize      = "4"
	BeamSize       = "5"
	Temperature    = "0.0"
	OutputFormat   = "json"
	VADMethod      = "silero"
	CPUDevice      = "cpu"
	CUDADevice     = "cuda"
	CPUComputeType = "float32"
)

// UVXCommand is the launcher used to run WhisperX.
const UVXCommand = "uvx"
