package cyclebench

import (
	"strings"

	"github.com/shirou/gopsutil/cpu"
)

// Platform identifies a host CPU family with a known-good fallback
// correction. The fallback is used only when calibration exhausts its
// retries and the median fallback is unusable.
type Platform int

const (
	PlatformUnknown Platform = iota
	PlatformOpteron
	PlatformOpteron2
	PlatformXeon
	PlatformXeon2
	PlatformNiagara
	PlatformRyzen53600
	PlatformI37020U
)

// ConservativeDefault is the universal fallback correction, in cycles,
// applied when no platform-specific constant is known. It mirrors the
// overhead observed on common x86 systems.
const ConservativeDefault = 32.0

// DefaultFallbacks maps each known platform to the overhead constant
// observed on it. The table is injected into a Profiler at
// construction and can be replaced wholesale via WithFallbacks.
func DefaultFallbacks() map[Platform]float64 {
	return map[Platform]float64{
		PlatformOpteron:    64,
		PlatformOpteron2:   68,
		PlatformXeon:       20,
		PlatformXeon2:      20,
		PlatformNiagara:    76,
		PlatformRyzen53600: 32,
		PlatformI37020U:    25,
	}
}

// String returns a short name for logs and reports.
func (p Platform) String() string {
	switch p {
	case PlatformOpteron:
		return "opteron"
	case PlatformOpteron2:
		return "opteron2"
	case PlatformXeon:
		return "xeon"
	case PlatformXeon2:
		return "xeon2"
	case PlatformNiagara:
		return "niagara"
	case PlatformRyzen53600:
		return "ryzen5-3600"
	case PlatformI37020U:
		return "i3-7020u"
	default:
		return "unknown"
	}
}

// needsWarmup reports whether the platform is known to frequency-scale
// aggressively enough that calibration should spin the CPU up to its
// stable maximum clock first. Unknown hosts get the warm-up too.
func (p Platform) needsWarmup() bool {
	switch p {
	case PlatformXeon, PlatformXeon2, PlatformOpteron2, PlatformI37020U, PlatformUnknown:
		return true
	default:
		return false
	}
}

// DetectPlatform maps the host CPU model name to a Platform. Detection
// is best-effort: any lookup failure or unrecognized model yields
// PlatformUnknown, which selects the conservative default fallback.
func DetectPlatform() Platform {
	infos, err := cpu.Info()
	if err != nil || len(infos) == 0 {
		return PlatformUnknown
	}
	return platformFromModel(infos[0].ModelName)
}

func platformFromModel(model string) Platform {
	m := strings.ToLower(model)

	switch {
	case strings.Contains(m, "ryzen 5 3600"):
		return PlatformRyzen53600
	case strings.Contains(m, "i3-7020u"):
		return PlatformI37020U
	case strings.Contains(m, "opteron"):
		return PlatformOpteron
	case strings.Contains(m, "xeon"):
		return PlatformXeon
	case strings.Contains(m, "niagara"), strings.Contains(m, "ultrasparc t"):
		return PlatformNiagara
	default:
		return PlatformUnknown
	}
}
