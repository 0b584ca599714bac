package classify

import (
	"bytes"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/image/webp"

	"github.com/cellarbook/vinident/internal/model"
)

const (
	minDimensionPx = 100
	maxDimensionPx = 4096

	// maxAspectRatio bounds width/height (and its inverse). A label photo
	// beyond 8:1 is almost certainly a scan artefact or a sliver crop.
	maxAspectRatio = 8.0

	// softByteFloor and softDimensionFloor mark the point below which an
	// image is accepted but its eventual confidence score is degraded.
	softByteFloor      = 50 << 10 // 50 KB
	softDimensionFloor = 500
)

// QualityReport is the outcome of the image pre-flight assessment.
type QualityReport struct {
	Width  int `json:"width"`
	Height int `json:"height"`

	// Degradation is the multiplier applied to the final confidence score,
	// in (0, 1]. 1.0 means no quality penalty.
	Degradation float64 `json:"degradation"`

	// Issues lists the soft problems that produced the degradation.
	Issues []string `json:"issues,omitempty"`
}

// AssessQuality runs the image pre-flight checks: dimension bounds
// [100, 4096] px and aspect-ratio sanity. Hard failures reject with a
// quality_check_failed error before any model call; soft issues (small file,
// low resolution) return a degradation factor instead.
//
// heic/heif have no pure-Go decoder, so they get byte-level checks only and
// no dimension-based degradation.
func AssessQuality(in *ImageInput) (*QualityReport, error) {
	report := &QualityReport{Degradation: 1.0}

	cfg, ok, err := decodeConfig(in)
	if err != nil {
		return nil, eris.Wrap(model.ErrQualityCheck, "classify: image data does not decode as "+in.MIMEType)
	}
	if !ok {
		// Undecodable format (heic/heif): size checks already passed in Image.
		if len(in.Data) < softByteFloor {
			report.Degradation *= 0.9
			report.Issues = append(report.Issues, "small_file")
		}
		return report, nil
	}

	report.Width = cfg.Width
	report.Height = cfg.Height

	if cfg.Width < minDimensionPx || cfg.Height < minDimensionPx {
		return nil, eris.Wrapf(model.ErrQualityCheck, "classify: image %dx%d below minimum %dpx", cfg.Width, cfg.Height, minDimensionPx)
	}
	if cfg.Width > maxDimensionPx || cfg.Height > maxDimensionPx {
		return nil, eris.Wrapf(model.ErrQualityCheck, "classify: image %dx%d above maximum %dpx", cfg.Width, cfg.Height, maxDimensionPx)
	}

	ratio := float64(cfg.Width) / float64(cfg.Height)
	if ratio > maxAspectRatio || ratio < 1/maxAspectRatio {
		return nil, eris.Wrapf(model.ErrQualityCheck, "classify: implausible aspect ratio %dx%d", cfg.Width, cfg.Height)
	}

	longest := cfg.Width
	if cfg.Height > longest {
		longest = cfg.Height
	}
	if longest < softDimensionFloor {
		report.Degradation *= 0.85
		report.Issues = append(report.Issues, "low_resolution")
	}
	if len(in.Data) < softByteFloor {
		report.Degradation *= 0.9
		report.Issues = append(report.Issues, "small_file")
	}

	if len(report.Issues) > 0 {
		zap.L().Debug("classify: image quality degraded",
			zap.Int("width", cfg.Width),
			zap.Int("height", cfg.Height),
			zap.Int("bytes", len(in.Data)),
			zap.Strings("issues", report.Issues),
			zap.Float64("degradation", report.Degradation),
		)
	}

	return report, nil
}

// decodeConfig reads image dimensions without decoding pixel data.
// ok=false means the format has no decoder (heic/heif).
func decodeConfig(in *ImageInput) (image.Config, bool, error) {
	switch in.MIMEType {
	case "image/jpeg", "image/png":
		cfg, _, err := image.DecodeConfig(bytes.NewReader(in.Data))
		return cfg, true, err
	case "image/webp":
		cfg, err := webp.DecodeConfig(bytes.NewReader(in.Data))
		return cfg, true, err
	default:
		return image.Config{}, false, nil
	}
}
