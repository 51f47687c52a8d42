// Package analysis derives a flood danger classification from simple image
// statistics. It is a placeholder heuristic, not a flood-depth estimator: the
// score is a pure function of the mean green and blue channel intensities,
// and clients depend on these exact thresholds and texts.
package analysis

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"math"
	"time"

	"github.com/nelnel19/BAHA-ALERT/models"
)

// Result is the ephemeral classification payload. Nothing here is persisted.
type Result struct {
	ImageURL        string    `json:"imageUrl"`
	DangerLevel     string    `json:"dangerLevel"`
	SeverityScore   int       `json:"severityScore"`
	SafeToPass      bool      `json:"safeToPass"`
	Description     string    `json:"description"`
	Recommendations []string  `json:"recommendations"`
	Timestamp       time.Time `json:"timestamp"`
}

var recommendations = map[string][]string{
	models.DangerLow: {
		"Proceed with normal caution.",
		"Monitor official advisories for changes.",
	},
	models.DangerModerate: {
		"Avoid crossing on foot or in small vehicles.",
		"Take an alternate route where possible.",
		"Monitor official advisories.",
	},
	models.DangerHigh: {
		"Seek higher ground immediately.",
		"Do not attempt to cross.",
		"Contact local authorities if stranded.",
	},
}

// Analyze decodes the image and classifies it. The caller fills in ImageURL.
func Analyze(r io.Reader) (Result, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return Result{}, fmt.Errorf("decode image: %w", err)
	}
	meanG, meanB, err := ChannelMeans(img)
	if err != nil {
		return Result{}, err
	}
	return FromMeans(meanG, meanB), nil
}

// FromMeans classifies from precomputed channel means.
func FromMeans(meanG, meanB float64) Result {
	score := Score(meanG, meanB)
	level, safe, desc := Classify(score)
	return Result{
		DangerLevel:     level,
		SeverityScore:   score,
		SafeToPass:      safe,
		Description:     desc,
		Recommendations: recommendations[level],
		Timestamp:       clock.Now().UTC(),
	}
}

// ChannelMeans computes the arithmetic mean of the green and blue channel
// intensities (0-255) across the whole image.
func ChannelMeans(img image.Image) (meanG, meanB float64, err error) {
	b := img.Bounds()
	n := b.Dx() * b.Dy()
	if n == 0 {
		return 0, 0, errors.New("empty image")
	}

	var sumG, sumB uint64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			_, g, bl, _ := img.At(x, y).RGBA()
			sumG += uint64(g >> 8)
			sumB += uint64(bl >> 8)
		}
	}
	return float64(sumG) / float64(n), float64(sumB) / float64(n), nil
}

// Score is clamp(floor((meanGreen+meanBlue)/2), 0, 100).
func Score(meanG, meanB float64) int {
	s := int(math.Floor((meanG + meanB) / 2))
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}

// Classify maps a severity score onto a danger level. Thresholds are part of
// the client contract: <35 Low, 35-69 Moderate, >=70 High.
func Classify(score int) (level string, safeToPass bool, description string) {
	switch {
	case score < 35:
		return models.DangerLow, true,
			"Safe to cross. Water appears shallow and manageable."
	case score < 70:
		return models.DangerModerate, false,
			"Moderate flooding detected. Exercise caution. Small vehicles and pedestrians should avoid crossing."
	default:
		return models.DangerHigh, false,
			"Severe flooding detected. Water levels are dangerously high. Avoid crossing at all costs."
	}
}
