package analysis

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nelnel19/BAHA-ALERT/models"
)

func uniformPNG(t *testing.T, g, b uint8) *bytes.Buffer {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{R: 0, G: g, B: b, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &buf
}

func TestScore(t *testing.T) {
	assert.Equal(t, 15, Score(20, 10))
	assert.Equal(t, 50, Score(50, 50))
	assert.Equal(t, 90, Score(90, 90))
	// Floor, then clamp.
	assert.Equal(t, 34, Score(34.9, 34.9))
	assert.Equal(t, 100, Score(255, 255))
	assert.Equal(t, 0, Score(0, 0))
}

func TestClassify_Thresholds(t *testing.T) {
	cases := []struct {
		score int
		level string
		safe  bool
	}{
		{0, models.DangerLow, true},
		{34, models.DangerLow, true},
		{35, models.DangerModerate, false},
		{50, models.DangerModerate, false},
		{69, models.DangerModerate, false},
		{70, models.DangerHigh, false},
		{100, models.DangerHigh, false},
	}
	for _, tc := range cases {
		level, safe, desc := Classify(tc.score)
		assert.Equal(t, tc.level, level, "score %d", tc.score)
		assert.Equal(t, tc.safe, safe, "score %d", tc.score)
		assert.NotEmpty(t, desc)
	}
}

func TestClassify_Descriptions(t *testing.T) {
	_, _, low := Classify(10)
	assert.Equal(t, "Safe to cross. Water appears shallow and manageable.", low)

	_, _, moderate := Classify(50)
	assert.True(t, strings.HasPrefix(moderate, "Moderate flooding detected."))

	_, _, high := Classify(90)
	assert.True(t, strings.HasPrefix(high, "Severe flooding detected."))
}

func TestFromMeans_Recommendations(t *testing.T) {
	high := FromMeans(90, 90)
	require.NotEmpty(t, high.Recommendations)
	assert.Contains(t, high.Recommendations, "Seek higher ground immediately.")
	for _, rec := range high.Recommendations {
		assert.NotEmpty(t, rec)
	}

	low := FromMeans(20, 10)
	assert.NotEmpty(t, low.Recommendations)
	assert.NotEqual(t, high.Recommendations, low.Recommendations)
}

func TestFromMeans_Timestamp(t *testing.T) {
	frozen := time.Date(2025, 8, 15, 10, 30, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(frozen))
	defer SetClock(nil)

	res := FromMeans(50, 50)
	assert.Equal(t, frozen, res.Timestamp)
}

func TestAnalyze_UniformImages(t *testing.T) {
	t.Run("low", func(t *testing.T) {
		res, err := Analyze(uniformPNG(t, 20, 10))
		require.NoError(t, err)
		assert.Equal(t, 15, res.SeverityScore)
		assert.Equal(t, models.DangerLow, res.DangerLevel)
		assert.True(t, res.SafeToPass)
	})

	t.Run("moderate", func(t *testing.T) {
		res, err := Analyze(uniformPNG(t, 50, 50))
		require.NoError(t, err)
		assert.Equal(t, 50, res.SeverityScore)
		assert.Equal(t, models.DangerModerate, res.DangerLevel)
		assert.False(t, res.SafeToPass)
	})

	t.Run("high", func(t *testing.T) {
		res, err := Analyze(uniformPNG(t, 90, 90))
		require.NoError(t, err)
		assert.Equal(t, 90, res.SeverityScore)
		assert.Equal(t, models.DangerHigh, res.DangerLevel)
		assert.False(t, res.SafeToPass)
	})
}

func TestAnalyze_NotAnImage(t *testing.T) {
	_, err := Analyze(bytes.NewBufferString("definitely not pixels"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode image")
}
