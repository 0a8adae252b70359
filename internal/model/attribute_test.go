package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAttribute_BareScalar(t *testing.T) {
	attr := NormalizeAttribute("5.25%")
	assert.Equal(t, "5.25%", attr.Value)
	assert.Empty(t, attr.Confidence)
	assert.Empty(t, attr.Source)
}

func TestNormalizeAttribute_BareNumber(t *testing.T) {
	attr := NormalizeAttribute(float64(1000))
	assert.Equal(t, float64(1000), attr.Value)
}

func TestNormalizeAttribute_Object(t *testing.T) {
	attr := NormalizeAttribute(map[string]any{
		"value":      "AA+",
		"source":     "https://example.com/rating",
		"confidence": "high",
	})
	assert.Equal(t, "AA+", attr.Value)
	assert.Equal(t, "https://example.com/rating", attr.Source)
	assert.Equal(t, "high", attr.Confidence)
}

func TestNormalizeAttribute_ObjectPartialFields(t *testing.T) {
	attr := NormalizeAttribute(map[string]any{"value": "Not Available"})
	assert.Equal(t, "Not Available", attr.Value)
	assert.Empty(t, attr.Confidence)
	assert.Empty(t, attr.Source)
}

func TestNormalizeAttribute_NonStringConfidenceIgnored(t *testing.T) {
	attr := NormalizeAttribute(map[string]any{"value": "x", "confidence": 0.9})
	assert.Equal(t, "x", attr.Value)
	assert.Empty(t, attr.Confidence)
}
