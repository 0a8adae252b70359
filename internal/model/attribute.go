package model

// AttributeValue is one extracted financial fact. Value holds whatever the
// model reported (string or number), possibly the literal "Not Available".
type AttributeValue struct {
	Value      any    `json:"value"`
	Confidence string `json:"confidence,omitempty"`
	Source     string `json:"source,omitempty"`
}

// NormalizeAttribute collapses the scalar-or-object shape the model produces
// into a uniform AttributeValue. A bare scalar becomes {Value: scalar}; an
// object contributes value, source, and confidence when present. The union
// never propagates past this boundary.
func NormalizeAttribute(raw any) AttributeValue {
	obj, ok := raw.(map[string]any)
	if !ok {
		return AttributeValue{Value: raw}
	}

	attr := AttributeValue{Value: obj["value"]}
	if s, ok := obj["source"].(string); ok {
		attr.Source = s
	}
	if c, ok := obj["confidence"].(string); ok {
		attr.Confidence = c
	}
	return attr
}
