package textgen

import (
	"encoding/json"
	"strings"
)

// ExtractGeneratedText pulls the completion text out of a model response.
// Inference servers answer in several shapes:
//
//	[{"generated_text": "..."}]
//	[{"generated_text": [{"role": "...", "content": "..."}, ...]}]
//	{"generated_text": ...}
//	{"choices": [{"message": {"content": "..."}}]}
//	{"choices": [{"text": "..."}]}
//	"..."
//
// Anything unrecognised is returned as the raw body text.
func ExtractGeneratedText(raw []byte) string {
	var decoded interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return strings.TrimSpace(string(raw))
	}

	if text, ok := extractFrom(decoded); ok {
		return text
	}
	return strings.TrimSpace(string(raw))
}

func extractFrom(v interface{}) (string, bool) {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t), true
	case []interface{}:
		if len(t) == 0 {
			return "", false
		}
		first, ok := t[0].(map[string]interface{})
		if !ok {
			return "", false
		}
		return fromObject(first)
	case map[string]interface{}:
		return fromObject(t)
	}
	return "", false
}

func fromObject(t map[string]interface{}) (string, bool) {
	if gen, ok := t["generated_text"]; ok {
		return fromGenerated(gen)
	}
	if choices, ok := t["choices"].([]interface{}); ok && len(choices) > 0 {
		return fromChoice(choices[0])
	}
	return "", false
}

func fromGenerated(gen interface{}) (string, bool) {
	switch g := gen.(type) {
	case string:
		return strings.TrimSpace(g), true
	case []interface{}:
		// Chat-style transcript: the model's turn is last.
		if len(g) == 0 {
			return "", false
		}
		last, ok := g[len(g)-1].(map[string]interface{})
		if !ok {
			return "", false
		}
		content, _ := last["content"].(string)
		return strings.TrimSpace(content), true
	}
	return "", false
}

func fromChoice(choice interface{}) (string, bool) {
	c, ok := choice.(map[string]interface{})
	if !ok {
		return "", false
	}
	if msg, ok := c["message"].(map[string]interface{}); ok {
		if content, ok := msg["content"].(string); ok {
			return strings.TrimSpace(content), true
		}
	}
	if text, ok := c["text"].(string); ok {
		return strings.TrimSpace(text), true
	}
	return "", false
}
