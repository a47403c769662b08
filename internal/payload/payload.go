// Package payload splits untrusted upstream response bodies into individual
// project records. The integration layer returns one of several envelope
// shapes depending on the route that answered; this package hides that
// variance from the fetcher and the platform adapters.
package payload

import (
	"bytes"
	"encoding/json"
)

// Records extracts candidate project records from any known envelope shape:
// {"projects":[...]}, {"project":{...}}, a bare array, or a single object.
// A body matching none of the shapes yields nil.
func Records(body []byte) []json.RawMessage {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil
	}

	if trimmed[0] == '[' {
		var arr []json.RawMessage
		if err := json.Unmarshal(trimmed, &arr); err != nil {
			return nil
		}
		return arr
	}

	var envelope struct {
		Projects []json.RawMessage `json:"projects"`
		Project  json.RawMessage   `json:"project"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil
	}
	if len(envelope.Projects) > 0 {
		return envelope.Projects
	}
	if len(envelope.Project) > 0 && !bytes.Equal(bytes.TrimSpace(envelope.Project), []byte("null")) {
		return []json.RawMessage{envelope.Project}
	}

	// Anything else that parsed as a JSON object is a candidate single
	// record; adapters decide whether it carries enough identity to keep.
	if trimmed[0] == '{' {
		return []json.RawMessage{json.RawMessage(trimmed)}
	}
	return nil
}

// HasProjectRecord reports whether the body contains at least one non-empty
// project record: something carrying an identity (id, key, or name) or a
// non-empty work-item collection. The fetcher uses this to decide whether a
// 2xx route response actually succeeded.
func HasProjectRecord(body []byte) bool {
	for _, rec := range Records(body) {
		var probe struct {
			ID       any               `json:"id"`
			Key      string            `json:"key"`
			Name     string            `json:"name"`
			PName    string            `json:"pname"`
			Issues   []json.RawMessage `json:"issues"`
			Items    []json.RawMessage `json:"items"`
			Tasks    []json.RawMessage `json:"tasks"`
			Backlogs []json.RawMessage `json:"backlogs"`
		}
		if err := json.Unmarshal(rec, &probe); err != nil {
			continue
		}
		if probe.ID != nil || probe.Key != "" || probe.Name != "" || probe.PName != "" {
			return true
		}
		if len(probe.Issues) > 0 || len(probe.Items) > 0 || len(probe.Tasks) > 0 || len(probe.Backlogs) > 0 {
			return true
		}
	}
	return false
}

// FlexString decodes JSON values that platforms emit interchangeably as
// strings or numbers (Monday board ids, TROFOS numeric keys).
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

// String returns the decoded value.
func (f FlexString) String() string { return string(f) }
