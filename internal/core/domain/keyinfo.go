package domain

import "encoding/json"

// KeyInformation holds the structured fields extracted from a document's
// text. The set of keys per category is closed and known at design time;
// values are either a single string or an ordered string sequence.
type KeyInformation map[string]FieldValue

// FieldValue is a string-or-sequence value. Exactly one of Text and List is
// meaningful; JSON encoding is the bare string or the bare array so the
// persisted files stay human-diffable.
type FieldValue struct {
	Text string
	List []string
}

func StringValue(s string) FieldValue {
	return FieldValue{Text: s}
}

func ListValue(items ...string) FieldValue {
	return FieldValue{List: append([]string(nil), items...)}
}

func (v FieldValue) IsList() bool {
	return v.List != nil
}

func (v FieldValue) clone() FieldValue {
	if v.List == nil {
		return v
	}
	return FieldValue{List: append([]string(nil), v.List...)}
}

// Strings flattens the value for matching: a list as-is, a string as a
// one-element slice.
func (v FieldValue) Strings() []string {
	if v.List != nil {
		return v.List
	}
	return []string{v.Text}
}

func (v FieldValue) MarshalJSON() ([]byte, error) {
	if v.List != nil {
		return json.Marshal(v.List)
	}
	return json.Marshal(v.Text)
}

func (v *FieldValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = FieldValue{Text: s}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	if list == nil {
		list = []string{}
	}
	*v = FieldValue{List: list}
	return nil
}
