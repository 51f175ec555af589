package dataset

import (
	"encoding/json"
	"fmt"
	"sort"
)

// LabelEncoder maps the sorted distinct training labels onto [0, n).
type LabelEncoder struct {
	classes []string
	index   map[string]int
}

// FitLabels builds an encoder from the distinct values of labels.
func FitLabels(labels []string) *LabelEncoder {
	seen := map[string]struct{}{}
	for _, l := range labels {
		seen[l] = struct{}{}
	}
	classes := make([]string, 0, len(seen))
	for l := range seen {
		classes = append(classes, l)
	}
	sort.Strings(classes)
	return newLabelEncoder(classes)
}

func newLabelEncoder(classes []string) *LabelEncoder {
	index := make(map[string]int, len(classes))
	for i, c := range classes {
		index[c] = i
	}
	return &LabelEncoder{classes: classes, index: index}
}

// Len is the number of classes.
func (e *LabelEncoder) Len() int { return len(e.classes) }

// Classes returns the labels in code order.
func (e *LabelEncoder) Classes() []string {
	return append([]string(nil), e.classes...)
}

// Encode returns the code of label.
func (e *LabelEncoder) Encode(label string) (int, bool) {
	code, ok := e.index[label]
	return code, ok
}

// EncodeAll encodes labels, failing on the first unknown one.
func (e *LabelEncoder) EncodeAll(labels []string) ([]int, error) {
	out := make([]int, len(labels))
	for i, l := range labels {
		code, ok := e.index[l]
		if !ok {
			return nil, fmt.Errorf("unknown label %q", l)
		}
		out[i] = code
	}
	return out, nil
}

// Decode returns the label for code. Codes only ever come from this encoder,
// so an unknown code panics.
func (e *LabelEncoder) Decode(code int) string {
	if code < 0 || code >= len(e.classes) {
		panic(fmt.Sprintf("dataset: label code %d out of range [0,%d)", code, len(e.classes)))
	}
	return e.classes[code]
}

func (e *LabelEncoder) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.classes)
}

func (e *LabelEncoder) UnmarshalJSON(data []byte) error {
	var classes []string
	if err := json.Unmarshal(data, &classes); err != nil {
		return err
	}
	if !sort.StringsAreSorted(classes) {
		return fmt.Errorf("label classes are not sorted")
	}
	*e = *newLabelEncoder(classes)
	return nil
}
