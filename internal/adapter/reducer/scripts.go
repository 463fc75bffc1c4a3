package reducer

import (
	"sort"
	"strings"
)

// LabelReducer replaces quoted labels in JavaScript sources. Longer labels
// win over shorter ones and replaced text is never scanned again.
type LabelReducer struct {
	replacer *strings.Replacer
}

func NewLabelReducer(labels map[string]string) *LabelReducer {
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	pairs := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		pairs = append(pairs, `"`+k+`"`, `"`+labels[k]+`"`)
	}
	return &LabelReducer{replacer: strings.NewReplacer(pairs...)}
}

func (r *LabelReducer) ReduceScript(js string) string {
	return r.replacer.Replace(js)
}
