package reducer

import (
	"doxreduce/internal/adapter/dom"
)

func footerizeSeeSection(d *dom.Document) (bool, error) {
	changed := false
	for _, item := range d.Find("#doc-content .memitem").Nodes {
		see := dom.First(item, ".memdoc > .section.see")
		if see == nil {
			continue
		}
		if dt := dom.First(see, "dt"); dt != nil {
			dom.SetText(dt, "See also:")
		}
		dom.Append(item, see)
		changed = true
	}
	return changed, nil
}
