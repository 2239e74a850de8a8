package xml21

import "github.com/r9s-ai/findologic-api-go/pkg/responses/ordered"

// ItemMap maps item names to items in document order. A repeated name
// replaces the earlier item.
type ItemMap = ordered.Map[*Item]

// WalkItems visits every item below m depth first, parents before children.
func WalkItems(m *ItemMap, fn func(path []string, it *Item) bool) {
	ordered.Walk(m, func(it *Item) *ItemMap { return it.Items }, fn)
}
