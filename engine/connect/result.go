// Package connect reconciles derived documents into the entity graph:
// articles to launches and cars, launches to canonical car models, and raw
// price rows to concrete car variants.
package connect

// Result summarises one reconciliation action over one entity kind.
type Result struct {
	Action         string
	Entity         string
	ItemsProcessed int
}

// Merge combines results with the same action and entity, summing their
// counts and preserving first-seen order.
func Merge(results []Result) []Result {
	type key struct{ action, entity string }
	idx := make(map[key]int)
	var out []Result
	for _, r := range results {
		k := key{r.Action, r.Entity}
		if i, ok := idx[k]; ok {
			out[i].ItemsProcessed += r.ItemsProcessed
			continue
		}
		idx[k] = len(out)
		out = append(out, r)
	}
	return out
}
