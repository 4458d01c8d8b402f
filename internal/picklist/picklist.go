// Package picklist holds the two lists of the question transfer widget:
// the questions available to pick (source) and the questions already
// attached to the exam (target).
package picklist

import "github.com/sgp/sgp-backend/internal/model"

// RemoveRepetitions returns a new list keeping only the first item for each
// Value, in input order. Lists are small (tens of items) so a linear scan of
// the output per input item is enough.
func RemoveRepetitions(items []model.SelectItem) []model.SelectItem {
	reduced := make([]model.SelectItem, 0, len(items))
	for _, item := range items {
		duplicated := false
		for _, kept := range reduced {
			if kept.Value == item.Value {
				duplicated = true
				break
			}
		}
		if !duplicated {
			reduced = append(reduced, item)
		}
	}
	return reduced
}

// Picklist is the state of a dual-list transfer widget. It is not safe for
// concurrent use; the form controller guards it with its own mutex.
type Picklist struct {
	source []model.SelectItem
	target []model.SelectItem
}

// Source returns a copy of the available items.
func (p *Picklist) Source() []model.SelectItem {
	return append([]model.SelectItem(nil), p.source...)
}

// Target returns a copy of the selected items. It is never nil.
func (p *Picklist) Target() []model.SelectItem {
	return append([]model.SelectItem{}, p.target...)
}

// SetSource replaces the available items, typically with a freshly fetched page.
func (p *Picklist) SetSource(items []model.SelectItem) {
	p.source = append([]model.SelectItem(nil), items...)
}

// SetTarget replaces the selected items.
func (p *Picklist) SetTarget(items []model.SelectItem) {
	p.target = append([]model.SelectItem(nil), items...)
}

// ClearTarget empties the selected items.
func (p *Picklist) ClearTarget() {
	p.target = nil
}

// MoveToTarget moves the source items with the given values to the target
// list and de-duplicates the target. It returns how many items moved.
func (p *Picklist) MoveToTarget(values ...int64) int {
	var moved []model.SelectItem
	p.source, moved = extract(p.source, values)
	p.target = RemoveRepetitions(append(p.target, moved...))
	return len(moved)
}

// MoveToSource moves the target items with the given values back to the
// source list and de-duplicates the source. It returns how many items moved.
func (p *Picklist) MoveToSource(values ...int64) int {
	var moved []model.SelectItem
	p.target, moved = extract(p.target, values)
	p.source = RemoveRepetitions(append(p.source, moved...))
	return len(moved)
}

// MoveAllToTarget moves every source item to the target list.
func (p *Picklist) MoveAllToTarget() int {
	n := len(p.source)
	p.target = RemoveRepetitions(append(p.target, p.source...))
	p.source = nil
	return n
}

// MoveAllToSource moves every target item back to the source list.
func (p *Picklist) MoveAllToSource() int {
	n := len(p.target)
	p.source = RemoveRepetitions(append(p.source, p.target...))
	p.target = nil
	return n
}

// extract splits items into the ones whose value is not in values and the
// ones whose value is, both keeping their relative order.
func extract(items []model.SelectItem, values []int64) (kept, picked []model.SelectItem) {
	want := make(map[int64]struct{}, len(values))
	for _, v := range values {
		want[v] = struct{}{}
	}
	kept = make([]model.SelectItem, 0, len(items))
	for _, item := range items {
		if _, ok := want[item.Value]; ok {
			picked = append(picked, item)
			continue
		}
		kept = append(kept, item)
	}
	return kept, picked
}
