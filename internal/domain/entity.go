package domain

import (
	"fmt"
	"strings"
)

// RankedEntity is one recommendation result from the insights service.
// Name is the only field the service guarantees; Affinity is an opaque
// relevance score used solely for ordering where the call site ranks tags.
type RankedEntity struct {
	Name        string
	Year        int
	Description string
	Affinity    float64
}

// Render formats the entity as a prompt list line: "- name (year) — description".
func (e RankedEntity) Render() string {
	var b strings.Builder
	b.WriteString("- ")
	b.WriteString(e.Name)
	if e.Year > 0 {
		fmt.Fprintf(&b, " (%d)", e.Year)
	}
	if e.Description != "" {
		b.WriteString(" — ")
		b.WriteString(e.Description)
	}
	return b.String()
}

// ResolvedTagSet holds the canonical identifiers found for one mood phrase.
type ResolvedTagSet struct {
	Phrase    string
	TagIDs    []string
	EntityIDs []string
}

// ResolvedTags is the merged view over all phrases of one invocation:
// flattened in phrase order, duplicates kept, exactly as the insights
// request expects them.
type ResolvedTags struct {
	Sets []ResolvedTagSet
}

// TagIDs flattens the per-phrase tag identifiers in phrase order.
func (r *ResolvedTags) TagIDs() []string {
	if r == nil {
		return nil
	}
	var ids []string
	for _, set := range r.Sets {
		ids = append(ids, set.TagIDs...)
	}
	return ids
}

// EntityIDs flattens the per-phrase entity identifiers in phrase order.
func (r *ResolvedTags) EntityIDs() []string {
	if r == nil {
		return nil
	}
	var ids []string
	for _, set := range r.Sets {
		ids = append(ids, set.EntityIDs...)
	}
	return ids
}
