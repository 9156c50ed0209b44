// Package trialsum extracts structured clinical-trial summaries from
// journal article pages. It fetches an article through an ordered chain of
// progressively more expensive strategies, parses the structured abstract
// into Population, Intervention, Setting, Outcome and Findings boxes with
// typed statistical fields, and normalizes comparable findings into chart
// input for an external slide renderer.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., rod/, goquery/, sqlite/) or after
// the concern they implement in pure Go (e.g., fields/, extract/, chart/).
package trialsum
