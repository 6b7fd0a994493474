// Package spanfmt assembles sfjson formatting layers with a
// conventional default schema: timestamp, level, target, the event's
// fields under "fields", the current span under "span", and the span
// scope under "spans". Each boolean Option toggles one entry; anything
// beyond that goes through WithJSONOptions or the sfjson package
// directly.
package spanfmt
