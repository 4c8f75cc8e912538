// Package competition provides the record type for BJCP competition calendar rows.
//
// A Record is derived purely from one table row of the public calendar: it carries the
// competition name, its location, and the judging and entry deadline dates. Dates are
// parsed leniently; a date that cannot be read unambiguously is stored as nil so that
// the record is still kept while no calendar event is produced for it.
package competition
