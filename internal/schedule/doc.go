// Package schedule is the due-time evaluation core of taskmill.
//
// # Overview
//
// Callers describe recurring work as Events on a Schedule. Each Event owns a
// six-field time-matching Expression (second, minute, hour, day-of-month,
// month, day-of-week) that is edited through fluent helpers (Hourly, DailyAt,
// Weekdays, ...) and evaluated against a timezone-adjusted instant to decide
// whether the event is due. Evaluation is a pure function: the same
// expression and instant always produce the same answer.
//
// # Expression format
//
// Raw cron strings accepted by Cron() and Parse() use six whitespace-separated
// fields: "<second> <minute> <hour> <day-of-month> <month> <day-of-week>".
// Day-of-week runs 0..6 with 0 = Sunday. Each field accepts "*", a number, a
// comma list, an inclusive "a-b" range, and "*/n" or "a-b/n" step sequences.
// A 5-field string is also accepted; it is widened with a leading wildcard
// second field, so such an event is due on any second of a matching minute.
//
// Per traditional cron, day-of-month and day-of-week combine with OR when both
// are restricted; every other field combines with AND.
//
// # Gating
//
// Beyond the expression, an event can carry at most one filter predicate
// (When) and one reject predicate (Skip). The filter is checked before the
// reject and a failed filter short-circuits. Registering a second predicate of
// either kind replaces the previous one.
package schedule
