// Package jobs contains background jobs for the Questboard API.
//
// Jobs follow a common shape: a constructor taking dependencies and a
// cadence, Start/Stop lifecycle methods safe to call more than once,
// and a RunOnce method for manual triggers and tests.
//
// SummaryReminder sweeps for completed quests whose referee still owes
// a summary and logs each overdue quest along with the referee's DM
// opt-in state. The Discord bot consumes those log events to deliver
// the actual nudges.
package jobs
