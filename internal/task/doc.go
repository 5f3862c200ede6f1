// Package task defines the task domain model.
//
// A Task carries a numeric ID assigned by the store, a description, a
// Status, and creation/update timestamps.
//
// # Task Status Values
//
// Each status has an integer code (used on disk) and a label (used on the
// command line):
//
//   - 1 "todo": not started
//   - 2 "in-progress": being worked on
//   - 3 "done": complete
//
// Status changes are not restricted: any status may follow any other.
package task
