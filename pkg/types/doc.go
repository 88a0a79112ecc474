// Package types defines the Storage, ActivityStore and ScoreLedger
// interfaces, the activity and score entity types, and the standard error
// values for the puzzlelog activity log.
package types
