// Package reconciliation runs reconciliation jobs and serves their HTTP API.
//
// A job is created by an upload, staged, and submitted through the Manager to
// the bounded queue. The single Processor worker moves it through
// pending, queued, processing and finally completed or failed, persisting
// result rows through the Repository. The Sweeper reports jobs left in
// processing by a crash.
package reconciliation
