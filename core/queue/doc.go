// Package queue provides the in-process job queue that feeds the reconciliation
// worker.
//
// The queue is bounded. Submit never blocks longer than its configured timeout
// and reports saturation as false, leaving the caller to decide whether to
// retry. Dequeue waits with its own timeout and also returns when its context is
// cancelled, so the worker can notice shutdown promptly.
//
// One Queue is created at startup and shared by the API layer and the worker.
//
//	q := queue.NewFromConfig(cfg.Queue)
//	if !q.Submit(ctx, jobID) {
//	    // queue saturated
//	}
//
//	id, ok := q.Dequeue(ctx, time.Second)
//	if ok {
//	    handle(id)
//	    q.MarkDone()
//	}
package queue
