// Package staging stores uploaded job inputs until the worker has processed
// them.
//
// A LocalStager keeps files in a directory per job on disk. An ObjectStager
// keeps them as objects under a per job key prefix in the storage bucket, which
// lets the API and the worker run on different hosts sharing a bucket. Either
// way, Cleanup removes everything staged for a job.
package staging
