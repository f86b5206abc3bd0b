package tasks

// TaskSchedulerInterface defines the interface for task scheduling operations.
// Used by the main application to manage background task processing.
// This interface provides task queue management, worker pool control, and
// periodic scheduling of due website scrapes.
// Example usage:
//
//	scheduler := NewScheduler(configs, factory, pipeline, websiteRepo)
//	scheduler.Start()
//	defer scheduler.Stop()
//	scheduler.EnqueueTask(NewScrapeWebsiteTask(...))
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}
