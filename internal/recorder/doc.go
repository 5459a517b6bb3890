// Package recorder is the emission surface: it builds entries at call time
// and hands them to one worker goroutine that persists them in order.
//
// Emission never returns persistence failures to the caller. They are
// logged, counted and offered on Errors().
//
//	rec := recorder.New(store, recorder.Options{})
//	defer rec.Close()
//	rec.Info("user opened settings")
//	rec.Thread("sync").Error("upload failed", err)
package recorder
