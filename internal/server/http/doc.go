// Package httpserver provides the REST gateway for Loggy: JSON endpoints for
// recording and paging entries, a zip export download, a websocket live
// stream and the Prometheus scrape endpoint.
//
// Example:
//
//	rt, _ := runtime.Open(runtime.Options{Config: config.Default()})
//	s := httpserver.New(rt, logger)
//	ctx, cancel := context.WithCancel(context.Background())
//	defer cancel()
//	_ = s.ListenAndServe(ctx, ":8080")
package httpserver
