// Package grpcserver hosts the gRPC server for Loggy. It exposes the standard
// grpc.health.v1 service, re-probing the runtime periodically so Watch
// callers see storage failures and shutdown.
//
// Example:
//
//	rt, _ := runtime.Open(runtime.Options{Config: config.Default()})
//	s := grpcserver.New(rt, logger)
//	ctx, cancel := context.WithCancel(context.Background())
//	defer cancel()
//	_ = s.ListenAndServe(ctx, ":9090")
package grpcserver
