// Package pebblestore wraps Pebble as the embedded database behind the
// structured log box: fsync policy, batches, range deletes and a metrics
// hook the Prometheus collectors plug into.
//
// Usage:
//
//	db, err := pebblestore.Open(pebblestore.Options{
//	    DataDir: "./data/box",
//	    Fsync:   pebblestore.FsyncModeInterval,
//	    Logger:  logger.WithComponent("pebble"),
//	})
//	if err != nil { /* handle */ }
//	defer db.Close()
//
//	b := db.NewBatch()
//	_ = b.Set([]byte("k"), []byte("v"), nil)
//	_ = db.CommitBatch(context.Background(), b)
//	b.Close()
//
//	_ = db.DeleteRange([]byte("box/logs/"), []byte("box/logs0"))
package pebblestore
