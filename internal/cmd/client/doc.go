// Package client provides the `loggy` command-line client.
//
// Most commands talk to the Loggy HTTP API; `tail` follows the tape file
// directly and works without a running server.
//
// # Address configuration
//
// The HTTP base URL is discovered by the application that embeds the
// commands via a BaseURLFunc. The standalone binary reads LOGGY_HTTP and
// defaults to http://127.0.0.1:8080.
//
// Usage
//
//	loggy emit --priority W --thread sync "disk almost full"
//	loggy emit --priority E --label upload "connection reset"
//
//	loggy page --page 0 --size 20 --errors
//	loggy page --expr 'thread == "sync" && ts_ms > now_ms - 60000'
//	loggy cat
//
//	loggy tail --file ~/.local/share/loggy/logs/tape.log
//
//	loggy export --errors --out errors.zip
//	loggy clear --confirm
package client
