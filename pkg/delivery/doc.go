// Package delivery hands finished export payloads to their destination:
// a download directory, a writer such as stdout, an HTTP response or an
// S3-compatible bucket. Every type here implements export.Deliverer.
package delivery
