// Package logging builds the structured slog loggers used across the
// exporter.
//
// # Usage
//
//	logger, err := logging.New(logging.Config{
//	    Level:         "info",
//	    Format:        "json",
//	    RedactSecrets: true,
//	})
//
//	ctx = logging.WithExportID(ctx, id)
//	ctx = logging.WithMode(ctx, "remote")
//	logger.InfoContext(ctx, "export finished", "rows", 42)
//	// {"level":"INFO","msg":"export finished","export_id":"...","mode":"remote","rows":42}
//
// Loggers returned by New copy export_id, mode, format and request_id from
// the context onto every record logged through the *Context methods.
//
// # Secret redaction
//
// With RedactSecrets enabled, attributes whose key names a credential
// (token, secret, password, authorization, access key) are masked, and
// bearer tokens or URL credentials embedded in string values are replaced.
package logging
