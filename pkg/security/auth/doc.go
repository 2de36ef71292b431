// Package auth guards administrative HTTP endpoints with API keys.
//
// The snapshot refresh endpoint regenerates public files and is limited to
// holders of a configured admin key:
//
//	validator := auth.NewAPIKeyValidator(auth.KeysFromStrings(cfg.Server.AdminKeys))
//	mw := auth.NewAPIKeyMiddleware(validator, nil, logger)
//	r.With(mw.Handle).Post("/snapshots/refresh", refresh)
//
// Keys are read from "Authorization: Bearer <key>" or "X-API-Key" unless
// other sources are given.
package auth
