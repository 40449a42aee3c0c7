// Package live serves a compiled view over HTTP and drives it from browser
// events over a WebSocket.
//
// Every WebSocket session owns its own view-model, built from the same
// template and data. The browser forwards DOM events for elements that have
// listeners; the server dispatches them on its own tree, where bindings run
// synchronously, and sends the re-rendered body back.
//
// Routes:
//
//	GET /         full page with the client script
//	GET /ws       WebSocket session
//	GET /metrics  Prometheus metrics
//	GET /healthz  liveness check
//
// Wire format, JSON text frames:
//
//	server → client  {"type":"render","html":"..."}
//	                 {"type":"error","code":"VB041","message":"..."}
//	client → server  {"type":"event","hid":"h3","event":"input","value":"x"}
package live
