/*
Package server exposes a Mapeo configuration directory over HTTP.

# Routes

Configuration data, read fresh from disk on every request:

	GET /api/config       whole project with the resolved _format
	GET /api/presets      sorted presets with iconPath
	GET /api/fields       fields with key and _format
	GET /api/messages     translations per language
	GET /api/defaults     defaults.json
	GET /api/metadata     metadata.json
	GET /api/stylesheet   style.css (also at /style.css)
	GET /icons/{name}     SVG icon, or 404 {"error":"Icon not found."}
	GET /path             {"data": <configuration directory>}
	GET /health           {"status":"ok"}

Icon URLs are built from the request: the scheme comes from
X-Forwarded-Proto (or TLS), the hostname from the Host header and the port
from the configured listen port.

# Change Notifications

When the event bus carries config.updated, clients are told to reload:

	GET /event   Server-Sent Events; a server.connected message first, then
	             {"type":"presets:update","properties":{...}} per change and
	             a heartbeat comment every 30 seconds
	GET /ws      WebSocket; {"type":"presets:update","message":"Presets updated"}

Slow SSE or WebSocket clients lose notifications rather than block the bus.

# Static UI

Unless headless, a prebuilt UI directory can be served at "/".
*/
package server
