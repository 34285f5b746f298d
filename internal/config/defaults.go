package config

var defaults = map[string]any{
	"api_base_url":   "http://localhost:8080",
	"api_token":      "",
	"event_id":       0,
	"station_secret": "",
	"log_level":      "info",

	"scan.interval_ms":   500,
	"scan.result_ttl_ms": 3000,
	"scan.facing":        "environment",
	"scan.preset_file":   "",
	"scan.preset":        "",
	"scan.loop_frames":   true,

	"console.listen": "127.0.0.1:8765",

	"storage.type":        "sqlite",
	"storage.sqlite.path": "./data/journal.db",
}

func Defaults() map[string]any {
	values := make(map[string]any)
	for k, v := range defaults {
		values[k] = v
	}
	return values
}
