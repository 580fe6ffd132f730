package xslog

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/garrettladley/ksclock/internal/version"
	"github.com/garrettladley/ksclock/internal/xhttp"
)

const (
	keyError = "error"
)

func Error(err error) slog.Attr {
	return slog.String(keyError, err.Error())
}

func RequestID(requestID string) slog.Attr {
	const requestIDKey = "request_id"
	return slog.String(requestIDKey, requestID)
}

func Stack() slog.Attr {
	const stackKey = "stack"
	return slog.String(stackKey, string(debug.Stack()))
}

func HTTPStatus(status int) slog.Attr {
	const statusKey = "status"
	return slog.Int(statusKey, status)
}

func Duration(duration time.Duration) slog.Attr {
	const durationKey = "duration"
	return slog.Duration(durationKey, duration)
}

func RequestMethod(r *http.Request) slog.Attr {
	const methodKey = "method"
	return slog.String(methodKey, r.Method)
}

func RequestPath(r *http.Request) slog.Attr {
	const pathKey = "path"
	return slog.String(pathKey, r.URL.Path)
}

func IP(ip string) slog.Attr {
	const ipKey = "ip"
	return slog.String(ipKey, ip)
}

func RequestIP(r *http.Request) slog.Attr {
	return IP(xhttp.GetRequestIP(r))
}

func Version() slog.Attr {
	const versionKey = "version"
	return slog.String(versionKey, version.Get())
}

func ClientVersion(clientVersion string) slog.Attr {
	const clientVersionKey = "client_version"
	return slog.String(clientVersionKey, clientVersion)
}

func DeviceID(id string) slog.Attr {
	const deviceIDKey = "device_id"
	return slog.String(deviceIDKey, id)
}

func SessionID(id string) slog.Attr {
	const sessionIDKey = "session_id"
	return slog.String(sessionIDKey, id)
}

func Backoff(d time.Duration) slog.Attr {
	const backoffKey = "backoff"
	return slog.Duration(backoffKey, d)
}

// Clock renders an hour and minute pair as HH:MM.
func Clock(hours, minutes int) slog.Attr {
	const clockKey = "clock"
	return slog.String(clockKey, time.Date(0, 1, 1, hours, minutes, 0, 0, time.UTC).Format("15:04"))
}

func Color(c string) slog.Attr {
	const colorKey = "color"
	return slog.String(colorKey, c)
}

func Radius(r int) slog.Attr {
	const radiusKey = "radius"
	return slog.Int(radiusKey, r)
}

func Temperature(t int) slog.Attr {
	const temperatureKey = "temperature"
	return slog.Int(temperatureKey, t)
}

func Icon(icon string) slog.Attr {
	const iconKey = "icon"
	return slog.String(iconKey, icon)
}

func Settings(v slog.LogValuer) slog.Attr {
	const settingsKey = "settings"
	return slog.Any(settingsKey, v)
}
