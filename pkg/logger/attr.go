package logger

import (
	"log/slog"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// UploadSet records the upload set name under the key "upload_set".
func UploadSet(name string) slog.Attr {
	return slog.String("upload_set", name)
}

// Filename records a file name under the key "filename".
func Filename(name string) slog.Attr {
	return slog.String("filename", name)
}

// Destination records a storage destination under the key "destination".
func Destination(dest string) slog.Attr {
	return slog.String("destination", dest)
}

// Extension records a file extension under the key "extension".
func Extension(ext string) slog.Attr {
	return slog.String("extension", ext)
}

// RequestID records the request identifier under the key "request_id".
// Empty ids produce an empty Attr.
func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}
